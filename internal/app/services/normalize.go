package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/validation"
)

// normalizeIDs rejects non-positive ids and drops repeats, keeping first-seen order.
// A nil list becomes an empty one so it clears the association.
func normalizeIDs(ids []int64, field string) ([]int64, error) {
	for _, id := range ids {
		if id <= 0 {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("%s must contain positive ids", field))
		}
	}
	return helpers.DedupeIDs(ids), nil
}

// requireExisting fails with a not-found error naming every id that has no row
func requireExisting(ctx context.Context, ids []int64, what string, lookup func(context.Context, []int64) ([]int64, error)) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := lookup(ctx, ids)
	if err != nil {
		return err
	}
	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, fmt.Sprintf("%d", id))
		}
	}
	if len(missing) > 0 {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("%s not found: %s", what, strings.Join(missing, ", ")))
	}
	return nil
}

// normalizeSlots validates weekly slots, drops exact repeats and sorts them by
// day then start time. Slots that overlap on the same day are rejected.
func normalizeSlots(slots []models.TimeSlot) ([]models.TimeSlot, error) {
	out := make([]models.TimeSlot, 0, len(slots))
	seen := make(map[models.TimeSlot]struct{}, len(slots))

	for _, s := range slots {
		s.Day = models.Weekday(strings.ToUpper(strings.TrimSpace(string(s.Day))))
		if !s.Day.Valid() {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown day %q", s.Day))
		}
		if !validation.IsValidClock(s.TimeFrom) || !validation.IsValidClock(s.TimeTo) {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("times must be HH:MM (got %s-%s)", s.TimeFrom, s.TimeTo))
		}
		if s.TimeFrom >= s.TimeTo {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("slot %s %s-%s must start before it ends", s.Day, s.TimeFrom, s.TimeTo))
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day.Index() < out[j].Day.Index()
		}
		if out[i].TimeFrom != out[j].TimeFrom {
			return out[i].TimeFrom < out[j].TimeFrom
		}
		return out[i].TimeTo < out[j].TimeTo
	})

	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		if prev.Day == cur.Day && cur.TimeFrom < prev.TimeTo {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("slots %s %s-%s and %s-%s overlap",
				cur.Day, prev.TimeFrom, prev.TimeTo, cur.TimeFrom, cur.TimeTo))
		}
	}
	return out, nil
}

// normalizeDNI trims and upper-cases a DNI so lookups match regardless of input case
func normalizeDNI(dni string) string {
	return strings.ToUpper(strings.TrimSpace(dni))
}

// normalizeEmail trims and lower-cases an email address
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
