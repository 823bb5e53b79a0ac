package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/dberrors"
	"github.com/empatecerca/api/internal/pkg/logger"
)

// associationSet describes a child table whose rows for one parent are always
// replaced as a whole: delete every row of the parent, then insert the new set.
type associationSet struct {
	table     string
	parentCol string
	columns   []string
}

var (
	groupVolunteersSet = associationSet{
		table:     "group_volunteers",
		parentCol: "group_id",
		columns:   []string{"volunteer_id"},
	}
	volunteerGroupsSet = associationSet{
		table:     "group_volunteers",
		parentCol: "volunteer_id",
		columns:   []string{"group_id"},
	}
	groupScheduleSet = associationSet{
		table:     "group_schedules",
		parentCol: "group_id",
		columns:   []string{"day", "time_from", "time_to", "position"},
	}
	volunteerAvailabilitySet = associationSet{
		table:     "volunteer_availability",
		parentCol: "volunteer_id",
		columns:   []string{"day", "time_from", "time_to", "position"},
	}
)

// replaceAssociations makes the rows of set for parentID equal to rows.
// Each row holds the values of set.columns in order. It must run inside a
// transaction; an empty rows clears the association.
func replaceAssociations(ctx context.Context, q querier, sb squirrel.StatementBuilderType, set associationSet, parentID int64, rows [][]interface{}) error {
	for _, row := range rows {
		if len(row) != len(set.columns) {
			return fmt.Errorf("%s row has %d values, want %d", set.table, len(row), len(set.columns))
		}
	}

	sql, args, err := sb.Delete(set.table).Where(squirrel.Eq{set.parentCol: parentID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", set.table).Msg("Error building association delete SQL")
		return fmt.Errorf("failed to build %s delete query: %w", set.table, err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", set.table).Int64("parentID", parentID).Msg("Error clearing associations")
		return fmt.Errorf("error clearing %s: %w", set.table, err)
	}

	if len(rows) == 0 {
		logger.Debug().Str("table", set.table).Int64("parentID", parentID).Int64("removed", tag.RowsAffected()).Msg("Associations cleared")
		return nil
	}

	insert := sb.Insert(set.table).Columns(append([]string{set.parentCol}, set.columns...)...)
	for _, row := range rows {
		insert = insert.Values(append([]interface{}{parentID}, row...)...)
	}
	sql, args, err = insert.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", set.table).Msg("Error building association insert SQL")
		return fmt.Errorf("failed to build %s insert query: %w", set.table, err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewBadRequestError("a referenced record no longer exists")
		case dberrors.IsUniqueViolation(err):
			return apperrors.NewConflictError("duplicate entries in association list")
		case dberrors.IsCheckViolation(err):
			return apperrors.NewBadRequestError("invalid time slot")
		}
		logger.Error().Err(err).Str("table", set.table).Int64("parentID", parentID).Msg("Error inserting associations")
		return fmt.Errorf("error inserting %s: %w", set.table, err)
	}

	logger.Debug().Str("table", set.table).Int64("parentID", parentID).
		Int64("removed", tag.RowsAffected()).Int("inserted", len(rows)).Msg("Associations replaced")
	return nil
}

func idRows(ids []int64) [][]interface{} {
	rows := make([][]interface{}, len(ids))
	for i, id := range ids {
		rows[i] = []interface{}{id}
	}
	return rows
}

// slotRows keeps the given order as the slot position
func slotRows(slots []models.TimeSlot) [][]interface{} {
	rows := make([][]interface{}, len(slots))
	for i, s := range slots {
		rows[i] = []interface{}{string(s.Day), s.TimeFrom, s.TimeTo, i}
	}
	return rows
}

// loadSlots reads the slots of set for parentID ordered by position
func loadSlots(ctx context.Context, q querier, sb squirrel.StatementBuilderType, set associationSet, parentID int64) ([]models.TimeSlot, error) {
	sql, args, err := sb.Select("day", "time_from", "time_to").
		From(set.table).
		Where(squirrel.Eq{set.parentCol: parentID}).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s select query: %w", set.table, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", set.table).Int64("parentID", parentID).Msg("Error loading slots")
		return nil, fmt.Errorf("error loading %s: %w", set.table, err)
	}
	defer rows.Close()

	slots := make([]models.TimeSlot, 0)
	for rows.Next() {
		var s models.TimeSlot
		if err := rows.Scan(&s.Day, &s.TimeFrom, &s.TimeTo); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", set.table, err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// loadLinkedIDs reads the child ids of a link table (group_volunteers) for parentID
func loadLinkedIDs(ctx context.Context, q querier, sb squirrel.StatementBuilderType, set associationSet, parentID int64) ([]int64, error) {
	col := set.columns[0]
	sql, args, err := sb.Select(col).
		From(set.table).
		Where(squirrel.Eq{set.parentCol: parentID}).
		OrderBy(col).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s select query: %w", set.table, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", set.table).Int64("parentID", parentID).Msg("Error loading linked ids")
		return nil, fmt.Errorf("error loading %s: %w", set.table, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", set.table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
