package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScopeRepository answers the relationship questions behind role-scoped access:
// which profile a user owns and whether a volunteer teaches a student, group or tutor.
type ScopeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewScopeRepository creates a new ScopeRepository
func NewScopeRepository(db *pgxpool.Pool) *ScopeRepository {
	return &ScopeRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func (r *ScopeRepository) profileID(ctx context.Context, table string, userID int64) (*int64, error) {
	sql, args, err := r.sb.Select("id").From(table).Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s profile query: %w", table, err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Str("table", table).Int64("userID", userID).Msg("Error resolving profile id")
		return nil, fmt.Errorf("error resolving %s profile: %w", table, err)
	}
	return &id, nil
}

// VolunteerIDByUserID returns the volunteer profile of a user, or nil if there is none
func (r *ScopeRepository) VolunteerIDByUserID(ctx context.Context, userID int64) (*int64, error) {
	return r.profileID(ctx, "volunteers", userID)
}

// TutorIDByUserID returns the tutor profile of a user, or nil if there is none
func (r *ScopeRepository) TutorIDByUserID(ctx context.Context, userID int64) (*int64, error) {
	return r.profileID(ctx, "tutors", userID)
}

func (r *ScopeRepository) exists(ctx context.Context, sub squirrel.SelectBuilder, what string) (bool, error) {
	subSQL, args, err := sub.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build %s scope query: %w", what, err)
	}

	var ok bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS ("+subSQL+")", args...).Scan(&ok); err != nil {
		logger.Error().Err(err).Str("scope", what).Msg("Error executing scope query")
		return false, fmt.Errorf("error checking %s scope: %w", what, err)
	}
	return ok, nil
}

// VolunteerTeachesStudent reports whether the student's current group is one of the volunteer's groups
func (r *ScopeRepository) VolunteerTeachesStudent(ctx context.Context, volunteerID, studentID int64) (bool, error) {
	return r.exists(ctx, r.sb.Select("1").
		From("students s").
		Join("group_volunteers gv ON gv.group_id = s.group_id").
		Where(squirrel.Eq{"s.id": studentID, "gv.volunteer_id": volunteerID}),
		"volunteer student")
}

// VolunteerTeachesGroup reports whether the volunteer is assigned to the group
func (r *ScopeRepository) VolunteerTeachesGroup(ctx context.Context, volunteerID, groupID int64) (bool, error) {
	return r.exists(ctx, r.sb.Select("1").
		From("group_volunteers").
		Where(squirrel.Eq{"group_id": groupID, "volunteer_id": volunteerID}),
		"volunteer group")
}

// VolunteerTeachesTutor reports whether a student of the tutor is in one of the volunteer's groups
func (r *ScopeRepository) VolunteerTeachesTutor(ctx context.Context, volunteerID, tutorID int64) (bool, error) {
	return r.exists(ctx, r.sb.Select("1").
		From("students s").
		Join("group_volunteers gv ON gv.group_id = s.group_id").
		Where(squirrel.Eq{"s.tutor_id": tutorID, "gv.volunteer_id": volunteerID}),
		"volunteer tutor")
}

// TutorOwnsStudent reports whether the student is under the tutor's guardianship
func (r *ScopeRepository) TutorOwnsStudent(ctx context.Context, tutorID, studentID int64) (bool, error) {
	return r.exists(ctx, r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"id": studentID, "tutor_id": tutorID}),
		"tutor student")
}

// ContactUserIDs returns the user ids the given profile may message besides admins:
// for a tutor the volunteers teaching their students, for a volunteer the tutors of
// the students in their groups. Other roles have no relation-based contacts.
func (r *ScopeRepository) ContactUserIDs(ctx context.Context, role models.RoleType, profileID int64) ([]int64, error) {
	var sel squirrel.SelectBuilder
	switch role {
	case models.RoleTutor:
		sel = r.sb.Select("DISTINCT v.user_id").
			From("students s").
			Join("group_volunteers gv ON gv.group_id = s.group_id").
			Join("volunteers v ON v.id = gv.volunteer_id").
			Where(squirrel.Eq{"s.tutor_id": profileID})
	case models.RoleVolunteer:
		sel = r.sb.Select("DISTINCT t.user_id").
			From("group_volunteers gv").
			Join("students s ON s.group_id = gv.group_id").
			Join("tutors t ON t.id = s.tutor_id").
			Where(squirrel.Eq{"gv.volunteer_id": profileID})
	default:
		return []int64{}, nil
	}
	return r.collectIDs(ctx, sel, "contacts")
}

// AdminUserIDs returns the ids of active admin accounts
func (r *ScopeRepository) AdminUserIDs(ctx context.Context) ([]int64, error) {
	return r.collectIDs(ctx, r.sb.Select("id").
		From("users").
		Where(squirrel.Eq{"role_type": string(models.RoleAdmin), "is_active": true}).
		OrderBy("id"),
		"admins")
}

func (r *ScopeRepository) collectIDs(ctx context.Context, sel squirrel.SelectBuilder, what string) ([]int64, error) {
	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", what, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error executing id list query")
		return nil, fmt.Errorf("error listing %s: %w", what, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", what, err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
