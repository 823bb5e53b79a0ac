package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/db"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/dberrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GroupListFilter narrows group listings
type GroupListFilter struct {
	DisciplineID *int64
	TaughtBy     *int64
	Page         int
	Size         int
}

// GroupRepository handles database operations for groups and their schedule and volunteers
type GroupRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func (r *GroupRepository) selectQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"g.id", "g.name", "g.discipline_id", "g.max_members", "g.location", "g.created_at", "g.updated_at",
		"(SELECT COUNT(*) FROM students s WHERE s.group_id = g.id) AS member_count",
	).From("groups g")
}

func scanGroup(row pgx.Row) (*models.Group, error) {
	g := &models.Group{}
	err := row.Scan(&g.ID, &g.Name, &g.DisciplineID, &g.MaxMembers, &g.Location, &g.CreatedAt, &g.UpdatedAt, &g.MemberCount)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *GroupRepository) attachRelations(ctx context.Context, q querier, g *models.Group) error {
	schedule, err := loadSlots(ctx, q, r.sb, groupScheduleSet, g.ID)
	if err != nil {
		return err
	}
	volunteerIDs, err := loadLinkedIDs(ctx, q, r.sb, groupVolunteersSet, g.ID)
	if err != nil {
		return err
	}
	g.Schedule = schedule
	g.VolunteerIDs = volunteerIDs
	return nil
}

// Create inserts a group with its schedule and volunteers in one transaction
func (r *GroupRepository) Create(ctx context.Context, g *models.Group) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("groups").
			Columns("name", "discipline_id", "max_members", "location").
			Values(g.Name, g.DisciplineID, g.MaxMembers, g.Location).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create group SQL")
			return fmt.Errorf("failed to build create group query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrDisciplineNotFound
			}
			logger.Error().Err(err).Str("name", g.Name).Msg("Error executing create group query")
			return fmt.Errorf("error creating group: %w", err)
		}

		if g.Schedule == nil {
			g.Schedule = []models.TimeSlot{}
		}
		if g.VolunteerIDs == nil {
			g.VolunteerIDs = []int64{}
		}
		if err := replaceAssociations(ctx, tx, r.sb, groupScheduleSet, g.ID, slotRows(g.Schedule)); err != nil {
			return err
		}
		return replaceAssociations(ctx, tx, r.sb, groupVolunteersSet, g.ID, idRows(g.VolunteerIDs))
	})
}

// GetByID retrieves a group with member count, schedule and volunteer ids
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"g.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get group SQL")
		return nil, fmt.Errorf("failed to build get group query: %w", err)
	}

	g, err := scanGroup(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Int64("groupID", id).Msg("Error scanning group row")
		return nil, fmt.Errorf("error retrieving group: %w", err)
	}

	if err := r.attachRelations(ctx, r.db, g); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns one page of groups ordered by name
func (r *GroupRepository) List(ctx context.Context, filter GroupListFilter) ([]*models.Group, int64, error) {
	where := squirrel.And{}
	if filter.DisciplineID != nil {
		where = append(where, squirrel.Eq{"g.discipline_id": *filter.DisciplineID})
	}
	if filter.TaughtBy != nil {
		where = append(where, squirrel.Expr(
			"g.id IN (SELECT gv.group_id FROM group_volunteers gv WHERE gv.volunteer_id = ?)", *filter.TaughtBy))
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("groups g").Where(where), "groups")
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := r.selectQuery().
		Where(where).
		OrderBy("g.name", "g.id").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list groups SQL")
		return nil, 0, fmt.Errorf("failed to build list groups query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list groups query")
		return nil, 0, fmt.Errorf("error listing groups: %w", err)
	}
	items := make([]*models.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("error scanning group row: %w", err)
		}
		items = append(items, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating groups: %w", err)
	}

	for _, g := range items {
		if err := r.attachRelations(ctx, r.db, g); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// checkResize counts the members of g and rejects the change when max_members
// would drop below that count (ErrGroupCapacityTooLow) or when some member has
// a discipline other than the new one (ErrDisciplineMismatch).
func (r *GroupRepository) checkResize(ctx context.Context, q querier, g *models.Group) (int64, error) {
	members, err := countRows(ctx, q, r.sb.Select("COUNT(*)").From("students").Where(squirrel.Eq{"group_id": g.ID}), "group members")
	if err != nil {
		return 0, err
	}
	if int64(g.MaxMembers) < members {
		return 0, apperrors.NewCustomError(apperrors.ErrGroupCapacityTooLow,
			fmt.Sprintf("max members cannot be lower than the current member count (%d)", members))
	}

	mismatched, err := countRows(ctx, q, r.sb.Select("COUNT(*)").From("students").
		Where(squirrel.Eq{"group_id": g.ID}).
		Where(squirrel.NotEq{"discipline_id": nil}).
		Where(squirrel.NotEq{"discipline_id": g.DisciplineID}), "group members of other disciplines")
	if err != nil {
		return 0, err
	}
	if mismatched > 0 {
		return 0, apperrors.ErrDisciplineMismatch
	}
	return members, nil
}

// Update writes the scalar fields of a group after checkResize passes
func (r *GroupRepository) Update(ctx context.Context, g *models.Group) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		found, err := lockRow(ctx, tx, r.sb, "groups", g.ID)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrGroupNotFound
		}

		members, err := r.checkResize(ctx, tx, g)
		if err != nil {
			return err
		}

		sql, args, err := r.sb.Update("groups").
			Set("name", g.Name).
			Set("discipline_id", g.DisciplineID).
			Set("max_members", g.MaxMembers).
			Set("location", g.Location).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": g.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update group query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrDisciplineNotFound
			}
			logger.Error().Err(err).Int64("groupID", g.ID).Msg("Error executing update group query")
			return fmt.Errorf("error updating group: %w", err)
		}
		g.MemberCount = int(members)
		return nil
	})
}

// Delete removes a group. Students of the group become unassigned (ON DELETE SET NULL).
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("groups").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete group query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", id).Msg("Error executing delete group query")
		return fmt.Errorf("error deleting group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}
	return nil
}

// ExistingIDs returns which of ids are groups
func (r *GroupRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return existingIDs(ctx, r.db, r.sb, "groups", ids)
}

// ReplaceSchedule makes the weekly schedule of the group exactly slots
func (r *GroupRepository) ReplaceSchedule(ctx context.Context, id int64, slots []models.TimeSlot) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		found, err := lockRow(ctx, tx, r.sb, "groups", id)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrGroupNotFound
		}
		return replaceAssociations(ctx, tx, r.sb, groupScheduleSet, id, slotRows(slots))
	})
}

// ReplaceVolunteers makes the volunteers assigned to the group exactly volunteerIDs
func (r *GroupRepository) ReplaceVolunteers(ctx context.Context, id int64, volunteerIDs []int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		found, err := lockRow(ctx, tx, r.sb, "groups", id)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrGroupNotFound
		}
		return replaceAssociations(ctx, tx, r.sb, groupVolunteersSet, id, idRows(volunteerIDs))
	})
}
