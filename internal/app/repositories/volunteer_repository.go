package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/db"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/dberrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VolunteerRepository handles database operations for volunteers
type VolunteerRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewVolunteerRepository creates a new VolunteerRepository
func NewVolunteerRepository(db *pgxpool.Pool) *VolunteerRepository {
	return &VolunteerRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func (r *VolunteerRepository) selectQuery() squirrel.SelectBuilder {
	cols := append([]string{
		"v.id", "v.user_id", "v.discipline_id", "v.status", "v.inactive_reason", "v.created_at", "v.updated_at",
		"d.name AS discipline_name",
	}, userColumns...)
	return r.sb.Select(cols...).
		From("volunteers v").
		Join("users u ON u.id = v.user_id").
		LeftJoin("disciplines d ON d.id = v.discipline_id")
}

func scanVolunteer(row pgx.Row) (*models.Volunteer, error) {
	v := &models.Volunteer{User: &models.User{}}
	var disciplineName *string
	dest := append([]interface{}{
		&v.ID, &v.UserID, &v.DisciplineID, &v.Status, &v.InactiveReason, &v.CreatedAt, &v.UpdatedAt,
		&disciplineName,
	}, userDest(v.User)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if v.DisciplineID != nil && disciplineName != nil {
		v.Discipline = &models.Discipline{ID: *v.DisciplineID, Name: *disciplineName}
	}
	return v, nil
}

// attachRelations loads availability slots and group ids
func (r *VolunteerRepository) attachRelations(ctx context.Context, q querier, v *models.Volunteer) error {
	slots, err := loadSlots(ctx, q, r.sb, volunteerAvailabilitySet, v.ID)
	if err != nil {
		return err
	}
	groupIDs, err := loadLinkedIDs(ctx, q, r.sb, volunteerGroupsSet, v.ID)
	if err != nil {
		return err
	}
	v.Availability = slots
	v.GroupIDs = groupIDs
	return nil
}

// Create inserts the account, the volunteer profile and its availability in one transaction
func (r *VolunteerRepository) Create(ctx context.Context, user *models.User, v *models.Volunteer) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertUser(ctx, tx, r.sb, user); err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("volunteers").
			Columns("user_id", "discipline_id", "status").
			Values(user.ID, v.DisciplineID, string(models.VolunteerActive)).
			Suffix("RETURNING id, status, created_at, updated_at").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create volunteer SQL")
			return fmt.Errorf("failed to build create volunteer query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&v.ID, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrDisciplineNotFound
			}
			logger.Error().Err(err).Int64("userID", user.ID).Msg("Error executing create volunteer query")
			return fmt.Errorf("error creating volunteer: %w", err)
		}

		v.UserID = user.ID
		v.User = user
		if v.GroupIDs == nil {
			v.GroupIDs = []int64{}
		}
		if v.Availability == nil {
			v.Availability = []models.TimeSlot{}
		}
		return replaceAssociations(ctx, tx, r.sb, volunteerAvailabilitySet, v.ID, slotRows(v.Availability))
	})
}

// GetByID retrieves a volunteer with account, availability and groups
func (r *VolunteerRepository) GetByID(ctx context.Context, id int64) (*models.Volunteer, error) {
	return r.getOne(ctx, squirrel.Eq{"v.id": id})
}

// GetByUserID retrieves the volunteer profile of an account
func (r *VolunteerRepository) GetByUserID(ctx context.Context, userID int64) (*models.Volunteer, error) {
	return r.getOne(ctx, squirrel.Eq{"v.user_id": userID})
}

func (r *VolunteerRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Volunteer, error) {
	sql, args, err := r.selectQuery().Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get volunteer SQL")
		return nil, fmt.Errorf("failed to build get volunteer query: %w", err)
	}

	v, err := scanVolunteer(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVolunteerNotFound
		}
		logger.Error().Err(err).Msg("Error scanning volunteer row")
		return nil, fmt.Errorf("error retrieving volunteer: %w", err)
	}

	if err := r.attachRelations(ctx, r.db, v); err != nil {
		return nil, err
	}
	return v, nil
}

// List returns one page of volunteers matching filter
func (r *VolunteerRepository) List(ctx context.Context, filter dto.VolunteerListFilter) ([]*models.Volunteer, int64, error) {
	where := squirrel.And{}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"v.status": string(*filter.Status)})
	}
	if filter.DisciplineID != nil {
		where = append(where, squirrel.Eq{"v.discipline_id": *filter.DisciplineID})
	}
	if filter.Search != "" {
		pattern := helpers.LikePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
			squirrel.ILike{"u.email": pattern},
			squirrel.ILike{"u.dni": pattern},
		})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").
		From("volunteers v").
		Join("users u ON u.id = v.user_id").
		Where(where), "volunteers")
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := r.selectQuery().
		Where(where).
		OrderBy("u.last_name", "u.first_name", "v.id").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list volunteers SQL")
		return nil, 0, fmt.Errorf("failed to build list volunteers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list volunteers query")
		return nil, 0, fmt.Errorf("error listing volunteers: %w", err)
	}
	items := make([]*models.Volunteer, 0)
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("error scanning volunteer row: %w", err)
		}
		items = append(items, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating volunteers: %w", err)
	}

	for _, v := range items {
		if err := r.attachRelations(ctx, r.db, v); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// Update writes account fields and the discipline of the volunteer in one transaction
func (r *VolunteerRepository) Update(ctx context.Context, v *models.Volunteer) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := updateUser(ctx, tx, r.sb, v.User); err != nil {
			return err
		}

		sql, args, err := r.sb.Update("volunteers").
			Set("discipline_id", v.DisciplineID).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": v.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update volunteer query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrDisciplineNotFound
			}
			logger.Error().Err(err).Int64("volunteerID", v.ID).Msg("Error executing update volunteer query")
			return fmt.Errorf("error updating volunteer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrVolunteerNotFound
		}
		return nil
	})
}

// UpdateStatus sets the status and the inactivity reason
func (r *VolunteerRepository) UpdateStatus(ctx context.Context, id int64, status models.VolunteerStatus, reason *string) error {
	sql, args, err := r.sb.Update("volunteers").
		Set("status", string(status)).
		Set("inactive_reason", reason).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update volunteer status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("volunteerID", id).Msg("Error executing update volunteer status query")
		return fmt.Errorf("error updating volunteer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVolunteerNotFound
	}
	return nil
}

// Delete removes the volunteer together with its account
func (r *VolunteerRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("users").
		Where("id = (SELECT user_id FROM volunteers WHERE id = ?)", id).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete volunteer query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewConflictError("volunteer has progress records and cannot be deleted; set it inactive instead")
		}
		logger.Error().Err(err).Int64("volunteerID", id).Msg("Error executing delete volunteer query")
		return fmt.Errorf("error deleting volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVolunteerNotFound
	}
	return nil
}

// ExistingIDs returns which of ids are volunteers
func (r *VolunteerRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return existingIDs(ctx, r.db, r.sb, "volunteers", ids)
}

// ReplaceAvailability makes the availability of the volunteer exactly slots
func (r *VolunteerRepository) ReplaceAvailability(ctx context.Context, id int64, slots []models.TimeSlot) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		found, err := lockRow(ctx, tx, r.sb, "volunteers", id)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrVolunteerNotFound
		}
		return replaceAssociations(ctx, tx, r.sb, volunteerAvailabilitySet, id, slotRows(slots))
	})
}

// ReplaceGroups makes the groups taught by the volunteer exactly groupIDs
func (r *VolunteerRepository) ReplaceGroups(ctx context.Context, id int64, groupIDs []int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		found, err := lockRow(ctx, tx, r.sb, "volunteers", id)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrVolunteerNotFound
		}
		return replaceAssociations(ctx, tx, r.sb, volunteerGroupsSet, id, idRows(groupIDs))
	})
}
