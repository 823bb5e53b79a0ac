package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/dberrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DisciplineRepository handles database operations for disciplines
type DisciplineRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDisciplineRepository creates a new DisciplineRepository
func NewDisciplineRepository(db *pgxpool.Pool) *DisciplineRepository {
	return &DisciplineRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func translateDisciplineError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, "disciplines_name_key") {
		return apperrors.ErrDisciplineAlreadyExists
	}
	return err
}

// Create inserts a new discipline
func (r *DisciplineRepository) Create(ctx context.Context, d *models.Discipline) error {
	sql, args, err := r.sb.Insert("disciplines").
		Columns("name", "description").
		Values(d.Name, d.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create discipline SQL")
		return fmt.Errorf("failed to build create discipline query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.CreatedAt); err != nil {
		if translated := translateDisciplineError(err); translated != err {
			return translated
		}
		logger.Error().Err(err).Str("name", d.Name).Msg("Error executing create discipline query")
		return fmt.Errorf("error creating discipline: %w", err)
	}
	return nil
}

// EnsureByName inserts the discipline unless one with that name exists
func (r *DisciplineRepository) EnsureByName(ctx context.Context, name string, description *string) error {
	sql, args, err := r.sb.Insert("disciplines").
		Columns("name", "description").
		Values(name, description).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ensure discipline query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error ensuring discipline %s: %w", name, err)
	}
	return nil
}

// GetByID retrieves a discipline by ID
func (r *DisciplineRepository) GetByID(ctx context.Context, id int64) (*models.Discipline, error) {
	sql, args, err := r.sb.Select("id", "name", "description", "created_at").
		From("disciplines").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get discipline SQL")
		return nil, fmt.Errorf("failed to build get discipline query: %w", err)
	}

	d := &models.Discipline{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDisciplineNotFound
		}
		logger.Error().Err(err).Int64("disciplineID", id).Msg("Error scanning discipline row")
		return nil, fmt.Errorf("error retrieving discipline: %w", err)
	}
	return d, nil
}

// List returns one page of disciplines ordered by name, with the total count
func (r *DisciplineRepository) List(ctx context.Context, page, size int) ([]*models.Discipline, int64, error) {
	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("disciplines"), "disciplines")
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sql, args, err := r.sb.Select("id", "name", "description", "created_at").
		From("disciplines").
		OrderBy("name").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list disciplines SQL")
		return nil, 0, fmt.Errorf("failed to build list disciplines query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list disciplines query")
		return nil, 0, fmt.Errorf("error listing disciplines: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Discipline, 0)
	for rows.Next() {
		d := &models.Discipline{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning discipline row: %w", err)
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

// Update changes name and description
func (r *DisciplineRepository) Update(ctx context.Context, d *models.Discipline) error {
	sql, args, err := r.sb.Update("disciplines").
		Set("name", d.Name).
		Set("description", d.Description).
		Where(squirrel.Eq{"id": d.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update discipline SQL")
		return fmt.Errorf("failed to build update discipline query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if translated := translateDisciplineError(err); translated != err {
			return translated
		}
		logger.Error().Err(err).Int64("disciplineID", d.ID).Msg("Error executing update discipline query")
		return fmt.Errorf("error updating discipline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDisciplineNotFound
	}
	return nil
}

// Delete removes a discipline; referenced disciplines yield ErrDisciplineInUse
func (r *DisciplineRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("disciplines").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete discipline query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDisciplineInUse
		}
		logger.Error().Err(err).Int64("disciplineID", id).Msg("Error executing delete discipline query")
		return fmt.Errorf("error deleting discipline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDisciplineNotFound
	}
	return nil
}
