package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/dberrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var progressColumns = []string{
	"id", "student_id", "volunteer_id", "record_date", "attended", "performance", "activities", "notes", "created_at", "updated_at",
}

func scanProgress(row pgx.Row) (*models.ProgressRecord, error) {
	p := &models.ProgressRecord{}
	err := row.Scan(&p.ID, &p.StudentID, &p.VolunteerID, &p.RecordDate, &p.Attended, &p.Performance,
		&p.Activities, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ProgressRepository handles database operations for progress records
type ProgressRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// Upsert stores the record for (student, date), replacing an existing one.
// It reports whether a new row was inserted.
func (r *ProgressRepository) Upsert(ctx context.Context, p *models.ProgressRecord) (bool, error) {
	sql, args, err := r.sb.Insert("progress_records").
		Columns("student_id", "volunteer_id", "record_date", "attended", "performance", "activities", "notes").
		Values(p.StudentID, p.VolunteerID, p.RecordDate, p.Attended, p.Performance, p.Activities, p.Notes).
		Suffix(`ON CONFLICT (student_id, record_date) DO UPDATE SET
			volunteer_id = EXCLUDED.volunteer_id,
			attended = EXCLUDED.attended,
			performance = EXCLUDED.performance,
			activities = EXCLUDED.activities,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert progress SQL")
		return false, fmt.Errorf("failed to build upsert progress query: %w", err)
	}

	var inserted bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &inserted); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			if dberrors.ConstraintName(err) == "progress_records_volunteer_id_fkey" {
				return false, apperrors.ErrVolunteerNotFound
			}
			return false, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", p.StudentID).Msg("Error executing upsert progress query")
		return false, fmt.Errorf("error recording progress: %w", err)
	}
	return inserted, nil
}

// GetByID retrieves a progress record by ID
func (r *ProgressRepository) GetByID(ctx context.Context, id int64) (*models.ProgressRecord, error) {
	sql, args, err := r.sb.Select(progressColumns...).From("progress_records").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get progress query: %w", err)
	}

	p, err := scanProgress(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgressNotFound
		}
		logger.Error().Err(err).Int64("progressID", id).Msg("Error scanning progress row")
		return nil, fmt.Errorf("error retrieving progress: %w", err)
	}
	return p, nil
}

// Update edits the mutable fields of a record
func (r *ProgressRepository) Update(ctx context.Context, p *models.ProgressRecord) error {
	sql, args, err := r.sb.Update("progress_records").
		Set("attended", p.Attended).
		Set("performance", p.Performance).
		Set("activities", p.Activities).
		Set("notes", p.Notes).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update progress query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrProgressNotFound
		}
		logger.Error().Err(err).Int64("progressID", p.ID).Msg("Error executing update progress query")
		return fmt.Errorf("error updating progress: %w", err)
	}
	return nil
}

// Delete removes a progress record
func (r *ProgressRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("progress_records").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete progress query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("progressID", id).Msg("Error executing delete progress query")
		return fmt.Errorf("error deleting progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProgressNotFound
	}
	return nil
}

// List returns one page of records, newest date first
func (r *ProgressRepository) List(ctx context.Context, filter dto.ProgressFilter) ([]*models.ProgressRecord, int64, error) {
	where := squirrel.And{}
	if filter.StudentID != nil {
		where = append(where, squirrel.Eq{"student_id": *filter.StudentID})
	}
	if filter.VolunteerID != nil {
		where = append(where, squirrel.Eq{"volunteer_id": *filter.VolunteerID})
	}
	if filter.From != nil {
		where = append(where, squirrel.GtOrEq{"record_date": *filter.From})
	}
	if filter.To != nil {
		where = append(where, squirrel.LtOrEq{"record_date": *filter.To})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("progress_records").Where(where), "progress records")
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := r.sb.Select(progressColumns...).
		From("progress_records").
		Where(where).
		OrderBy("record_date DESC", "id DESC").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list progress SQL")
		return nil, 0, fmt.Errorf("failed to build list progress query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list progress query")
		return nil, 0, fmt.Errorf("error listing progress: %w", err)
	}
	defer rows.Close()

	items := make([]*models.ProgressRecord, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning progress row: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
