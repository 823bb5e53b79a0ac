package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/dberrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RatingRepository handles database operations for volunteer ratings
type RatingRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// Create stores a rating
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	sql, args, err := r.sb.Insert("ratings").
		Columns("tutor_id", "volunteer_id", "score", "feedback").
		Values(rating.TutorID, rating.VolunteerID, rating.Score, rating.Feedback).
		Suffix("RETURNING id, rated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create rating SQL")
		return fmt.Errorf("failed to build create rating query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&rating.ID, &rating.RatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrVolunteerNotFound
		}
		logger.Error().Err(err).Int64("volunteerID", rating.VolunteerID).Msg("Error executing create rating query")
		return fmt.Errorf("error creating rating: %w", err)
	}
	return nil
}

// List returns one page of ratings, newest first, optionally for one volunteer
func (r *RatingRepository) List(ctx context.Context, volunteerID *int64, page, size int) ([]*models.Rating, int64, error) {
	where := squirrel.And{}
	if volunteerID != nil {
		where = append(where, squirrel.Eq{"volunteer_id": *volunteerID})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("ratings").Where(where), "ratings")
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sql, args, err := r.sb.Select("id", "tutor_id", "volunteer_id", "score", "feedback", "rated_at").
		From("ratings").
		Where(where).
		OrderBy("rated_at DESC", "id DESC").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list ratings SQL")
		return nil, 0, fmt.Errorf("failed to build list ratings query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list ratings query")
		return nil, 0, fmt.Errorf("error listing ratings: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Rating, 0)
	for rows.Next() {
		rt := &models.Rating{}
		if err := rows.Scan(&rt.ID, &rt.TutorID, &rt.VolunteerID, &rt.Score, &rt.Feedback, &rt.RatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning rating row: %w", err)
		}
		items = append(items, rt)
	}
	return items, total, rows.Err()
}

// Summary returns the count and average score of a volunteer's ratings
func (r *RatingRepository) Summary(ctx context.Context, volunteerID int64) (*models.RatingSummary, error) {
	sql, args, err := r.sb.Select("COUNT(*)", "COALESCE(AVG(score), 0)::float8").
		From("ratings").
		Where(squirrel.Eq{"volunteer_id": volunteerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rating summary query: %w", err)
	}

	summary := &models.RatingSummary{VolunteerID: volunteerID}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&summary.Count, &summary.Average); err != nil {
		logger.Error().Err(err).Int64("volunteerID", volunteerID).Msg("Error executing rating summary query")
		return nil, fmt.Errorf("error summarising ratings: %w", err)
	}
	return summary, nil
}
