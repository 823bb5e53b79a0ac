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

// AnnouncementRepository handles database operations for announcements and their read state
type AnnouncementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// Create stores an announcement
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	sql, args, err := r.sb.Insert("announcements").
		Columns("author_id", "title", "content", "audience").
		Values(a.AuthorID, a.Title, a.Content, string(a.Audience)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create announcement SQL")
		return fmt.Errorf("failed to build create announcement query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("authorID", a.AuthorID).Msg("Error executing create announcement query")
		return fmt.Errorf("error creating announcement: %w", err)
	}
	return nil
}

// GetByID retrieves an announcement without read state
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	sql, args, err := r.sb.Select("id", "author_id", "title", "content", "audience", "created_at").
		From("announcements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get announcement query: %w", err)
	}

	a := &models.Announcement{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.AuthorID, &a.Title, &a.Content, &a.Audience, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAnnouncementNotFound
		}
		logger.Error().Err(err).Int64("announcementID", id).Msg("Error scanning announcement row")
		return nil, fmt.Errorf("error retrieving announcement: %w", err)
	}
	return a, nil
}

// Delete removes an announcement and its read marks
func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("announcements").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete announcement query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("announcementID", id).Msg("Error executing delete announcement query")
		return fmt.Errorf("error deleting announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAnnouncementNotFound
	}
	return nil
}

// List returns one page of announcements for the given audiences, newest first,
// with the read flag of userID. A nil audiences slice lists every announcement.
func (r *AnnouncementRepository) List(ctx context.Context, audiences []models.Audience, userID int64, page, size int) ([]*models.Announcement, int64, error) {
	where := squirrel.And{}
	if audiences != nil {
		values := make([]string, len(audiences))
		for i, a := range audiences {
			values[i] = string(a)
		}
		where = append(where, squirrel.Eq{"a.audience": values})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("announcements a").Where(where), "announcements")
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sql, args, err := r.sb.Select("a.id", "a.author_id", "a.title", "a.content", "a.audience", "a.created_at", "ar.user_id IS NOT NULL").
		From("announcements a").
		LeftJoin("announcement_reads ar ON ar.announcement_id = a.id AND ar.user_id = ?", userID).
		Where(where).
		OrderBy("a.created_at DESC", "a.id DESC").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list announcements SQL")
		return nil, 0, fmt.Errorf("failed to build list announcements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list announcements query")
		return nil, 0, fmt.Errorf("error listing announcements: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Announcement, 0)
	for rows.Next() {
		a := &models.Announcement{}
		if err := rows.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Content, &a.Audience, &a.CreatedAt, &a.IsRead); err != nil {
			return nil, 0, fmt.Errorf("error scanning announcement row: %w", err)
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

// MarkRead records that userID has read the announcement; repeated calls are no-ops
func (r *AnnouncementRepository) MarkRead(ctx context.Context, announcementID, userID int64) error {
	sql, args, err := r.sb.Insert("announcement_reads").
		Columns("announcement_id", "user_id").
		Values(announcementID, userID).
		Suffix("ON CONFLICT (announcement_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark announcement read query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrAnnouncementNotFound
		}
		logger.Error().Err(err).Int64("announcementID", announcementID).Int64("userID", userID).Msg("Error marking announcement read")
		return fmt.Errorf("error marking announcement read: %w", err)
	}
	return nil
}
