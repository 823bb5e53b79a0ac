package repositories

import (
	"context"
	"errors"
	"fmt"

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

// TutorRepository handles database operations for tutors
type TutorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTutorRepository creates a new TutorRepository
func NewTutorRepository(db *pgxpool.Pool) *TutorRepository {
	return &TutorRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func (r *TutorRepository) selectQuery() squirrel.SelectBuilder {
	cols := append([]string{
		"t.id", "t.user_id", "t.address", "t.relationship", "t.created_at",
		"(SELECT COUNT(*) FROM students s WHERE s.tutor_id = t.id) AS student_count",
	}, userColumns...)
	return r.sb.Select(cols...).
		From("tutors t").
		Join("users u ON u.id = t.user_id")
}

func scanTutor(row pgx.Row) (*models.Tutor, error) {
	t := &models.Tutor{User: &models.User{}}
	dest := append([]interface{}{
		&t.ID, &t.UserID, &t.Address, &t.Relationship, &t.CreatedAt, &t.StudentCount,
	}, userDest(t.User)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts the account and the tutor profile in one transaction
func (r *TutorRepository) Create(ctx context.Context, user *models.User, t *models.Tutor) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertUser(ctx, tx, r.sb, user); err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("tutors").
			Columns("user_id", "address", "relationship").
			Values(user.ID, t.Address, t.Relationship).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create tutor SQL")
			return fmt.Errorf("failed to build create tutor query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
			logger.Error().Err(err).Int64("userID", user.ID).Msg("Error executing create tutor query")
			return fmt.Errorf("error creating tutor: %w", err)
		}

		t.UserID = user.ID
		t.User = user
		return nil
	})
}

// GetByID retrieves a tutor with its account
func (r *TutorRepository) GetByID(ctx context.Context, id int64) (*models.Tutor, error) {
	return r.getOne(ctx, squirrel.Eq{"t.id": id})
}

// GetByUserID retrieves the tutor profile of an account
func (r *TutorRepository) GetByUserID(ctx context.Context, userID int64) (*models.Tutor, error) {
	return r.getOne(ctx, squirrel.Eq{"t.user_id": userID})
}

func (r *TutorRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Tutor, error) {
	sql, args, err := r.selectQuery().Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get tutor SQL")
		return nil, fmt.Errorf("failed to build get tutor query: %w", err)
	}

	t, err := scanTutor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTutorNotFound
		}
		logger.Error().Err(err).Msg("Error scanning tutor row")
		return nil, fmt.Errorf("error retrieving tutor: %w", err)
	}
	return t, nil
}

// List returns one page of tutors, optionally filtered by a search term
func (r *TutorRepository) List(ctx context.Context, search string, page, size int) ([]*models.Tutor, int64, error) {
	where := squirrel.And{}
	if search != "" {
		pattern := helpers.LikePattern(search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
			squirrel.ILike{"u.email": pattern},
			squirrel.ILike{"u.dni": pattern},
		})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").
		From("tutors t").
		Join("users u ON u.id = t.user_id").
		Where(where), "tutors")
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sql, args, err := r.selectQuery().
		Where(where).
		OrderBy("u.last_name", "u.first_name", "t.id").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list tutors SQL")
		return nil, 0, fmt.Errorf("failed to build list tutors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list tutors query")
		return nil, 0, fmt.Errorf("error listing tutors: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Tutor, 0)
	for rows.Next() {
		t, err := scanTutor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning tutor row: %w", err)
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

// Update writes account and profile fields in one transaction
func (r *TutorRepository) Update(ctx context.Context, t *models.Tutor) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := updateUser(ctx, tx, r.sb, t.User); err != nil {
			return err
		}

		sql, args, err := r.sb.Update("tutors").
			Set("address", t.Address).
			Set("relationship", t.Relationship).
			Where(squirrel.Eq{"id": t.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update tutor query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("tutorID", t.ID).Msg("Error executing update tutor query")
			return fmt.Errorf("error updating tutor: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrTutorNotFound
		}
		return nil
	})
}

// Delete removes the tutor and its account. Tutors with students yield ErrTutorHasStudents.
func (r *TutorRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("users").
		Where("id = (SELECT user_id FROM tutors WHERE id = ?)", id).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete tutor query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTutorHasStudents
		}
		logger.Error().Err(err).Int64("tutorID", id).Msg("Error executing delete tutor query")
		return fmt.Errorf("error deleting tutor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTutorNotFound
	}
	return nil
}
