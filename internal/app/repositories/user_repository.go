package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/dberrors"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var userColumns = []string{
	"u.id", "u.email", "u.dni", "u.password", "u.first_name", "u.last_name", "u.phone",
	"u.role_type", "u.is_active", "u.last_login_at", "u.created_at", "u.updated_at",
}

// userDest returns the scan destinations matching userColumns
func userDest(u *models.User) []interface{} {
	return []interface{}{
		&u.ID, &u.Email, &u.DNI, &u.Password, &u.FirstName, &u.LastName, &u.Phone,
		&u.RoleType, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	}
}

// translateUserError maps unique violations on users to domain errors
func translateUserError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "users_email_key"):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, "users_dni_key"):
		return apperrors.ErrDNIAlreadyExists
	}
	return err
}

// insertUser creates the account row and fills user.ID and timestamps
func insertUser(ctx context.Context, q querier, sb squirrel.StatementBuilderType, user *models.User) error {
	sql, args, err := sb.Insert("users").
		Columns("email", "dni", "password", "first_name", "last_name", "phone", "role_type", "is_active").
		Values(user.Email, user.DNI, user.Password, user.FirstName, user.LastName, user.Phone, string(user.RoleType), user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if translated := translateUserError(err); translated != err {
			return translated
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// updateUser writes the editable account fields
func updateUser(ctx context.Context, q querier, sb squirrel.StatementBuilderType, user *models.User) error {
	sql, args, err := sb.Update("users").
		Set("email", user.Email).
		Set("dni", user.DNI).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("phone", user.Phone).
		Set("is_active", user.IsActive).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update user SQL")
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		if translated := translateUserError(err); translated != err {
			return translated
		}
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error executing update user query")
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UserRepository handles account database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// Create creates a standalone account (admins; volunteers and tutors are created with their profile)
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return insertUser(ctx, r.db, r.sb, user)
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users u").Where(where).Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user := &models.User{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(userDest(user)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(u.email) = LOWER(?)", email))
}

// GetByDNI retrieves a user by national identity number
func (r *UserRepository) GetByDNI(ctx context.Context, dni string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.dni": dni})
}

// ListByIDs returns the active accounts among ids, ordered by name
func (r *UserRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	return r.list(ctx, r.sb.Select(userColumns...).From("users u").
		Where(squirrel.Eq{"u.id": ids, "u.is_active": true}))
}

// ListActiveExcept returns every active account except the given one
func (r *UserRepository) ListActiveExcept(ctx context.Context, userID int64) ([]*models.User, error) {
	return r.list(ctx, r.sb.Select(userColumns...).From("users u").
		Where(squirrel.Eq{"u.is_active": true}).
		Where(squirrel.NotEq{"u.id": userID}))
}

func (r *UserRepository) list(ctx context.Context, sel squirrel.SelectBuilder) ([]*models.User, error) {
	sql, args, err := sel.OrderBy("u.last_name", "u.first_name").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list users SQL")
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list users query")
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(userDest(u)...); err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating last login time")
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	sql, args, err := r.sb.Update("users").
		Set("password", passwordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating password")
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}
