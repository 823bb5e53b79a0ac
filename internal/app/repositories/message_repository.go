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
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository handles database operations for direct messages
type MessageRepository struct {
	db  *pgxpool.Pool
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		db:  db,
		sb:  newStatementBuilder(),
		now: time.Now,
	}
}

// selectQuery joins both parties so listings can show names without another round trip
func (r *MessageRepository) selectQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"m.id", "m.sender_id", "m.recipient_id", "m.subject", "m.content", "m.is_read", "m.read_at", "m.created_at",
		"su.first_name", "su.last_name", "su.email", "su.role_type",
		"ru.first_name", "ru.last_name", "ru.email", "ru.role_type",
	).
		From("messages m").
		Join("users su ON su.id = m.sender_id").
		Join("users ru ON ru.id = m.recipient_id")
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	m := &models.Message{Sender: &models.User{}, Recipient: &models.User{}}
	err := row.Scan(
		&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Content, &m.IsRead, &m.ReadAt, &m.CreatedAt,
		&m.Sender.FirstName, &m.Sender.LastName, &m.Sender.Email, &m.Sender.RoleType,
		&m.Recipient.FirstName, &m.Recipient.LastName, &m.Recipient.Email, &m.Recipient.RoleType,
	)
	if err != nil {
		return nil, err
	}
	m.Sender.ID = m.SenderID
	m.Sender.IsActive = true
	m.Recipient.ID = m.RecipientID
	m.Recipient.IsActive = true
	return m, nil
}

// Create stores a message
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	sql, args, err := r.sb.Insert("messages").
		Columns("sender_id", "recipient_id", "subject", "content").
		Values(m.SenderID, m.RecipientID, m.Subject, m.Content).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create message SQL")
		return fmt.Errorf("failed to build create message query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.IsRead, &m.CreatedAt); err != nil {
		switch {
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrUserNotFound
		case dberrors.IsCheckViolation(err):
			return apperrors.NewBadRequestError("cannot send a message to yourself")
		}
		logger.Error().Err(err).Int64("senderID", m.SenderID).Msg("Error executing create message query")
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

// GetByID retrieves a message with both parties
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get message query: %w", err)
	}

	m, err := scanMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		logger.Error().Err(err).Int64("messageID", id).Msg("Error scanning message row")
		return nil, fmt.Errorf("error retrieving message: %w", err)
	}
	return m, nil
}

// Inbox lists messages received by userID, newest first
func (r *MessageRepository) Inbox(ctx context.Context, userID int64, page, size int) ([]*models.Message, int64, error) {
	return r.list(ctx, squirrel.Eq{"m.recipient_id": userID}, "created_at DESC", page, size)
}

// Sent lists messages sent by userID, newest first
func (r *MessageRepository) Sent(ctx context.Context, userID int64, page, size int) ([]*models.Message, int64, error) {
	return r.list(ctx, squirrel.Eq{"m.sender_id": userID}, "created_at DESC", page, size)
}

// Conversation lists the messages exchanged between two users in chronological order
func (r *MessageRepository) Conversation(ctx context.Context, userID, otherID int64, page, size int) ([]*models.Message, int64, error) {
	where := squirrel.Or{
		squirrel.Eq{"m.sender_id": userID, "m.recipient_id": otherID},
		squirrel.Eq{"m.sender_id": otherID, "m.recipient_id": userID},
	}
	return r.list(ctx, where, "created_at ASC", page, size)
}

func (r *MessageRepository) list(ctx context.Context, where squirrel.Sqlizer, order string, page, size int) ([]*models.Message, int64, error) {
	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("messages m").Where(where), "messages")
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sql, args, err := r.selectQuery().
		Where(where).
		OrderBy("m."+order, "m.id").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list messages SQL")
		return nil, 0, fmt.Errorf("failed to build list messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list messages query")
		return nil, 0, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning message row: %w", err)
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

// UnreadCount counts the unread messages of userID
func (r *MessageRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return countRows(ctx, r.db,
		r.sb.Select("COUNT(*)").From("messages").Where(squirrel.Eq{"recipient_id": userID, "is_read": false}),
		"unread messages")
}

// MarkRead flags a message as read. Only the recipient can do so: a message
// addressed to someone else is reported as not found.
func (r *MessageRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	sql, args, err := r.sb.Update("messages").
		Set("is_read", true).
		Set("read_at", squirrel.Expr("COALESCE(read_at, ?)", r.now())).
		Where(squirrel.Eq{"id": id, "recipient_id": recipientID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark message read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("messageID", id).Msg("Error executing mark message read query")
		return fmt.Errorf("error marking message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

// MarkAllRead flags every unread message of recipientID as read and returns how many changed
func (r *MessageRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	sql, args, err := r.sb.Update("messages").
		Set("is_read", true).
		Set("read_at", r.now()).
		Where(squirrel.Eq{"recipient_id": recipientID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark all read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", recipientID).Msg("Error executing mark all read query")
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}
