package services

import (
	"context"
	"errors"
	"strings"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// MessageService defines the interface for direct messaging
type MessageService interface {
	Send(ctx context.Context, actor *authz.Actor, req *dto.SendMessageRequest) (*models.Message, error)
	Inbox(ctx context.Context, actor *authz.Actor, page, size int) (*dto.PaginatedResponse, error)
	Sent(ctx context.Context, actor *authz.Actor, page, size int) (*dto.PaginatedResponse, error)
	Conversation(ctx context.Context, actor *authz.Actor, otherUserID int64, page, size int) (*dto.PaginatedResponse, error)
	UnreadCount(ctx context.Context, actor *authz.Actor) (int64, error)
	MarkRead(ctx context.Context, actor *authz.Actor, id int64) error
	MarkAllRead(ctx context.Context, actor *authz.Actor) (int64, error)
	Contacts(ctx context.Context, actor *authz.Actor) ([]dto.ContactResponse, error)
}

type messageServiceImpl struct {
	messageRepo messageStore
	userRepo    userStore
	authz       *authz.AuthorizationService
	logger      zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messageRepo messageStore,
	userRepo userStore,
	authorization *authz.AuthorizationService,
	logger zerolog.Logger,
) MessageService {
	return &messageServiceImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		authz:       authorization,
		logger:      logger,
	}
}

// Send delivers a message to an allowed, active recipient
func (s *messageServiceImpl) Send(ctx context.Context, actor *authz.Actor, req *dto.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewBadRequestError("content is required")
	}

	recipient, err := s.userRepo.GetByID(ctx, req.RecipientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("recipient not found")
		}
		return nil, err
	}
	if !recipient.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrRecipientNotAllowed, "recipient account is disabled")
	}
	if err := s.authz.ValidateMessaging(ctx, actor, recipient); err != nil {
		return nil, err
	}

	m := &models.Message{
		SenderID:    actor.UserID,
		RecipientID: recipient.ID,
		Subject:     helpers.NullIfEmpty(req.Subject),
		Content:     content,
	}
	if err := s.messageRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	m.Recipient = recipient

	s.logger.Info().Int64("messageID", m.ID).Int64("senderID", m.SenderID).Int64("recipientID", m.RecipientID).Msg("Message sent")
	return m, nil
}

// Inbox lists the messages received by the actor
func (s *messageServiceImpl) Inbox(ctx context.Context, actor *authz.Actor, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.messageRepo.Inbox(ctx, actor.UserID, page, size)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, size), nil
}

// Sent lists the messages sent by the actor
func (s *messageServiceImpl) Sent(ctx context.Context, actor *authz.Actor, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.messageRepo.Sent(ctx, actor.UserID, page, size)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, size), nil
}

// Conversation lists the messages exchanged between the actor and another account
func (s *messageServiceImpl) Conversation(ctx context.Context, actor *authz.Actor, otherUserID int64, page, size int) (*dto.PaginatedResponse, error) {
	if otherUserID == actor.UserID {
		return nil, apperrors.NewBadRequestError("cannot open a conversation with yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, otherUserID); err != nil {
		return nil, err
	}
	items, total, err := s.messageRepo.Conversation(ctx, actor.UserID, otherUserID, page, size)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, size), nil
}

// UnreadCount counts the actor's unread messages
func (s *messageServiceImpl) UnreadCount(ctx context.Context, actor *authz.Actor) (int64, error) {
	return s.messageRepo.UnreadCount(ctx, actor.UserID)
}

// MarkRead marks one received message as read
func (s *messageServiceImpl) MarkRead(ctx context.Context, actor *authz.Actor, id int64) error {
	return s.messageRepo.MarkRead(ctx, id, actor.UserID)
}

// MarkAllRead marks every received message as read
func (s *messageServiceImpl) MarkAllRead(ctx context.Context, actor *authz.Actor) (int64, error) {
	n, err := s.messageRepo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	s.logger.Debug().Int64("userID", actor.UserID).Int64("marked", n).Msg("Messages marked read")
	return n, nil
}

// Contacts lists the accounts the actor may message. Admins may message every active account.
func (s *messageServiceImpl) Contacts(ctx context.Context, actor *authz.Actor) ([]dto.ContactResponse, error) {
	var users []*models.User
	if actor.IsAdmin() {
		var err error
		users, err = s.userRepo.ListActiveExcept(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
	} else {
		ids, err := s.authz.ContactUserIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		users, err = s.userRepo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	contacts := make([]dto.ContactResponse, 0, len(users))
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		contacts = append(contacts, dto.ContactResponse{
			UserID:   u.ID,
			FullName: u.FullName(),
			Email:    u.Email,
			RoleType: u.RoleType,
		})
	}
	return contacts, nil
}
