package controllers

import (
	"net/http"

	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/services"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MessageController handles direct messages between accounts
type MessageController struct {
	messageService services.MessageService
	logger         zerolog.Logger
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService, logger zerolog.Logger) *MessageController {
	return &MessageController{
		messageService: messageService,
		logger:         logger,
	}
}

// SendMessage sends a message to an allowed contact
// @Summary Send a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=models.Message}
// @Failure 403 {object} dto.ErrorResponse "Recipient is not an allowed contact"
// @Failure 404 {object} dto.ErrorResponse "Recipient not found"
// @Router /messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.messageService.Send(ctx.Request.Context(), actor, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("senderID", actor.UserID).Int64("recipientID", req.RecipientID).Msg("Message rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, message, "Message sent")
}

// GetInbox lists received messages, newest first
// @Summary Inbox
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Message}}
// @Router /messages/inbox [get]
func (c *MessageController) GetInbox(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.messageService.Inbox(ctx.Request.Context(), actor, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}

// GetSent lists sent messages, newest first
// @Summary Sent messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Message}}
// @Router /messages/sent [get]
func (c *MessageController) GetSent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.messageService.Sent(ctx.Request.Context(), actor, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}

// GetConversation lists the messages exchanged with another account, oldest first
// @Summary Conversation
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Other account ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Message}}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /messages/conversation/{userId} [get]
func (c *MessageController) GetConversation(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	otherID, ok := middleware.ParseIDParam(ctx, "userId")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.messageService.Conversation(ctx.Request.Context(), actor, otherID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}

// GetUnreadCount counts unread received messages
// @Summary Unread message count
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /messages/unread-count [get]
func (c *MessageController) GetUnreadCount(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	count, err := c.messageService.UnreadCount(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.CountResponse{Count: count}, "")
}

// MarkMessageRead marks a received message as read
// @Summary Mark message read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Message not found or not addressed to the caller"
// @Router /messages/{id}/read [patch]
func (c *MessageController) MarkMessageRead(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.messageService.MarkRead(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, nil, "Message marked as read")
}

// MarkAllRead marks every received message as read
// @Summary Mark all messages read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse} "Number of messages marked"
// @Router /messages/read-all [post]
func (c *MessageController) MarkAllRead(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	count, err := c.messageService.MarkAllRead(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.CountResponse{Count: count}, "Messages marked as read")
}

// GetContacts lists the accounts the caller may message
// @Summary Message contacts
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ContactResponse}
// @Router /messages/contacts [get]
func (c *MessageController) GetContacts(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	contacts, err := c.messageService.Contacts(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, contacts, "")
}
