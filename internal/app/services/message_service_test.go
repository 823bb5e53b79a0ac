package services

import (
	"context"
	"testing"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messagingUsers() *fakeUsers {
	return newFakeUsers(
		&models.User{ID: 1, FirstName: "Admin", LastName: "Uno", Email: "admin@empatecerca.org", RoleType: models.RoleAdmin, IsActive: true},
		&models.User{ID: 100, FirstName: "Marta", LastName: "Ruiz", Email: "marta@example.com", RoleType: models.RoleTutor, IsActive: true},
		&models.User{ID: 200, FirstName: "Luis", LastName: "Pérez", Email: "luis@example.com", RoleType: models.RoleVolunteer, IsActive: true},
		&models.User{ID: 201, FirstName: "Sara", LastName: "Gil", Email: "sara@example.com", RoleType: models.RoleVolunteer, IsActive: true},
		&models.User{ID: 300, FirstName: "Old", LastName: "Account", Email: "old@example.com", RoleType: models.RoleVolunteer, IsActive: false},
	)
}

func TestSendMessage(t *testing.T) {
	messages := &fakeMessages{}
	svc := NewMessageService(messages, messagingUsers(), newTestAuthz(), nopLogger)

	m, err := svc.Send(context.Background(), tutorActor, &dto.SendMessageRequest{
		RecipientID: 200,
		Subject:     strp(" Horario "),
		Content:     "  Hola, ¿la clase del lunes sigue en pie?  ",
	})
	require.NoError(t, err)
	require.Len(t, messages.created, 1)
	assert.Equal(t, int64(100), m.SenderID)
	assert.Equal(t, int64(200), m.RecipientID)
	assert.Equal(t, "Hola, ¿la clase del lunes sigue en pie?", m.Content)
	require.NotNil(t, m.Subject)
	assert.Equal(t, "Horario", *m.Subject)
	require.NotNil(t, m.Recipient)
	assert.Equal(t, "luis@example.com", m.Recipient.Email)
}

func TestSendMessageRejections(t *testing.T) {
	tests := []struct {
		name        string
		recipientID int64
		content     string
		wantErr     error
	}{
		{"blank content", 200, "   ", apperrors.ErrBadRequest},
		{"unknown recipient", 999, "hola", apperrors.ErrResourceNotFound},
		{"disabled recipient", 300, "hola", apperrors.ErrRecipientNotAllowed},
		{"unrelated volunteer", 201, "hola", apperrors.ErrPermissionDenied},
		{"self", 100, "hola", apperrors.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := &fakeMessages{}
			svc := NewMessageService(messages, messagingUsers(), newTestAuthz(), nopLogger)

			_, err := svc.Send(context.Background(), tutorActor, &dto.SendMessageRequest{
				RecipientID: tt.recipientID,
				Content:     tt.content,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, messages.created)
		})
	}
}

func TestAnyoneCanMessageAnAdmin(t *testing.T) {
	svc := NewMessageService(&fakeMessages{}, messagingUsers(), newTestAuthz(), nopLogger)

	_, err := svc.Send(context.Background(), outsiderActor, &dto.SendMessageRequest{RecipientID: 1, Content: "Consulta"})
	assert.NoError(t, err)
}

func TestContacts(t *testing.T) {
	svc := NewMessageService(&fakeMessages{}, messagingUsers(), newTestAuthz(), nopLogger)

	contacts, err := svc.Contacts(context.Background(), tutorActor)
	require.NoError(t, err)
	ids := make([]int64, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.UserID)
	}
	assert.ElementsMatch(t, []int64{1, 200}, ids)

	contacts, err = svc.Contacts(context.Background(), outsiderActor)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, models.RoleAdmin, contacts[0].RoleType)
	assert.Equal(t, "Admin Uno", contacts[0].FullName)

	contacts, err = svc.Contacts(context.Background(), adminActor)
	require.NoError(t, err)
	assert.Len(t, contacts, 3, "every active account except the caller")
}

func TestConversationWithYourself(t *testing.T) {
	svc := NewMessageService(&fakeMessages{}, messagingUsers(), newTestAuthz(), nopLogger)

	_, err := svc.Conversation(context.Background(), tutorActor, 100, 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.Conversation(context.Background(), tutorActor, 999, 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
