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

func newFakeAnnouncements() *fakeAnnouncements {
	return &fakeAnnouncements{byID: map[int64]*models.Announcement{}, reads: map[int64][]int64{}}
}

func TestCreateAnnouncement(t *testing.T) {
	repo := newFakeAnnouncements()
	svc := NewAnnouncementService(repo, nopLogger)

	a, err := svc.Create(context.Background(), adminActor, &dto.CreateAnnouncementRequest{
		Title:    "  Cierre por feriado ",
		Content:  "El centro permanecerá cerrado el lunes.",
		Audience: "volunteers",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AudienceVolunteers, a.Audience)
	assert.Equal(t, "Cierre por feriado", a.Title)
	assert.Equal(t, int64(1), a.AuthorID)

	_, err = svc.Create(context.Background(), adminActor, &dto.CreateAnnouncementRequest{
		Title: "x", Content: "y", Audience: "PARENTS",
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.Create(context.Background(), adminActor, &dto.CreateAnnouncementRequest{
		Title: "  ", Content: "y", Audience: models.AudienceAll,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestAudiencesFor(t *testing.T) {
	assert.Equal(t, []models.Audience{models.AudienceAll, models.AudienceVolunteers}, audiencesFor(models.RoleVolunteer))
	assert.Equal(t, []models.Audience{models.AudienceAll, models.AudienceTutors}, audiencesFor(models.RoleTutor))
	assert.Nil(t, audiencesFor(models.RoleAdmin))
}

func TestMarkAnnouncementRead(t *testing.T) {
	repo := newFakeAnnouncements()
	repo.byID[1] = &models.Announcement{ID: 1, Audience: models.AudienceTutors}
	repo.byID[2] = &models.Announcement{ID: 2, Audience: models.AudienceAll}
	svc := NewAnnouncementService(repo, nopLogger)

	assert.ErrorIs(t, svc.MarkRead(context.Background(), volunteerActor, 1), apperrors.ErrAnnouncementNotFound)
	assert.ErrorIs(t, svc.MarkRead(context.Background(), volunteerActor, 99), apperrors.ErrAnnouncementNotFound)

	require.NoError(t, svc.MarkRead(context.Background(), tutorActor, 1))
	require.NoError(t, svc.MarkRead(context.Background(), volunteerActor, 2))
	require.NoError(t, svc.MarkRead(context.Background(), adminActor, 1))

	assert.Equal(t, []int64{100, 1}, repo.reads[1])
	assert.Equal(t, []int64{200}, repo.reads[2])
}
