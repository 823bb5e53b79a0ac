package services

import (
	"context"
	"testing"

	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRating(t *testing.T) {
	repo := &fakeRatings{}
	svc := NewRatingService(repo, newTestAuthz(), nopLogger)

	rating, err := svc.Create(context.Background(), tutorActor, &dto.CreateRatingRequest{
		VolunteerID: 20,
		Score:       5,
		Feedback:    strp("Muy paciente con los chicos"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), rating.TutorID)
	assert.Equal(t, 5, rating.Score)
	require.Len(t, repo.created, 1)
}

func TestCreateRatingRejections(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateRatingRequest
		wantErr error
	}{
		{"score too low", dto.CreateRatingRequest{VolunteerID: 20, Score: 0}, apperrors.ErrBadRequest},
		{"score too high", dto.CreateRatingRequest{VolunteerID: 20, Score: 6}, apperrors.ErrBadRequest},
		{"volunteer does not teach the tutor's students", dto.CreateRatingRequest{VolunteerID: 21, Score: 4}, apperrors.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRatings{}
			svc := NewRatingService(repo, newTestAuthz(), nopLogger)

			_, err := svc.Create(context.Background(), tutorActor, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.created)
		})
	}
}

func TestOnlyTutorsRate(t *testing.T) {
	svc := NewRatingService(&fakeRatings{}, newTestAuthz(), nopLogger)

	_, err := svc.Create(context.Background(), adminActor, &dto.CreateRatingRequest{VolunteerID: 20, Score: 3})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
