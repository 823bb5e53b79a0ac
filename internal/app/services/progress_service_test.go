package services

import (
	"context"
	"testing"
	"time"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgressService(repo *fakeProgress) *progressServiceImpl {
	svc := NewProgressService(repo, newTestAuthz(), nopLogger).(*progressServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC) }
	return svc
}

func TestRecordProgressCreatesThenOverwrites(t *testing.T) {
	repo := newFakeProgress()
	svc := newTestProgressService(repo)
	good := models.PerformanceGood

	record, created, err := svc.Record(context.Background(), volunteerActor, &dto.RecordProgressRequest{
		StudentID:   7,
		RecordDate:  "2024-05-13",
		Attended:    boolp(true),
		Performance: &good,
		Notes:       strp("  "),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(20), record.VolunteerID)
	assert.Nil(t, record.Notes)

	again, created, err := svc.Record(context.Background(), volunteerActor, &dto.RecordProgressRequest{
		StudentID:  7,
		RecordDate: "2024-05-13",
		Attended:   boolp(false),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, record.ID, again.ID)
	assert.False(t, repo.byID[record.ID].Attended)
}

func TestRecordProgressRejections(t *testing.T) {
	tests := []struct {
		name    string
		actor   *authz.Actor
		req     dto.RecordProgressRequest
		wantErr error
	}{
		{
			name:    "volunteer outside the student's group",
			actor:   outsiderActor,
			req:     dto.RecordProgressRequest{StudentID: 7, RecordDate: "2024-05-13", Attended: boolp(true)},
			wantErr: apperrors.ErrPermissionDenied,
		},
		{
			name:    "tutor",
			actor:   tutorActor,
			req:     dto.RecordProgressRequest{StudentID: 7, RecordDate: "2024-05-13", Attended: boolp(true)},
			wantErr: apperrors.ErrPermissionDenied,
		},
		{
			name:    "future date",
			actor:   volunteerActor,
			req:     dto.RecordProgressRequest{StudentID: 7, RecordDate: "2024-05-21", Attended: boolp(true)},
			wantErr: apperrors.ErrBadRequest,
		},
		{
			name:    "malformed date",
			actor:   volunteerActor,
			req:     dto.RecordProgressRequest{StudentID: 7, RecordDate: "13/05/2024", Attended: boolp(true)},
			wantErr: apperrors.ErrBadRequest,
		},
		{
			name:    "attendance missing",
			actor:   volunteerActor,
			req:     dto.RecordProgressRequest{StudentID: 7, RecordDate: "2024-05-13"},
			wantErr: apperrors.ErrBadRequest,
		},
		{
			name:    "admin without volunteer",
			actor:   adminActor,
			req:     dto.RecordProgressRequest{StudentID: 7, RecordDate: "2024-05-13", Attended: boolp(true)},
			wantErr: apperrors.ErrBadRequest,
		},
		{
			name:    "admin naming a volunteer outside the student's group",
			actor:   adminActor,
			req:     dto.RecordProgressRequest{StudentID: 7, VolunteerID: int64p(21), RecordDate: "2024-05-13", Attended: boolp(true)},
			wantErr: apperrors.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeProgress()
			svc := newTestProgressService(repo)

			_, _, err := svc.Record(context.Background(), tt.actor, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.upserted)
		})
	}
}

func TestRecordProgressByAdminUsesGivenVolunteer(t *testing.T) {
	svc := newTestProgressService(newFakeProgress())

	record, created, err := svc.Record(context.Background(), adminActor, &dto.RecordProgressRequest{
		StudentID:   7,
		VolunteerID: int64p(20),
		RecordDate:  "2024-05-20",
		Attended:    boolp(true),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(20), record.VolunteerID)
}

func TestUpdateAndDeleteProgressOwnership(t *testing.T) {
	existing := &models.ProgressRecord{
		ID:          5,
		StudentID:   7,
		VolunteerID: 20,
		RecordDate:  time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC),
		Attended:    true,
	}
	repo := newFakeProgress(existing)
	svc := newTestProgressService(repo)

	_, err := svc.Update(context.Background(), outsiderActor, 5, &dto.UpdateProgressRequest{Attended: boolp(false)})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	updated, err := svc.Update(context.Background(), volunteerActor, 5, &dto.UpdateProgressRequest{
		Attended:   boolp(false),
		Activities: strp("Lectura"),
	})
	require.NoError(t, err)
	assert.False(t, updated.Attended)
	require.NotNil(t, updated.Activities)
	assert.Equal(t, "Lectura", *updated.Activities)

	assert.ErrorIs(t, svc.Delete(context.Background(), outsiderActor, 5), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.Delete(context.Background(), adminActor, 5))
	assert.Equal(t, []int64{5}, repo.deleted)

	assert.ErrorIs(t, svc.Delete(context.Background(), adminActor, 5), apperrors.ErrProgressNotFound)
}

func TestListProgressRejectsInvertedRange(t *testing.T) {
	svc := newTestProgressService(newFakeProgress())
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.List(context.Background(), dto.ProgressFilter{From: &from, To: &to, Page: 1, Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
