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

func newTestStudentService(students *fakeStudents) *studentServiceImpl {
	svc := NewStudentService(students, newFakeProgress(), newTestAuthz(), nopLogger).(*studentServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC) }
	return svc
}

func enrolledStudent() *models.Student {
	return &models.Student{ID: 7, FirstName: "Mateo", TutorID: 10, GroupID: int64p(3), DisciplineID: int64p(2)}
}

func TestStudentListScope(t *testing.T) {
	tests := []struct {
		name         string
		actor        *authz.Actor
		filter       dto.StudentListFilter
		wantTutor    *int64
		wantTaughtBy *int64
		wantGroup    *int64
	}{
		{
			name:      "admin keeps query filters",
			actor:     adminActor,
			filter:    dto.StudentListFilter{TutorID: int64p(10), GroupID: int64p(3), TaughtBy: int64p(20)},
			wantTutor: int64p(10),
			wantGroup: int64p(3),
		},
		{
			name:      "tutor only sees own students",
			actor:     tutorActor,
			filter:    dto.StudentListFilter{TutorID: int64p(99)},
			wantTutor: int64p(10),
		},
		{
			name:         "volunteer only sees students of own groups",
			actor:        volunteerActor,
			filter:       dto.StudentListFilter{GroupID: int64p(3), TaughtBy: int64p(21)},
			wantTaughtBy: int64p(20),
			wantGroup:    int64p(3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students := newFakeStudents()
			svc := newTestStudentService(students)

			_, err := svc.List(context.Background(), tt.actor, tt.filter)
			require.NoError(t, err)
			require.Len(t, students.listed, 1)
			got := students.listed[0]
			assert.Equal(t, tt.wantTutor, got.TutorID)
			assert.Equal(t, tt.wantTaughtBy, got.TaughtBy)
			assert.Equal(t, tt.wantGroup, got.GroupID)
		})
	}
}

func TestStudentListTrimsSearch(t *testing.T) {
	students := newFakeStudents()
	svc := newTestStudentService(students)

	_, err := svc.List(context.Background(), adminActor, dto.StudentListFilter{Search: "  pérez "})
	require.NoError(t, err)
	assert.Equal(t, "pérez", students.listed[0].Search)
}

func TestStudentGetByIDScope(t *testing.T) {
	svc := newTestStudentService(newFakeStudents(enrolledStudent()))

	for _, actor := range []*authz.Actor{adminActor, tutorActor, volunteerActor} {
		_, err := svc.GetByID(context.Background(), actor, 7)
		assert.NoError(t, err, "user %d", actor.UserID)
	}
	_, err := svc.GetByID(context.Background(), outsiderActor, 7)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAssignStudentGroup(t *testing.T) {
	t.Run("non-positive group id", func(t *testing.T) {
		students := newFakeStudents(enrolledStudent())
		svc := newTestStudentService(students)

		_, err := svc.AssignGroup(context.Background(), 7, int64p(0))
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		_, err = svc.AssignGroup(context.Background(), 7, int64p(-4))
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		assert.Empty(t, students.assigned)
	})

	t.Run("nil removes the student from its group", func(t *testing.T) {
		students := newFakeStudents(enrolledStudent())
		svc := newTestStudentService(students)

		st, err := svc.AssignGroup(context.Background(), 7, nil)
		require.NoError(t, err)
		assert.Nil(t, st.GroupID)
		require.Contains(t, students.assigned, int64(7))
		assert.Nil(t, students.assigned[7])
	})

	t.Run("moves to another group", func(t *testing.T) {
		students := newFakeStudents(enrolledStudent())
		svc := newTestStudentService(students)

		st, err := svc.AssignGroup(context.Background(), 7, int64p(4))
		require.NoError(t, err)
		assert.Equal(t, int64(4), *st.GroupID)
	})

	t.Run("unknown student", func(t *testing.T) {
		svc := newTestStudentService(newFakeStudents())

		_, err := svc.AssignGroup(context.Background(), 70, int64p(4))
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})
}

func TestUpdateStudentMedical(t *testing.T) {
	otherTutor := &authz.Actor{UserID: 101, Role: models.RoleTutor, TutorID: int64p(11)}
	medical := &models.MedicalRecord{Allergies: strp(" Penicilina "), Notes: strp("   ")}

	students := newFakeStudents(enrolledStudent())
	svc := newTestStudentService(students)

	_, err := svc.UpdateMedical(context.Background(), otherTutor, 7, medical)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = svc.UpdateMedical(context.Background(), volunteerActor, 7, medical)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, students.medical)

	st, err := svc.UpdateMedical(context.Background(), tutorActor, 7, medical)
	require.NoError(t, err)
	require.NotNil(t, st.Medical.Allergies)
	assert.Equal(t, "Penicilina", *st.Medical.Allergies)
	assert.Nil(t, st.Medical.Notes)
}

func TestCreateStudent(t *testing.T) {
	students := newFakeStudents()
	svc := newTestStudentService(students)

	req := &dto.CreateStudentRequest{
		FirstName: " Mateo ",
		LastName:  "Pérez",
		DNI:       "52123456",
		BirthDate: "2015-06-21",
		TutorID:   10,
	}
	st, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Mateo", st.FirstName)
	assert.Equal(t, time.Date(2015, 6, 21, 0, 0, 0, 0, time.UTC), st.BirthDate)

	future := *req
	future.BirthDate = "2024-05-21"
	_, err = svc.Create(context.Background(), &future)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	badDNI := *req
	badDNI.DNI = "12"
	_, err = svc.Create(context.Background(), &badDNI)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	assert.Len(t, students.created, 1)
}
