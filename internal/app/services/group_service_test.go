package services

import (
	"context"
	"testing"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroupService(groups *fakeGroups, volunteers *fakeVolunteers, students *fakeStudents) GroupService {
	return NewGroupService(groups, volunteers, students, newTestAuthz(), nopLogger)
}

func TestReplaceGroupVolunteers(t *testing.T) {
	volunteers := newFakeVolunteers(&models.Volunteer{ID: 20}, &models.Volunteer{ID: 21})

	t.Run("unknown ids leave the group untouched", func(t *testing.T) {
		groups := newFakeGroups(3)
		groups.volunteers[3] = []int64{20}
		svc := newTestGroupService(groups, volunteers, newFakeStudents())

		_, err := svc.ReplaceVolunteers(context.Background(), 3, []int64{20, 99, 98})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		assert.EqualError(t, err, "volunteers not found: 99, 98")
		assert.Equal(t, []int64{20}, groups.volunteers[3])
	})

	t.Run("non-positive ids", func(t *testing.T) {
		groups := newFakeGroups(3)
		svc := newTestGroupService(groups, volunteers, newFakeStudents())

		_, err := svc.ReplaceVolunteers(context.Background(), 3, []int64{20, 0})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		assert.NotContains(t, groups.volunteers, int64(3))
	})

	t.Run("duplicates are dropped in first-seen order", func(t *testing.T) {
		groups := newFakeGroups(3)
		svc := newTestGroupService(groups, volunteers, newFakeStudents())

		ids, err := svc.ReplaceVolunteers(context.Background(), 3, []int64{21, 20, 21})
		require.NoError(t, err)
		assert.Equal(t, []int64{21, 20}, ids)
		assert.Equal(t, []int64{21, 20}, groups.volunteers[3])
	})

	t.Run("empty list clears", func(t *testing.T) {
		groups := newFakeGroups(3)
		groups.volunteers[3] = []int64{20, 21}
		svc := newTestGroupService(groups, volunteers, newFakeStudents())

		ids, err := svc.ReplaceVolunteers(context.Background(), 3, nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.NotNil(t, groups.volunteers[3])
		assert.Empty(t, groups.volunteers[3])
	})

	t.Run("unknown group", func(t *testing.T) {
		svc := newTestGroupService(newFakeGroups(), volunteers, newFakeStudents())

		_, err := svc.ReplaceVolunteers(context.Background(), 8, []int64{20})
		assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
	})
}

func TestReplaceGroupSchedule(t *testing.T) {
	t.Run("normalizes before replacing", func(t *testing.T) {
		groups := newFakeGroups(3)
		svc := newTestGroupService(groups, newFakeVolunteers(), newFakeStudents())

		slots, err := svc.ReplaceSchedule(context.Background(), 3, []models.TimeSlot{
			{Day: "friday", TimeFrom: "10:00", TimeTo: "11:00"},
			{Day: "MONDAY", TimeFrom: "09:00", TimeTo: "10:00"},
			{Day: " monday ", TimeFrom: "09:00", TimeTo: "10:00"},
		})
		require.NoError(t, err)

		want := []models.TimeSlot{
			{Day: models.Monday, TimeFrom: "09:00", TimeTo: "10:00"},
			{Day: models.Friday, TimeFrom: "10:00", TimeTo: "11:00"},
		}
		assert.Equal(t, want, slots)
		assert.Equal(t, want, groups.schedules[3])
	})

	t.Run("invalid slot leaves the schedule untouched", func(t *testing.T) {
		groups := newFakeGroups(3)
		existing := []models.TimeSlot{{Day: models.Tuesday, TimeFrom: "17:00", TimeTo: "18:00"}}
		groups.schedules[3] = existing
		svc := newTestGroupService(groups, newFakeVolunteers(), newFakeStudents())

		_, err := svc.ReplaceSchedule(context.Background(), 3, []models.TimeSlot{
			{Day: models.Monday, TimeFrom: "09:00", TimeTo: "10:30"},
			{Day: models.Monday, TimeFrom: "10:00", TimeTo: "11:00"},
		})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		assert.Equal(t, existing, groups.schedules[3])
	})

	t.Run("empty list clears", func(t *testing.T) {
		groups := newFakeGroups(3)
		groups.schedules[3] = []models.TimeSlot{{Day: models.Tuesday, TimeFrom: "17:00", TimeTo: "18:00"}}
		svc := newTestGroupService(groups, newFakeVolunteers(), newFakeStudents())

		slots, err := svc.ReplaceSchedule(context.Background(), 3, []models.TimeSlot{})
		require.NoError(t, err)
		assert.Empty(t, slots)
		assert.Empty(t, groups.schedules[3])
	})
}

func TestGroupListScope(t *testing.T) {
	groups := newFakeGroups(3)
	svc := newTestGroupService(groups, newFakeVolunteers(), newFakeStudents())

	_, err := svc.List(context.Background(), adminActor, int64p(2), 1, 10)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), volunteerActor, nil, 1, 10)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), tutorActor, nil, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.Len(t, groups.listed, 2)
	assert.Nil(t, groups.listed[0].TaughtBy)
	assert.Equal(t, int64(2), *groups.listed[0].DisciplineID)
	require.NotNil(t, groups.listed[1].TaughtBy)
	assert.Equal(t, int64(20), *groups.listed[1].TaughtBy)
}

func TestGroupAccess(t *testing.T) {
	students := newFakeStudents()
	svc := newTestGroupService(newFakeGroups(3), newFakeVolunteers(), students)

	_, err := svc.GetByID(context.Background(), volunteerActor, 3)
	assert.NoError(t, err)
	_, err = svc.GetByID(context.Background(), outsiderActor, 3)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Students(context.Background(), volunteerActor, 3, 1, 20)
	require.NoError(t, err)
	require.Len(t, students.listed, 1)
	assert.Equal(t, int64(3), *students.listed[0].GroupID)

	_, err = svc.Students(context.Background(), adminActor, 9, 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
}
