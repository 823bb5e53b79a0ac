package services

import (
	"context"
	"time"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/repositories"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// The fakes embed the store interface they stand in for; methods a test does
// not exercise stay nil and would panic if reached.

var nopLogger = zerolog.Nop()

func int64p(v int64) *int64 { return &v }

func strp(v string) *string { return &v }

func boolp(v bool) *bool { return &v }

// scopeFixture: tutor 10 (user 100) owns student 7 in group 3, taught by
// volunteer 20 (user 200). Volunteer 21 (user 201) teaches nothing. User 1 is the admin.
type scopeFixture struct{}

func (scopeFixture) VolunteerIDByUserID(_ context.Context, userID int64) (*int64, error) {
	switch userID {
	case 200:
		return int64p(20), nil
	case 201:
		return int64p(21), nil
	}
	return nil, nil
}

func (scopeFixture) TutorIDByUserID(_ context.Context, userID int64) (*int64, error) {
	if userID == 100 {
		return int64p(10), nil
	}
	return nil, nil
}

func (scopeFixture) VolunteerTeachesStudent(_ context.Context, volunteerID, studentID int64) (bool, error) {
	return volunteerID == 20 && studentID == 7, nil
}

func (scopeFixture) VolunteerTeachesGroup(_ context.Context, volunteerID, groupID int64) (bool, error) {
	return volunteerID == 20 && groupID == 3, nil
}

func (scopeFixture) VolunteerTeachesTutor(_ context.Context, volunteerID, tutorID int64) (bool, error) {
	return volunteerID == 20 && tutorID == 10, nil
}

func (scopeFixture) TutorOwnsStudent(_ context.Context, tutorID, studentID int64) (bool, error) {
	return tutorID == 10 && studentID == 7, nil
}

func (scopeFixture) ContactUserIDs(_ context.Context, role models.RoleType, profileID int64) ([]int64, error) {
	switch {
	case role == models.RoleTutor && profileID == 10:
		return []int64{200}, nil
	case role == models.RoleVolunteer && profileID == 20:
		return []int64{100}, nil
	}
	return []int64{}, nil
}

func (scopeFixture) AdminUserIDs(_ context.Context) ([]int64, error) {
	return []int64{1}, nil
}

func newTestAuthz() *authz.AuthorizationService {
	return authz.NewAuthorizationService(scopeFixture{})
}

var (
	adminActor     = &authz.Actor{UserID: 1, Role: models.RoleAdmin}
	tutorActor     = &authz.Actor{UserID: 100, Role: models.RoleTutor, TutorID: int64p(10)}
	volunteerActor = &authz.Actor{UserID: 200, Role: models.RoleVolunteer, VolunteerID: int64p(20)}
	outsiderActor  = &authz.Actor{UserID: 201, Role: models.RoleVolunteer, VolunteerID: int64p(21)}
)

type fakeUsers struct {
	userStore
	byID       map[int64]*models.User
	lastLogins []int64
	passwords  map[int64]string
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]*models.User{}, passwords: map[int64]string{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetByDNI(_ context.Context, dni string) (*models.User, error) {
	for _, u := range f.byID {
		if u.DNI == dni {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) ListByIDs(_ context.Context, ids []int64) ([]*models.User, error) {
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) ListActiveExcept(_ context.Context, userID int64) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.byID))
	for id, u := range f.byID {
		if id != userID && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, userID int64) error {
	f.lastLogins = append(f.lastLogins, userID)
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID int64, hash string) error {
	f.passwords[userID] = hash
	if u, ok := f.byID[userID]; ok {
		u.Password = hash
	}
	return nil
}

type storedToken struct {
	userID  int64
	expiry  time.Time
	revoked bool
}

type fakeTokens struct {
	tokens map[string]*storedToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: map[string]*storedToken{}}
}

func (f *fakeTokens) CreateToken(_ context.Context, token string, userID int64, expiry time.Time) error {
	f.tokens[token] = &storedToken{userID: userID, expiry: expiry}
	return nil
}

func (f *fakeTokens) GetTokenByValue(_ context.Context, token string) (int64, time.Time, bool, error) {
	t, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, false, apperrors.ErrTokenNotFound
	}
	if t.revoked {
		return 0, time.Time{}, true, apperrors.ErrTokenRevoked
	}
	return t.userID, t.expiry, false, nil
}

func (f *fakeTokens) RevokeToken(_ context.Context, token string) error {
	t, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.revoked = true
	return nil
}

func (f *fakeTokens) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for _, t := range f.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func (f *fakeTokens) RotateToken(ctx context.Context, oldToken, newToken string, userID int64, expiry time.Time) error {
	if err := f.RevokeToken(ctx, oldToken); err != nil {
		return err
	}
	return f.CreateToken(ctx, newToken, userID, expiry)
}

type fakeVolunteers struct {
	volunteerStore
	byID         map[int64]*models.Volunteer
	statusCalls  int
	groupsByID   map[int64][]int64
	availability map[int64][]models.TimeSlot
}

func newFakeVolunteers(vs ...*models.Volunteer) *fakeVolunteers {
	f := &fakeVolunteers{
		byID:         map[int64]*models.Volunteer{},
		groupsByID:   map[int64][]int64{},
		availability: map[int64][]models.TimeSlot{},
	}
	for _, v := range vs {
		f.byID[v.ID] = v
	}
	return f
}

func (f *fakeVolunteers) GetByID(_ context.Context, id int64) (*models.Volunteer, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, apperrors.ErrVolunteerNotFound
}

func (f *fakeVolunteers) GetByUserID(_ context.Context, userID int64) (*models.Volunteer, error) {
	for _, v := range f.byID {
		if v.UserID == userID {
			return v, nil
		}
	}
	return nil, apperrors.ErrVolunteerNotFound
}

func (f *fakeVolunteers) UpdateStatus(_ context.Context, id int64, status models.VolunteerStatus, reason *string) error {
	v, ok := f.byID[id]
	if !ok {
		return apperrors.ErrVolunteerNotFound
	}
	f.statusCalls++
	v.Status = status
	v.InactiveReason = reason
	return nil
}

func (f *fakeVolunteers) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeVolunteers) ReplaceAvailability(_ context.Context, id int64, slots []models.TimeSlot) error {
	f.availability[id] = slots
	return nil
}

func (f *fakeVolunteers) ReplaceGroups(_ context.Context, id int64, groupIDs []int64) error {
	f.groupsByID[id] = groupIDs
	return nil
}

type fakeGroups struct {
	groupStore
	existing   map[int64]bool
	schedules  map[int64][]models.TimeSlot
	volunteers map[int64][]int64
	listed     []repositories.GroupListFilter
}

func newFakeGroups(ids ...int64) *fakeGroups {
	f := &fakeGroups{
		existing:   map[int64]bool{},
		schedules:  map[int64][]models.TimeSlot{},
		volunteers: map[int64][]int64{},
	}
	for _, id := range ids {
		f.existing[id] = true
	}
	return f
}

func (f *fakeGroups) GetByID(_ context.Context, id int64) (*models.Group, error) {
	if !f.existing[id] {
		return nil, apperrors.ErrGroupNotFound
	}
	return &models.Group{ID: id, Schedule: f.schedules[id], VolunteerIDs: f.volunteers[id]}, nil
}

func (f *fakeGroups) List(_ context.Context, filter repositories.GroupListFilter) ([]*models.Group, int64, error) {
	f.listed = append(f.listed, filter)
	return []*models.Group{}, 0, nil
}

func (f *fakeGroups) ReplaceSchedule(_ context.Context, id int64, slots []models.TimeSlot) error {
	if !f.existing[id] {
		return apperrors.ErrGroupNotFound
	}
	f.schedules[id] = slots
	return nil
}

func (f *fakeGroups) ReplaceVolunteers(_ context.Context, id int64, volunteerIDs []int64) error {
	if !f.existing[id] {
		return apperrors.ErrGroupNotFound
	}
	f.volunteers[id] = volunteerIDs
	return nil
}

func (f *fakeGroups) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if f.existing[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeStudents struct {
	studentStore
	byID     map[int64]*models.Student
	listed   []dto.StudentListFilter
	assigned map[int64]*int64
	medical  map[int64]models.MedicalRecord
	created  []*models.Student
}

func newFakeStudents(students ...*models.Student) *fakeStudents {
	f := &fakeStudents{
		byID:     map[int64]*models.Student{},
		assigned: map[int64]*int64{},
		medical:  map[int64]models.MedicalRecord{},
	}
	for _, st := range students {
		f.byID[st.ID] = st
	}
	return f
}

func (f *fakeStudents) Create(_ context.Context, st *models.Student) error {
	st.ID = int64(len(f.byID) + 50)
	f.byID[st.ID] = st
	f.created = append(f.created, st)
	return nil
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	if st, ok := f.byID[id]; ok {
		return st, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudents) List(_ context.Context, filter dto.StudentListFilter) ([]*models.Student, int64, error) {
	f.listed = append(f.listed, filter)
	return []*models.Student{}, 0, nil
}

func (f *fakeStudents) UpdateMedical(_ context.Context, id int64, m models.MedicalRecord) error {
	st, ok := f.byID[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	f.medical[id] = m
	st.Medical = m
	return nil
}

func (f *fakeStudents) AssignGroup(_ context.Context, studentID int64, groupID *int64) (*models.Student, error) {
	st, ok := f.byID[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	f.assigned[studentID] = groupID
	st.GroupID = groupID
	return st, nil
}

type fakeProgress struct {
	progressStore
	byID     map[int64]*models.ProgressRecord
	upserted []*models.ProgressRecord
	deleted  []int64
	nextID   int64
}

func newFakeProgress(records ...*models.ProgressRecord) *fakeProgress {
	f := &fakeProgress{byID: map[int64]*models.ProgressRecord{}, nextID: 100}
	for _, r := range records {
		f.byID[r.ID] = r
	}
	return f
}

// Upsert matches the (student, date) key the progress table is unique on
func (f *fakeProgress) Upsert(_ context.Context, p *models.ProgressRecord) (bool, error) {
	f.upserted = append(f.upserted, p)
	for _, existing := range f.byID {
		if existing.StudentID == p.StudentID && existing.RecordDate.Equal(p.RecordDate) {
			p.ID = existing.ID
			f.byID[p.ID] = p
			return false, nil
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.byID[p.ID] = p
	return true, nil
}

func (f *fakeProgress) GetByID(_ context.Context, id int64) (*models.ProgressRecord, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProgressNotFound
}

func (f *fakeProgress) Update(_ context.Context, p *models.ProgressRecord) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProgress) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

type fakeRatings struct {
	ratingStore
	created []*models.Rating
}

func (f *fakeRatings) Create(_ context.Context, r *models.Rating) error {
	r.ID = int64(len(f.created) + 1)
	f.created = append(f.created, r)
	return nil
}

type fakeAnnouncements struct {
	announcementStore
	byID  map[int64]*models.Announcement
	reads map[int64][]int64
}

func (f *fakeAnnouncements) Create(_ context.Context, a *models.Announcement) error {
	a.ID = int64(len(f.byID) + 1)
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAnnouncements) GetByID(_ context.Context, id int64) (*models.Announcement, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAnnouncementNotFound
}

func (f *fakeAnnouncements) MarkRead(_ context.Context, announcementID, userID int64) error {
	f.reads[announcementID] = append(f.reads[announcementID], userID)
	return nil
}

type fakeMessages struct {
	messageStore
	created []*models.Message
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) error {
	m.ID = int64(len(f.created) + 1)
	m.CreatedAt = time.Now()
	f.created = append(f.created, m)
	return nil
}
