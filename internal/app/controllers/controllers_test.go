package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/services"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    dto.ErrorCode `json:"code"`
		Message string        `json:"message"`
		Field   string        `json:"field"`
	} `json:"error"`
}

func perform(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// withActor stands in for JWTAuth and ActorRequired
func withActor(actor *authz.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextUserID, actor.UserID)
			c.Set(middleware.ContextRoleType, string(actor.Role))
			c.Set(middleware.ContextActor, actor)
		}
		c.Next()
	}
}

type fakeDisciplineService struct {
	services.DisciplineService
	created  []*dto.DisciplineRequest
	existing map[int64]*models.Discipline
}

func (f *fakeDisciplineService) Create(_ context.Context, req *dto.DisciplineRequest) (*models.Discipline, error) {
	for _, d := range f.existing {
		if d.Name == req.Name {
			return nil, apperrors.ErrDisciplineAlreadyExists
		}
	}
	f.created = append(f.created, req)
	return &models.Discipline{ID: 9, Name: req.Name, Description: req.Description}, nil
}

func (f *fakeDisciplineService) GetByID(_ context.Context, id int64) (*models.Discipline, error) {
	if d, ok := f.existing[id]; ok {
		return d, nil
	}
	return nil, apperrors.ErrDisciplineNotFound
}

func (f *fakeDisciplineService) List(_ context.Context, page, size int) (*dto.PaginatedResponse, error) {
	items := make([]*models.Discipline, 0, len(f.existing))
	for _, d := range f.existing {
		items = append(items, d)
	}
	return &dto.PaginatedResponse{Items: items, Pagination: helpers.NewPaginationInfo(int64(len(items)), page, size)}, nil
}

func (f *fakeDisciplineService) Delete(_ context.Context, id int64) error {
	if id == 1 {
		return apperrors.ErrDisciplineInUse
	}
	if _, ok := f.existing[id]; !ok {
		return apperrors.ErrDisciplineNotFound
	}
	return nil
}

func newDisciplineRouter(svc services.DisciplineService) *gin.Engine {
	c := NewDisciplineController(svc)
	r := gin.New()
	r.POST("/disciplines", c.CreateDiscipline)
	r.GET("/disciplines", c.GetAllDisciplines)
	r.GET("/disciplines/:id", c.GetDisciplineByID)
	r.DELETE("/disciplines/:id", c.DeleteDiscipline)
	return r
}

func TestDisciplineController(t *testing.T) {
	svc := &fakeDisciplineService{existing: map[int64]*models.Discipline{
		1: {ID: 1, Name: "Ajedrez"},
		2: {ID: 2, Name: "Música"},
	}}
	r := newDisciplineRouter(svc)

	t.Run("create", func(t *testing.T) {
		w, env := perform(t, r, http.MethodPost, "/disciplines", `{"name":"Teatro","description":"Expresión corporal"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)
		assert.Equal(t, "Discipline created successfully", env.Message)

		var d models.Discipline
		require.NoError(t, json.Unmarshal(env.Data, &d))
		assert.Equal(t, int64(9), d.ID)
		assert.Equal(t, "Teatro", d.Name)
	})

	t.Run("create without name", func(t *testing.T) {
		w, env := perform(t, r, http.MethodPost, "/disciplines", `{"description":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("duplicate", func(t *testing.T) {
		w, env := perform(t, r, http.MethodPost, "/disciplines", `{"name":"Ajedrez"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, env.Error.Code)
	})

	t.Run("get", func(t *testing.T) {
		w, _ := perform(t, r, http.MethodGet, "/disciplines/2", "")
		assert.Equal(t, http.StatusOK, w.Code)

		w, env := perform(t, r, http.MethodGet, "/disciplines/77", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Discipline not found", env.Error.Message)

		w, env = perform(t, r, http.MethodGet, "/disciplines/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "id", env.Error.Field)
	})

	t.Run("list", func(t *testing.T) {
		w, env := perform(t, r, http.MethodGet, "/disciplines?page=1&size=5", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var page struct {
			Items      []models.Discipline `json:"items"`
			Pagination dto.PaginationInfo  `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Len(t, page.Items, 2)
		assert.Equal(t, int64(2), page.Pagination.TotalItems)
		assert.Equal(t, 5, page.Pagination.PageSize)
	})

	t.Run("delete in use", func(t *testing.T) {
		w, env := perform(t, r, http.MethodDelete, "/disciplines/1", "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrorCodeConflict, env.Error.Code)

		w, _ = perform(t, r, http.MethodDelete, "/disciplines/2", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

type fakeMessageService struct {
	services.MessageService
	sent   []*dto.SendMessageRequest
	unread int64
}

func (f *fakeMessageService) Send(_ context.Context, actor *authz.Actor, req *dto.SendMessageRequest) (*models.Message, error) {
	if req.RecipientID == 404 {
		return nil, apperrors.NewResourceNotFoundError("recipient not found")
	}
	if req.RecipientID == 403 {
		return nil, apperrors.NewCustomError(apperrors.ErrRecipientNotAllowed, "recipient is not an allowed contact")
	}
	f.sent = append(f.sent, req)
	return &models.Message{ID: 1, SenderID: actor.UserID, RecipientID: req.RecipientID, Content: req.Content}, nil
}

func (f *fakeMessageService) UnreadCount(_ context.Context, _ *authz.Actor) (int64, error) {
	return f.unread, nil
}

func (f *fakeMessageService) MarkRead(_ context.Context, _ *authz.Actor, id int64) error {
	if id != 1 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

func newMessageRouter(svc services.MessageService, actor *authz.Actor) *gin.Engine {
	c := NewMessageController(svc, zerolog.Nop())
	r := gin.New()
	r.Use(withActor(actor))
	r.POST("/messages", c.SendMessage)
	r.GET("/messages/unread-count", c.GetUnreadCount)
	r.PATCH("/messages/:id/read", c.MarkMessageRead)
	return r
}

func TestMessageController(t *testing.T) {
	tutor := &authz.Actor{UserID: 100, Role: models.RoleTutor}
	svc := &fakeMessageService{unread: 3}
	r := newMessageRouter(svc, tutor)

	w, env := perform(t, r, http.MethodPost, "/messages", `{"recipientId":200,"content":"Hola"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	var m models.Message
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.Equal(t, int64(100), m.SenderID)
	require.Len(t, svc.sent, 1)

	w, _ = perform(t, r, http.MethodPost, "/messages", `{"recipientId":200}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = perform(t, r, http.MethodPost, "/messages", `{"recipientId":404,"content":"Hola"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "recipient not found", env.Error.Message)

	w, _ = perform(t, r, http.MethodPost, "/messages", `{"recipientId":403,"content":"Hola"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = perform(t, r, http.MethodGet, "/messages/unread-count", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":3}`, string(env.Data))

	w, _ = perform(t, r, http.MethodPatch, "/messages/1/read", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodPatch, "/messages/2/read", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessageControllerWithoutActor(t *testing.T) {
	r := newMessageRouter(&fakeMessageService{}, nil)

	w, env := perform(t, r, http.MethodGet, "/messages/unread-count", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, env.Error.Code)
}

type fakeRatingService struct {
	services.RatingService
	listedFor *int64
}

func (f *fakeRatingService) List(_ context.Context, volunteerID *int64, page, size int) (*dto.PaginatedResponse, error) {
	f.listedFor = volunteerID
	return &dto.PaginatedResponse{Items: []*models.Rating{}, Pagination: helpers.NewPaginationInfo(0, page, size)}, nil
}

func TestGetAllRatingsQueryFilter(t *testing.T) {
	svc := &fakeRatingService{}
	c := NewRatingController(svc)
	r := gin.New()
	r.GET("/ratings", c.GetAllRatings)

	w, _ := perform(t, r, http.MethodGet, "/ratings?volunteerId=20", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.listedFor)
	assert.Equal(t, int64(20), *svc.listedFor)

	w, env := perform(t, r, http.MethodGet, "/ratings?volunteerId=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "volunteerId", env.Error.Field)

	w, _ = perform(t, r, http.MethodGet, "/ratings", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.listedFor)
}
