package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/kinboard/kinboard/internal/api"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/internal/service"
	"github.com/kinboard/kinboard/pkg/entity"
	jwtservice "github.com/kinboard/kinboard/pkg/jwt_service"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

var (
	email           = "parent@example.com"
	password        = "test_password"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	uid             = uuid.New()
	famID           = uuid.New()
	jwtService      = jwtservice.New("test_secret")
)

func testUser() *entity.User {
	return &entity.User{
		ID:           uid,
		Email:        email,
		FirstName:    "Alice",
		PasswordHash: string(passwordHash),
		Role:         entity.RoleParent,
		FamilyID:     &famID,
		Points:       130,
	}
}

// Mocks fail with whatever error is set, succeed when it's nil.

type UserServiceMock struct {
	err error
}

func (usmock *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if usmock.err != nil {
		return nil, usmock.err
	}
	return testUser(), nil
}

func (usmock *UserServiceMock) Login(ctx context.Context, email, password string) (*entity.User, error) {
	if usmock.err != nil {
		return nil, usmock.err
	}
	return testUser(), nil
}

func (usmock *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if usmock.err != nil {
		return nil, usmock.err
	}
	return testUser(), nil
}

func (usmock *UserServiceMock) UpdateProfile(ctx context.Context, id uuid.UUID, req *service.UpdateProfileRequest) (*entity.User, error) {
	if usmock.err != nil {
		return nil, usmock.err
	}
	return testUser(), nil
}

type TaskServiceMock struct {
	err error
}

func (tsmock *TaskServiceMock) task() *entity.Task {
	return &entity.Task{
		ID:        1,
		Title:     "take out the trash",
		Quadrant:  1,
		Status:    entity.StatusNotStarted,
		Priority:  entity.PriorityMedium,
		CreatedBy: uid,
		FamilyID:  famID,
	}
}

func (tsmock *TaskServiceMock) Create(ctx context.Context, ident service.Identity, req *service.CreateTaskRequest) (*entity.Task, error) {
	if tsmock.err != nil {
		return nil, tsmock.err
	}
	return tsmock.task(), nil
}

func (tsmock *TaskServiceMock) Get(ctx context.Context, ident service.Identity, id int) (*entity.Task, error) {
	if tsmock.err != nil {
		return nil, tsmock.err
	}
	return tsmock.task(), nil
}

func (tsmock *TaskServiceMock) List(ctx context.Context, ident service.Identity, filter service.TaskFilter) ([]*entity.Task, error) {
	if tsmock.err != nil {
		return nil, tsmock.err
	}
	return []*entity.Task{tsmock.task()}, nil
}

func (tsmock *TaskServiceMock) Update(ctx context.Context, ident service.Identity, id int, req *service.UpdateTaskRequest) (*entity.Task, error) {
	if tsmock.err != nil {
		return nil, tsmock.err
	}
	return tsmock.task(), nil
}

func (tsmock *TaskServiceMock) Delete(ctx context.Context, ident service.Identity, id int) error {
	return tsmock.err
}

func (tsmock *TaskServiceMock) Complete(ctx context.Context, ident service.Identity, id int) (*entity.Task, error) {
	if tsmock.err != nil {
		return nil, tsmock.err
	}
	task := tsmock.task()
	task.Status = entity.StatusCompleted
	return task, nil
}

type FamilyServiceMock struct {
	err error
}

func (fsmock *FamilyServiceMock) family() *entity.Family {
	return &entity.Family{ID: famID, Name: "The Smiths", CreatedBy: uid}
}

func (fsmock *FamilyServiceMock) Create(ctx context.Context, ident service.Identity, req *service.CreateFamilyRequest) (*entity.Family, error) {
	if fsmock.err != nil {
		return nil, fsmock.err
	}
	return fsmock.family(), nil
}

func (fsmock *FamilyServiceMock) Join(ctx context.Context, ident service.Identity, familyID uuid.UUID, req *service.JoinFamilyRequest) error {
	return fsmock.err
}

func (fsmock *FamilyServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Family, error) {
	if fsmock.err != nil {
		return nil, fsmock.err
	}
	return fsmock.family(), nil
}

func (fsmock *FamilyServiceMock) Members(ctx context.Context, familyID uuid.UUID) ([]*entity.User, error) {
	if fsmock.err != nil {
		return nil, fsmock.err
	}
	return []*entity.User{testUser()}, nil
}

func (fsmock *FamilyServiceMock) Stats(ctx context.Context, familyID uuid.UUID) (*entity.FamilyStats, error) {
	if fsmock.err != nil {
		return nil, fsmock.err
	}
	return &entity.FamilyStats{TotalTasks: 2, CompletedTasks: 1, CompletionRate: 50}, nil
}

type NotificationServiceMock struct {
	err error
	// owner the MarkRead call was scoped to
	markedFor uuid.UUID
}

func (nsmock *NotificationServiceMock) ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Notification, error) {
	if nsmock.err != nil {
		return nil, nsmock.err
	}
	return []*entity.Notification{{ID: 1, UserID: uid, Title: "Task completed", Type: entity.NotificationTask}}, nil
}

func (nsmock *NotificationServiceMock) MarkRead(ctx context.Context, id int, uid uuid.UUID) error {
	nsmock.markedFor = uid
	return nsmock.err
}

// authed sends the request through the auth middleware with a valid token so
// the handler sees a resolved identity.
func authed(serv *api.Server, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	token, _ := jwtService.GenerateToken(testUser())
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	serv.AuthMiddleware(handler).ServeHTTP(rr, req)
	return rr
}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: "Alice",
	})
	if err != nil {
		t.Fatal(err)
	}
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
	})
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		mock.err = nil
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("invalid fields", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		mock.err = errorvalues.ErrValidation
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("email conflict", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		mock.err = errorvalues.ErrUserExists
		serv.Register(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		mock.err = errors.New("mocked error")
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  jwtService,
	})
	t.Run("logged in with token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		mock.err = nil
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		if err != nil {
			t.Fatal(err)
		}
		token, ok := result["token"].(string)
		assert.True(t, ok)
		assert.NotEmpty(t, token)
	})
	t.Run("wrong credentials", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		mock.err = errorvalues.ErrWrongCredentials
		serv.Login(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Result().StatusCode)
	})
	t.Run("unknown email", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		mock.err = errorvalues.ErrUserNotFound
		serv.Login(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestAuthMiddleware(t *testing.T) {
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  jwtService,
	})
	t.Run("resolves identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		rr := authed(serv, serv.CurrentUser, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		serv.AuthMiddleware(http.HandlerFunc(serv.CurrentUser)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		serv.AuthMiddleware(http.HandlerFunc(serv.CurrentUser)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("token for deleted user", func(t *testing.T) {
		mock.err = errorvalues.ErrUserNotFound
		defer func() { mock.err = nil }()
		token, _ := jwtService.GenerateToken(testUser())
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		serv.AuthMiddleware(http.HandlerFunc(serv.CurrentUser)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestGetUserProgress(t *testing.T) {
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  jwtService,
	})
	t.Run("progress derived from points", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/"+uid.String()+"/progress", nil)
		req.SetPathValue("id", uid.String())
		rr := authed(serv, serv.GetUserProgress, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		if err != nil {
			t.Fatal(err)
		}
		// 130 points: level 2, 30% into it
		assert.Equal(t, float64(2), result["level"])
		assert.Equal(t, float64(30), result["progress_percent"])
	})
	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/abc/progress", nil)
		req.SetPathValue("id", "abc")
		rr := authed(serv, serv.GetUserProgress, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}
