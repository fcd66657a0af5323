package api_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/kinboard/kinboard/internal/api"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func newTaskServer(usmock *UserServiceMock, tsmock *TaskServiceMock) *api.Server {
	return api.New(&api.ServicesList{
		UserService: usmock,
		TaskService: tsmock,
		JwtService:  jwtService,
	})
}

func TestCreateTaskHandler(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.CreateTaskRequest{
		Title:    "take out the trash",
		Quadrant: 1,
		Points:   30,
	})
	if err != nil {
		t.Fatal(err)
	}
	tsmock := TaskServiceMock{}
	serv := newTaskServer(&UserServiceMock{}, &tsmock)
	t.Run("created", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
		tsmock.err = nil
		rr := authed(serv, serv.CreateTask, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
		rr := authed(serv, serv.CreateTask, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("invalid fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
		tsmock.err = errorvalues.ErrValidation
		rr := authed(serv, serv.CreateTask, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("creator without family", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
		tsmock.err = errorvalues.ErrNoFamily
		rr := authed(serv, serv.CreateTask, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("no authorization", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
		serv.CreateTask(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
		tsmock.err = errors.New("mocked error")
		rr := authed(serv, serv.CreateTask, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestListTasksHandler(t *testing.T) {
	tsmock := TaskServiceMock{}
	serv := newTaskServer(&UserServiceMock{}, &tsmock)
	t.Run("listed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks?quadrant=2&status=not_started", nil)
		tsmock.err = nil
		rr := authed(serv, serv.ListTasks, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var tasks []*entity.Task
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&tasks)
		if err != nil {
			t.Fatal(err)
		}
		assert.Len(t, tasks, 1)
	})
	t.Run("quadrant out of range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks?quadrant=5", nil)
		rr := authed(serv, serv.ListTasks, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("user without family", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		tsmock.err = errorvalues.ErrNoFamily
		rr := authed(serv, serv.ListTasks, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestTaskMatrixHandler(t *testing.T) {
	tsmock := TaskServiceMock{}
	serv := newTaskServer(&UserServiceMock{}, &tsmock)
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/matrix", nil)
	rr := authed(serv, serv.GetTaskMatrix, req)
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	result := make(map[string][]*entity.Task)
	err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
	if err != nil {
		t.Fatal(err)
	}
	// the mocked task sits in quadrant 1
	assert.Len(t, result["do_first"], 1)
	assert.Empty(t, result["schedule"])
}

func TestCompleteTaskHandler(t *testing.T) {
	tsmock := TaskServiceMock{}
	serv := newTaskServer(&UserServiceMock{}, &tsmock)
	t.Run("completed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks/1/complete", nil)
		req.SetPathValue("id", "1")
		tsmock.err = nil
		rr := authed(serv, serv.CompleteTask, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var task entity.Task
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&task)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, entity.StatusCompleted, task.Status)
	})
	t.Run("already completed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks/1/complete", nil)
		req.SetPathValue("id", "1")
		tsmock.err = errorvalues.ErrTaskCompleted
		rr := authed(serv, serv.CompleteTask, req)
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("unexist task", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks/1/complete", nil)
		req.SetPathValue("id", "1")
		tsmock.err = errorvalues.ErrTaskNotFound
		rr := authed(serv, serv.CompleteTask, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("task of another family", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks/1/complete", nil)
		req.SetPathValue("id", "1")
		tsmock.err = errorvalues.ErrWrongFamily
		rr := authed(serv, serv.CompleteTask, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks/abc/complete", nil)
		req.SetPathValue("id", "abc")
		rr := authed(serv, serv.CompleteTask, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestDeleteTaskHandler(t *testing.T) {
	tsmock := TaskServiceMock{}
	serv := newTaskServer(&UserServiceMock{}, &tsmock)
	t.Run("deleted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/tasks/1", nil)
		req.SetPathValue("id", "1")
		tsmock.err = nil
		rr := authed(serv, serv.DeleteTask, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("unexist task", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/tasks/1", nil)
		req.SetPathValue("id", "1")
		tsmock.err = errorvalues.ErrTaskNotFound
		rr := authed(serv, serv.DeleteTask, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}
