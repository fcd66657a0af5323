package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/internal/service"
	"github.com/kinboard/kinboard/internal/views"
	"github.com/kinboard/kinboard/pkg/entity"
	"github.com/kinboard/kinboard/pkg/httputil"
)

type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Quadrant    int                 `json:"quadrant"`
	Priority    entity.TaskPriority `json:"priority"`
	AssigneeID  *uuid.UUID          `json:"assignee_id"`
	DueDate     *time.Time          `json:"due_date"`
	Points      int                 `json:"points"`
	Tags        []string            `json:"tags"`
}

type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Quadrant    *int                 `json:"quadrant"`
	Status      *entity.TaskStatus   `json:"status"`
	Priority    *entity.TaskPriority `json:"priority"`
	AssigneeID  *uuid.UUID           `json:"assignee_id"`
	DueDate     *time.Time           `json:"due_date"`
	Points      *int                 `json:"points"`
	Tags        *[]string            `json:"tags"`
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("create task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.taskService.Create(ctx, ident, &service.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Quadrant:    req.Quadrant,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Points:      req.Points,
		Tags:        req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("create task error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task fields", err)
		case errors.Is(err, errorvalues.ErrNoFamily):
			logger.Error("create task error: creator has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
		case errors.Is(err, errorvalues.ErrFamilyNotFound):
			logger.Error("create task error: unexist family")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "family doesn't exist", nil)
		default:
			logger.Error("create task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created")
}

// taskFilterFromQuery reads the optional quadrant, status and assignee=me
// query params.
func taskFilterFromQuery(r *http.Request, ident service.Identity) (service.TaskFilter, error) {
	var filter service.TaskFilter
	if rawQuadrant := r.URL.Query().Get("quadrant"); rawQuadrant != "" {
		quadrant, err := strconv.Atoi(rawQuadrant)
		if err != nil || quadrant < 1 || quadrant > 4 {
			return filter, errors.New("quadrant must be an integer from 1 to 4")
		}
		filter.Quadrant = &quadrant
	}
	if rawStatus := r.URL.Query().Get("status"); rawStatus != "" {
		status := entity.TaskStatus(rawStatus)
		filter.Status = &status
	}
	if r.URL.Query().Get("assignee") == "me" {
		uid := ident.UserID
		filter.AssigneeID = &uid
	}
	return filter, nil
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("list tasks error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	filter, err := taskFilterFromQuery(r, ident)
	if err != nil {
		logger.Error("list tasks error: invalid query params")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid query params", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	tasks, err := s.taskService.List(ctx, ident, filter)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNoFamily) {
			logger.Error("list tasks error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
			return
		}
		logger.Error("list tasks error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting tasks", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
	logger.Info("tasks provided")
}

func (s *Server) GetTaskMatrix(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("task matrix error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	tasks, err := s.taskService.List(ctx, ident, service.TaskFilter{})
	if err != nil {
		if errors.Is(err, errorvalues.ErrNoFamily) {
			logger.Error("task matrix error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
			return
		}
		logger.Error("task matrix error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting tasks", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, views.BuildMatrix(tasks))
	logger.Info("task matrix provided")
}

func (s *Server) GetTodayTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("today tasks error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	uid := ident.UserID
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	tasks, err := s.taskService.List(ctx, ident, service.TaskFilter{AssigneeID: &uid})
	if err != nil {
		if errors.Is(err, errorvalues.ErrNoFamily) {
			logger.Error("today tasks error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
			return
		}
		logger.Error("today tasks error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting tasks", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, views.TodaysTasks(tasks, time.Now()))
	logger.Info("today tasks provided")
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("get task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		logger.Error("get task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.taskService.Get(ctx, ident, id)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTaskNotFound), errors.Is(err, errorvalues.ErrWrongFamily):
			logger.Error("get task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrNoFamily):
			logger.Error("get task error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
		default:
			logger.Error("get task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task provided")
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("update task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		logger.Error("update task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var req UpdateTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.taskService.Update(ctx, ident, id, &service.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Quadrant:    req.Quadrant,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Points:      req.Points,
		Tags:        req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("update task error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task fields", err)
		case errors.Is(err, errorvalues.ErrTaskNotFound), errors.Is(err, errorvalues.ErrWrongFamily):
			logger.Error("update task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrNoFamily):
			logger.Error("update task error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
		default:
			logger.Error("update task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task updated")
}

func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("complete task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		logger.Error("complete task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.taskService.Complete(ctx, ident, id)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTaskNotFound), errors.Is(err, errorvalues.ErrWrongFamily):
			logger.Error("complete task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrTaskCompleted):
			logger.Error("complete task error: already completed")
			httputil.WriteErrorResponse(w, http.StatusConflict, "task is already completed", nil)
		case errors.Is(err, errorvalues.ErrNoFamily):
			logger.Error("complete task error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
		default:
			logger.Error("complete task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while completing task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task completed")
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("task deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		logger.Error("task deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.taskService.Delete(ctx, ident, id)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTaskNotFound), errors.Is(err, errorvalues.ErrWrongFamily):
			logger.Error("task deletion error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrNoFamily):
			logger.Error("task deletion error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
		default:
			logger.Error("task deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting task", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "task deleted")
	logger.Info("task deleted")
}
