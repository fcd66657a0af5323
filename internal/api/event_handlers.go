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
	"github.com/kinboard/kinboard/pkg/entity"
	"github.com/kinboard/kinboard/pkg/httputil"
)

type CreateEventRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time"`
	Location    string               `json:"location"`
	Category    entity.EventCategory `json:"category"`
	Attendees   []uuid.UUID          `json:"attendees"`
	Color       string               `json:"color"`
}

type UpdateEventRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	StartTime   *time.Time            `json:"start_time"`
	EndTime     *time.Time            `json:"end_time"`
	Location    *string               `json:"location"`
	Category    *entity.EventCategory `json:"category"`
	Attendees   *[]uuid.UUID          `json:"attendees"`
	Color       *string               `json:"color"`
}

func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("create event error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateEventRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create event error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	event, err := s.eventService.Create(ctx, ident, &service.CreateEventRequest{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
		Attendees:   req.Attendees,
		Color:       req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("create event error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid event fields", err)
		case errors.Is(err, errorvalues.ErrNoFamily):
			logger.Error("create event error: creator has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
		case errors.Is(err, errorvalues.ErrFamilyNotFound):
			logger.Error("create event error: unexist family")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "family doesn't exist", nil)
		default:
			logger.Error("create event error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating event", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, event)
	logger.Info("event created")
}

// eventFilterFromQuery reads the optional startDate/endDate pair and
// attendee=me query params.
func eventFilterFromQuery(r *http.Request, ident service.Identity) (service.EventFilter, error) {
	var filter service.EventFilter
	rawFrom := r.URL.Query().Get("startDate")
	rawTo := r.URL.Query().Get("endDate")
	if rawFrom != "" || rawTo != "" {
		if rawFrom == "" || rawTo == "" {
			return filter, errors.New("startDate and endDate must be provided together")
		}
		from, err := time.Parse(time.RFC3339, rawFrom)
		if err != nil {
			return filter, errors.New("startDate must be RFC3339")
		}
		to, err := time.Parse(time.RFC3339, rawTo)
		if err != nil {
			return filter, errors.New("endDate must be RFC3339")
		}
		filter.From = &from
		filter.To = &to
	}
	if r.URL.Query().Get("attendee") == "me" {
		uid := ident.UserID
		filter.AttendeeID = &uid
	}
	return filter, nil
}

func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("list events error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	filter, err := eventFilterFromQuery(r, ident)
	if err != nil {
		logger.Error("list events error: invalid query params")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid query params", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	events, err := s.eventService.List(ctx, ident, filter)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNoFamily) {
			logger.Error("list events error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
			return
		}
		logger.Error("list events error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting events", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, events)
	logger.Info("events provided")
}

func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("get event error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		logger.Error("get event error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid event id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	event, err := s.eventService.Get(ctx, ident, id)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEventNotFound), errors.Is(err, errorvalues.ErrWrongFamily):
			logger.Error("get event error: unexist event")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "event doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrNoFamily):
			logger.Error("get event error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
		default:
			logger.Error("get event error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting event", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, event)
	logger.Info("event provided")
}

func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("update event error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		logger.Error("update event error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid event id in path value", nil)
		return
	}
	var req UpdateEventRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update event error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	event, err := s.eventService.Update(ctx, ident, id, &service.UpdateEventRequest{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
		Attendees:   req.Attendees,
		Color:       req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("update event error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid event fields", err)
		case errors.Is(err, errorvalues.ErrEventNotFound), errors.Is(err, errorvalues.ErrWrongFamily):
			logger.Error("update event error: unexist event")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "event doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrNoFamily):
			logger.Error("update event error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
		default:
			logger.Error("update event error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating event", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, event)
	logger.Info("event updated")
}

func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("event deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		logger.Error("event deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid event id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.eventService.Delete(ctx, ident, id)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEventNotFound), errors.Is(err, errorvalues.ErrWrongFamily):
			logger.Error("event deletion error: unexist event")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "event doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrNoFamily):
			logger.Error("event deletion error: user has no family")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user doesn't belong to a family", nil)
		default:
			logger.Error("event deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting event", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "event deleted")
	logger.Info("event deleted")
}
