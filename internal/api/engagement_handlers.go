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
	"github.com/kinboard/kinboard/pkg/httputil"
)

type CreateAchievementRequest struct {
	UserID        uuid.UUID `json:"user_id"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	IconURL       string    `json:"icon_url"`
	PointsAwarded int       `json:"points_awarded"`
}

func (s *Server) ListAchievements(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("list achievements error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	achievements, err := s.achievementService.ListByUser(ctx, ident.UserID)
	if err != nil {
		logger.Error("list achievements error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting achievements", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, achievements)
	logger.Info("achievements provided")
}

func (s *Server) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("create achievement error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateAchievementRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create achievement error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	// Recipient defaults to the caller
	if req.UserID == (uuid.UUID{}) {
		req.UserID = ident.UserID
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	achievement, err := s.achievementService.Create(ctx, &service.CreateAchievementRequest{
		UserID:        req.UserID,
		Type:          req.Type,
		Name:          req.Name,
		Description:   req.Description,
		IconURL:       req.IconURL,
		PointsAwarded: req.PointsAwarded,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("create achievement error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid achievement fields", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create achievement error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
		default:
			logger.Error("create achievement error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating achievement", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, achievement)
	logger.Info("achievement created")
}

func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("list notifications error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	notifications, err := s.notificationService.ListByUser(ctx, ident.UserID)
	if err != nil {
		logger.Error("list notifications error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting notifications", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, notifications)
	logger.Info("notifications provided")
}

func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("mark notification error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		logger.Error("mark notification error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid notification id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.notificationService.MarkRead(ctx, id, ident.UserID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNotificationNotFound) {
			logger.Error("mark notification error: unexist notification")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "notification doesn't exist", nil)
			return
		}
		logger.Error("mark notification error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while marking notification", nil)
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "notification marked as read")
	logger.Info("notification marked as read")
}
