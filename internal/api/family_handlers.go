package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/internal/service"
	"github.com/kinboard/kinboard/pkg/entity"
	"github.com/kinboard/kinboard/pkg/httputil"
)

type CreateFamilyRequest struct {
	Name string `json:"name"`
}

type JoinFamilyRequest struct {
	Role entity.Role `json:"role"`
}

func (s *Server) CreateFamily(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("create family error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateFamilyRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create family error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	family, err := s.familyService.Create(ctx, ident, &service.CreateFamilyRequest{
		Name: req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("create family error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid family fields", err)
		case errors.Is(err, errorvalues.ErrAlreadyMember):
			logger.Error("create family error: creator already has family")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user already belongs to a family", nil)
		default:
			logger.Error("create family error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating family", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, family)
	logger.Info("family created")
}

// familyFromPath parses the id path value and hides families the caller
// doesn't belong to.
func familyFromPath(r *http.Request, ident service.Identity) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.UUID{}, err
	}
	if ident.FamilyID == nil || *ident.FamilyID != id {
		return uuid.UUID{}, errorvalues.ErrWrongFamily
	}
	return id, nil
}

func (s *Server) GetFamily(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("get family error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := familyFromPath(r, ident)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWrongFamily) {
			logger.Error("get family error: foreign family")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "family doesn't exist", nil)
			return
		}
		logger.Error("get family error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid family id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	family, err := s.familyService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrFamilyNotFound) {
			logger.Error("get family error: unexist family")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "family doesn't exist", nil)
			return
		}
		logger.Error("get family error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting family", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, family)
	logger.Info("family provided")
}

func (s *Server) JoinFamily(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("join family error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("join family error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid family id in path value", nil)
		return
	}
	var req JoinFamilyRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("join family error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.familyService.Join(ctx, ident, id, &service.JoinFamilyRequest{
		Role: req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("join family error: invalid role")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid join fields", err)
		case errors.Is(err, errorvalues.ErrAlreadyMember):
			logger.Error("join family error: already member")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user already belongs to a family", nil)
		case errors.Is(err, errorvalues.ErrFamilyNotFound):
			logger.Error("join family error: unexist family")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "family doesn't exist", nil)
		default:
			logger.Error("join family error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while joining family", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "joined family")
	logger.Info("family joined")
}

func (s *Server) GetFamilyMembers(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("family members error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := familyFromPath(r, ident)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWrongFamily) {
			logger.Error("family members error: foreign family")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "family doesn't exist", nil)
			return
		}
		logger.Error("family members error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid family id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	members, err := s.familyService.Members(ctx, id)
	if err != nil {
		logger.Error("family members error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting family members", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, members)
	logger.Info("family members provided")
}

func (s *Server) GetFamilyStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ident, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("family stats error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := familyFromPath(r, ident)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWrongFamily) {
			logger.Error("family stats error: foreign family")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "family doesn't exist", nil)
			return
		}
		logger.Error("family stats error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid family id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	stats, err := s.familyService.Stats(ctx, id)
	if err != nil {
		logger.Error("family stats error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while computing family stats", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
	logger.Info("family stats provided")
}
