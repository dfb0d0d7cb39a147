package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chronetask/backend/internal/transport/dto/request"
	"github.com/chronetask/backend/internal/transport/dto/response"
	"github.com/chronetask/backend/internal/usecase/service"
	"go.uber.org/zap"
)

type OrganizationService interface {
	Create(ctx context.Context, caller service.Caller, req *request.CreateOrgRequest) (*response.CreateOrgResponse, error)
	Get(ctx context.Context, caller service.Caller, req *request.GetOrgRequest) (*response.GetOrgResponse, error)
	AddMember(ctx context.Context, caller service.Caller, req *request.AddOrgMemberRequest) (*response.AddOrgMemberResponse, error)
}

type OrganizationHandler struct {
	svc OrganizationService
	log *zap.Logger
}

func NewOrganizationHandler(svc OrganizationService, log *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		svc: svc,
		log: log,
	}
}

func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	h.log.Info("createOrganization request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель CreateOrgRequest
	var req request.CreateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.Name == "" {
		h.log.Warn("validation failed: name is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Create(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to create organization",
			zap.String("name", req.Name),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("organization created successfully",
		zap.String("org_id", resp.OrganizationId),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Получаем organization_id из query параметров
	orgId := r.URL.Query().Get("organization_id")
	if orgId == "" {
		h.log.Warn("validation failed: organization_id query parameter is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Get(r.Context(), caller, &request.GetOrgRequest{
		OrganizationId: orgId,
	})
	if err != nil {
		h.log.Error("failed to get organization",
			zap.String("org_id", orgId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *OrganizationHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	h.log.Info("addMember request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель AddOrgMemberRequest
	var req request.AddOrgMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.OrganizationId == "" || req.UserId == "" || req.Username == "" || req.Role == "" {
		h.log.Warn("validation failed: required field is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.AddMember(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to add member",
			zap.String("org_id", req.OrganizationId),
			zap.String("user_id", req.UserId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}
