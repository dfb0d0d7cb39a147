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

type ProjectService interface {
	Create(ctx context.Context, caller service.Caller, req *request.CreateProjectRequest) (*response.CreateProjectResponse, error)
	List(ctx context.Context, caller service.Caller, req *request.ListProjectsRequest) (*response.ListProjectsResponse, error)
	Archive(ctx context.Context, caller service.Caller, req *request.ArchiveProjectRequest) (*response.ArchiveProjectResponse, error)
	AddMember(ctx context.Context, caller service.Caller, req *request.AddProjectMemberRequest) (*response.AddProjectMemberResponse, error)
}

type ProjectHandler struct {
	svc ProjectService
	log *zap.Logger
}

func NewProjectHandler(svc ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		svc: svc,
		log: log,
	}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	h.log.Info("createProject request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель CreateProjectRequest
	var req request.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.OrganizationId == "" || req.Name == "" {
		h.log.Warn("validation failed: required field is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Create(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to create project",
			zap.String("org_id", req.OrganizationId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("project created successfully",
		zap.String("project_id", resp.Project.ProjectId),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
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
	resp, err := h.svc.List(r.Context(), caller, &request.ListProjectsRequest{
		OrganizationId: orgId,
	})
	if err != nil {
		h.log.Error("failed to list projects",
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

func (h *ProjectHandler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	h.log.Info("archiveProject request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель ArchiveProjectRequest
	var req request.ArchiveProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.ProjectId == "" {
		h.log.Warn("validation failed: project_id is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Archive(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to archive project",
			zap.String("project_id", req.ProjectId),
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

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	h.log.Info("addProjectMember request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель AddProjectMemberRequest
	var req request.AddProjectMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.ProjectId == "" || req.UserId == "" {
		h.log.Warn("validation failed: required field is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.AddMember(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to add project member",
			zap.String("project_id", req.ProjectId),
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
