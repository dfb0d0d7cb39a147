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

type TaskService interface {
	Create(ctx context.Context, caller service.Caller, req *request.CreateTaskRequest) (*response.CreateTaskResponse, error)
	SetStatus(ctx context.Context, caller service.Caller, req *request.SetTaskStatusRequest) (*response.SetTaskStatusResponse, error)
	Assign(ctx context.Context, caller service.Caller, req *request.AssignTaskRequest) (*response.AssignTaskResponse, error)
	List(ctx context.Context, caller service.Caller, req *request.ListTasksRequest) (*response.ListTasksResponse, error)
	AddComment(ctx context.Context, caller service.Caller, req *request.AddCommentRequest) (*response.AddCommentResponse, error)
	ListComments(ctx context.Context, caller service.Caller, req *request.ListCommentsRequest) (*response.ListCommentsResponse, error)
	LogTime(ctx context.Context, caller service.Caller, req *request.LogTimeRequest) (*response.LogTimeResponse, error)
}

type TaskHandler struct {
	svc TaskService
	log *zap.Logger
}

func NewTaskHandler(svc TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		svc: svc,
		log: log,
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	h.log.Info("createTask request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель CreateTaskRequest
	var req request.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.ProjectId == "" || req.Title == "" {
		h.log.Warn("validation failed: required field is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Create(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to create task",
			zap.String("project_id", req.ProjectId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("task created successfully",
		zap.String("task_id", resp.Task.TaskId),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *TaskHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель SetTaskStatusRequest
	var req request.SetTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.TaskId == "" || req.Status == "" {
		h.log.Warn("validation failed: required field is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.SetStatus(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to set task status",
			zap.String("task_id", req.TaskId),
			zap.String("status", req.Status),
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

func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель AssignTaskRequest
	var req request.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация, assignee_id может быть null - это снятие исполнителя
	if req.TaskId == "" {
		h.log.Warn("validation failed: task_id is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Assign(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to assign task",
			zap.String("task_id", req.TaskId),
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

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Получаем project_id из query параметров
	projectId := r.URL.Query().Get("project_id")
	if projectId == "" {
		h.log.Warn("validation failed: project_id query parameter is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.List(r.Context(), caller, &request.ListTasksRequest{
		ProjectId: projectId,
	})
	if err != nil {
		h.log.Error("failed to list tasks",
			zap.String("project_id", projectId),
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

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель AddCommentRequest
	var req request.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.TaskId == "" || req.Body == "" {
		h.log.Warn("validation failed: required field is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.AddComment(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to add comment",
			zap.String("task_id", req.TaskId),
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

func (h *TaskHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Получаем task_id из query параметров
	taskId := r.URL.Query().Get("task_id")
	if taskId == "" {
		h.log.Warn("validation failed: task_id query parameter is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.ListComments(r.Context(), caller, &request.ListCommentsRequest{
		TaskId: taskId,
	})
	if err != nil {
		h.log.Error("failed to list comments",
			zap.String("task_id", taskId),
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

func (h *TaskHandler) LogTime(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Парсим json в модель LogTimeRequest
	var req request.LogTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.TaskId == "" {
		h.log.Warn("validation failed: task_id is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.LogTime(r.Context(), caller, &req)
	if err != nil {
		h.log.Error("failed to log time",
			zap.String("task_id", req.TaskId),
			zap.Int("minutes", req.Minutes),
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
