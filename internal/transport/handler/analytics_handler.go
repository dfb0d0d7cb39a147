package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/chronetask/backend/internal/transport/dto/request"
	"github.com/chronetask/backend/internal/transport/dto/response"
	"github.com/chronetask/backend/internal/usecase/service"
	"go.uber.org/zap"
)

type AnalyticsService interface {
	GetAnalytics(ctx context.Context, caller service.Caller, req *request.AnalyticsRequest) (*response.AnalyticsResponse, error)
}

type AnalyticsHandler struct {
	svc AnalyticsService
	log *zap.Logger
}

func NewAnalyticsHandler(svc AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc: svc,
		log: log,
	}
}

func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	h.log.Info("analytics request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	// Собираем запрос из query параметров
	query := r.URL.Query()

	orgId := query.Get("organization_id")
	if orgId == "" {
		h.log.Warn("validation failed: organization_id query parameter is empty")
		statusCode, errResp := HandleError(service.ErrInvalidInput)
		WriteError(w, statusCode, errResp)
		return
	}

	req := &request.AnalyticsRequest{
		OrganizationId: orgId,
	}

	if v := query.Get("project_id"); v != "" {
		req.ProjectId = &v
	}
	if v := query.Get("member_id"); v != "" {
		req.MemberId = &v
	}

	// Даты в RFC3339 или YYYY-MM-DD, некорректные - ошибка валидации
	if v := query.Get("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			h.log.Warn("validation failed: bad start_date", zap.String("start_date", v))
			statusCode, errResp := HandleError(service.ErrInvalidInput)
			WriteError(w, statusCode, errResp)
			return
		}
		req.StartDate = &t
	}
	if v := query.Get("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			h.log.Warn("validation failed: bad end_date", zap.String("end_date", v))
			statusCode, errResp := HandleError(service.ErrInvalidInput)
			WriteError(w, statusCode, errResp)
			return
		}
		req.EndDate = &t
	}

	// Вызов сервиса
	resp, err := h.svc.GetAnalytics(r.Context(), caller, req)
	if err != nil {
		h.log.Error("failed to compute analytics",
			zap.String("org_id", orgId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("analytics computed successfully",
		zap.String("org_id", orgId),
		zap.Int("total_tasks", resp.TotalTasks),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// вспомогательная функция парсинга дат из query параметров
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
