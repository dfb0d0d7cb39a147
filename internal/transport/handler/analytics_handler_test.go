package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chronetask/backend/internal/transport/dto/request"
	"github.com/chronetask/backend/internal/transport/dto/response"
	"github.com/chronetask/backend/internal/transport/middleware"
	"github.com/chronetask/backend/internal/usecase/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetAnalytics(ctx context.Context, caller service.Caller, req *request.AnalyticsRequest) (*response.AnalyticsResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.AnalyticsResponse), args.Error(1)
}

const (
	handlerOrgId    = "7b9f0f8e-1c2d-4a5b-8e9f-0a1b2c3d4e5f"
	handlerCallerId = "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0"
)

func analyticsRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	ctx := middleware.WithCaller(r.Context(), middleware.CallerIdentity{
		UserId: handlerCallerId,
		Name:   "tester",
	})
	return r.WithContext(ctx)
}

func emptyReport() *response.AnalyticsResponse {
	return &response.AnalyticsResponse{
		MemberActivities:      []response.MemberActivity{},
		ProjectsWithBlockages: []response.ProjectBlocked{},
		TasksDueSoon:          []response.TaskDueSoon{},
		InactiveMembers:       []response.MemberInactivity{},
	}
}

func TestGetAnalyticsHandler_Success(t *testing.T) {
	svc := new(MockAnalyticsService)
	h := NewAnalyticsHandler(svc, zap.NewNop())

	report := emptyReport()
	report.TotalTasks = 3
	report.CompletedTasks = 1
	report.PendingTasks = 2

	svc.On("GetAnalytics", mock.Anything,
		service.Caller{Id: handlerCallerId, Name: "tester"},
		mock.MatchedBy(func(req *request.AnalyticsRequest) bool {
			return req.OrganizationId == handlerOrgId &&
				req.ProjectId == nil && req.MemberId == nil &&
				req.StartDate == nil && req.EndDate == nil
		})).Return(report, nil)

	w := httptest.NewRecorder()
	h.GetAnalytics(w, analyticsRequest(t, "/analytics?organization_id="+handlerOrgId))

	require.Equal(t, http.StatusOK, w.Code)

	var got response.AnalyticsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3, got.TotalTasks)

	// Пустые списки сериализуются как [], не null
	assert.Contains(t, w.Body.String(), `"memberActivities":[]`)
	assert.Contains(t, w.Body.String(), `"inactiveMembers":[]`)
	svc.AssertExpectations(t)
}

func TestGetAnalyticsHandler_QueryFilters(t *testing.T) {
	svc := new(MockAnalyticsService)
	h := NewAnalyticsHandler(svc, zap.NewNop())

	wantStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 5, 31, 10, 30, 0, 0, time.UTC)

	svc.On("GetAnalytics", mock.Anything, mock.Anything,
		mock.MatchedBy(func(req *request.AnalyticsRequest) bool {
			return req.ProjectId != nil && *req.ProjectId == "p1" &&
				req.MemberId != nil && *req.MemberId == "m1" &&
				req.StartDate != nil && req.StartDate.Equal(wantStart) &&
				req.EndDate != nil && req.EndDate.Equal(wantEnd)
		})).Return(emptyReport(), nil)

	target := "/analytics?organization_id=" + handlerOrgId +
		"&project_id=p1&member_id=m1" +
		"&start_date=2024-05-01&end_date=2024-05-31T10%3A30%3A00Z"

	w := httptest.NewRecorder()
	h.GetAnalytics(w, analyticsRequest(t, target))

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestGetAnalyticsHandler_MissingOrgId(t *testing.T) {
	svc := new(MockAnalyticsService)
	h := NewAnalyticsHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.GetAnalytics(w, analyticsRequest(t, "/analytics"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	svc.AssertNotCalled(t, "GetAnalytics", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAnalyticsHandler_BadDate(t *testing.T) {
	svc := new(MockAnalyticsService)
	h := NewAnalyticsHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.GetAnalytics(w, analyticsRequest(t, "/analytics?organization_id="+handlerOrgId+"&start_date=yesterday"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestGetAnalyticsHandler_Forbidden(t *testing.T) {
	svc := new(MockAnalyticsService)
	h := NewAnalyticsHandler(svc, zap.NewNop())

	svc.On("GetAnalytics", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, service.ErrNotOrgMember)

	w := httptest.NewRecorder()
	h.GetAnalytics(w, analyticsRequest(t, "/analytics?organization_id="+handlerOrgId))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestGetAnalyticsHandler_NoIdentity(t *testing.T) {
	svc := new(MockAnalyticsService)
	h := NewAnalyticsHandler(svc, zap.NewNop())

	// Запрос без идентичности в контексте
	r := httptest.NewRequest(http.MethodGet, "/analytics?organization_id="+handlerOrgId, nil)
	w := httptest.NewRecorder()
	h.GetAnalytics(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetAnalytics", mock.Anything, mock.Anything, mock.Anything)
}
