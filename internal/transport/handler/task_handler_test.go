package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chronetask/backend/internal/transport/dto/request"
	"github.com/chronetask/backend/internal/transport/dto/response"
	"github.com/chronetask/backend/internal/transport/middleware"
	"github.com/chronetask/backend/internal/usecase/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, caller service.Caller, req *request.CreateTaskRequest) (*response.CreateTaskResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.CreateTaskResponse), args.Error(1)
}

func (m *MockTaskService) SetStatus(ctx context.Context, caller service.Caller, req *request.SetTaskStatusRequest) (*response.SetTaskStatusResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.SetTaskStatusResponse), args.Error(1)
}

func (m *MockTaskService) Assign(ctx context.Context, caller service.Caller, req *request.AssignTaskRequest) (*response.AssignTaskResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.AssignTaskResponse), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, caller service.Caller, req *request.ListTasksRequest) (*response.ListTasksResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.ListTasksResponse), args.Error(1)
}

func (m *MockTaskService) AddComment(ctx context.Context, caller service.Caller, req *request.AddCommentRequest) (*response.AddCommentResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.AddCommentResponse), args.Error(1)
}

func (m *MockTaskService) ListComments(ctx context.Context, caller service.Caller, req *request.ListCommentsRequest) (*response.ListCommentsResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.ListCommentsResponse), args.Error(1)
}

func (m *MockTaskService) LogTime(ctx context.Context, caller service.Caller, req *request.LogTimeRequest) (*response.LogTimeResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.LogTimeResponse), args.Error(1)
}

func taskRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithCaller(r.Context(), middleware.CallerIdentity{
		UserId: handlerCallerId,
		Name:   "tester",
	})
	return r.WithContext(ctx)
}

func TestCreateTaskHandler_Success(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, zap.NewNop())

	svc.On("Create", mock.Anything,
		service.Caller{Id: handlerCallerId, Name: "tester"},
		mock.MatchedBy(func(req *request.CreateTaskRequest) bool {
			return req.ProjectId == "p1" && req.Title == "fix login"
		})).Return(&response.CreateTaskResponse{
		Task: response.Task{TaskId: "t1", ProjectId: "p1", Title: "fix login", Status: "To Do"},
	}, nil)

	w := httptest.NewRecorder()
	h.CreateTask(w, taskRequest(t, http.MethodPost, "/task/create",
		`{"project_id":"p1","title":"fix login"}`))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"task_id":"t1"`)
	svc.AssertExpectations(t)
}

func TestCreateTaskHandler_EmptyTitle(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.CreateTask(w, taskRequest(t, http.MethodPost, "/task/create",
		`{"project_id":"p1","title":""}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTaskHandler_BadJson(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.CreateTask(w, taskRequest(t, http.MethodPost, "/task/create", `{not json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetStatusHandler_NoAssigneeConflict(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, zap.NewNop())

	svc.On("SetStatus", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, service.ErrNoAssignee)

	w := httptest.NewRecorder()
	h.SetStatus(w, taskRequest(t, http.MethodPost, "/task/setStatus",
		`{"task_id":"t1","status":"Done"}`))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "NO_ASSIGNEE")
}

func TestAssignHandler_NullAssigneePassesThrough(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, zap.NewNop())

	svc.On("Assign", mock.Anything, mock.Anything,
		mock.MatchedBy(func(req *request.AssignTaskRequest) bool {
			return req.TaskId == "t1" && req.AssigneeId == nil
		})).Return(&response.AssignTaskResponse{
		Task: response.Task{TaskId: "t1", Status: "To Do"},
	}, nil)

	w := httptest.NewRecorder()
	h.AssignTask(w, taskRequest(t, http.MethodPost, "/task/assign",
		`{"task_id":"t1","assignee_id":null}`))

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListTasksHandler_MissingProjectId(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.ListTasks(w, taskRequest(t, http.MethodGet, "/task/list", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogTimeHandler_TaskNotFound(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, zap.NewNop())

	svc.On("LogTime", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, service.ErrTaskNotFound)

	w := httptest.NewRecorder()
	h.LogTime(w, taskRequest(t, http.MethodPost, "/task/logTime",
		`{"task_id":"t1","minutes":30}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}
