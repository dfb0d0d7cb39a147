package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronetask/backend/internal/domain"
	"github.com/chronetask/backend/internal/infrastructure/models/dto"
	"github.com/chronetask/backend/internal/infrastructure/models/result"
	"github.com/chronetask/backend/internal/infrastructure/repository"
	"github.com/chronetask/backend/internal/transport/dto/request"
	"github.com/chronetask/backend/internal/transport/dto/response"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	createTaskError   = errors.New("create task error")
	setStatusError    = errors.New("set task status error")
	assignTaskError   = errors.New("assign task error")
	listTasksError    = errors.New("list tasks error")
	addCommentError   = errors.New("add comment error")
	listCommentsError = errors.New("list comments error")
	logTimeError      = errors.New("log time error")
)

// Интерфейс репозитория
type TaskRepository interface {
	Create(ctx context.Context, d *dto.CreateTaskDTO) (*domain.Task, error)
	SetStatus(ctx context.Context, d *dto.SetTaskStatusDTO) (*domain.Task, error)
	Assign(ctx context.Context, d *dto.AssignTaskDTO) (*domain.Task, error)
	ListByProject(ctx context.Context, projectId string) ([]*domain.Task, error)
	Get(ctx context.Context, taskId string) (*domain.Task, error)
	TaskOrg(ctx context.Context, taskId string) (string, error)
	ProjectOrg(ctx context.Context, projectId string) (string, error)
	AddComment(ctx context.Context, d *dto.AddCommentDTO) (*domain.Comment, error)
	ListComments(ctx context.Context, taskId string) ([]*domain.Comment, error)
	LogTime(ctx context.Context, d *dto.LogTimeDTO) (*result.LogTimeResult, error)
}

type TaskService struct {
	repo  TaskRepository
	roles RoleResolver
	log   *zap.Logger
}

func NewTaskService(repo TaskRepository, roles RoleResolver, log *zap.Logger) *TaskService {
	return &TaskService{
		repo:  repo,
		roles: roles,
		log:   log,
	}
}

func (s *TaskService) Create(ctx context.Context, caller Caller, req *request.CreateTaskRequest) (*response.CreateTaskResponse, error) {
	s.log.Info("createTask request accepted",
		zap.String("project_id", req.ProjectId),
		zap.String("caller_id", caller.Id),
	)

	// Проверяем корректность идентификаторов
	projectId, err := normalizeID(req.ProjectId, "project_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	var assignedTo *string
	if req.AssignedToId != nil {
		assigneeId, err := normalizeID(*req.AssignedToId, "assigned_to")
		if err != nil {
			return nil, WrapError(ErrInvalidInput, err)
		}
		assignedTo = &assigneeId
	}

	// Право на изменение задач в организации проекта
	if err := s.requireTaskEditor(ctx, caller, s.repo.ProjectOrg, projectId, ErrProjectNotFound); err != nil {
		return nil, err
	}

	// Собираем dto
	d := &dto.CreateTaskDTO{
		TaskId:       uuid.NewString(),
		ProjectId:    projectId,
		Title:        req.Title,
		Description:  req.Description,
		AssignedToId: assignedTo,
		DueDate:      req.DueDate,
	}

	// Запрос в бд
	task, err := s.repo.Create(ctx, d)
	if err != nil {
		s.log.Error("failed to create task",
			zap.String("project_id", projectId),
			zap.Error(err),
		)

		// Маппим ошибки
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}
		return nil, fmt.Errorf(`%w: %w`, createTaskError, err)
	}

	s.log.Info("task created",
		zap.String("task_id", task.Id),
		zap.String("project_id", task.ProjectId),
	)

	// Ответ
	return &response.CreateTaskResponse{Task: toTask(task)}, nil
}

func (s *TaskService) SetStatus(ctx context.Context, caller Caller, req *request.SetTaskStatusRequest) (*response.SetTaskStatusResponse, error) {
	s.log.Info("setTaskStatus request accepted",
		zap.String("task_id", req.TaskId),
		zap.String("status", req.Status),
	)

	// Проверяем корректность идентификатора
	taskId, err := normalizeID(req.TaskId, "task_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Статус из закрытого множества
	status := domain.TaskStatus(req.Status)
	if !status.IsValid() {
		return nil, WrapError(ErrInvalidInput, fmt.Errorf("unknown status %q", req.Status))
	}

	if err := s.requireTaskEditor(ctx, caller, s.repo.TaskOrg, taskId, ErrTaskNotFound); err != nil {
		return nil, err
	}

	// Перевод в Done запрещен без исполнителя
	if status == domain.StatusDone {
		task, err := s.repo.Get(ctx, taskId)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, WrapError(ErrTaskNotFound, err)
			}
			return nil, fmt.Errorf(`%w: %w`, setStatusError, err)
		}
		if task.AssignedToId == nil {
			return nil, WrapError(ErrNoAssignee, nil)
		}
	}

	// Запрос в бд
	task, err := s.repo.SetStatus(ctx, &dto.SetTaskStatusDTO{
		TaskId: taskId,
		Status: status,
	})
	if err != nil {
		s.log.Error("failed to set task status",
			zap.String("task_id", taskId),
			zap.Error(err),
		)

		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrTaskNotFound, err)
		}
		return nil, fmt.Errorf(`%w: %w`, setStatusError, err)
	}

	s.log.Info("task status updated",
		zap.String("task_id", task.Id),
		zap.String("status", string(task.Status)),
	)

	// Ответ
	return &response.SetTaskStatusResponse{Task: toTask(task)}, nil
}

func (s *TaskService) Assign(ctx context.Context, caller Caller, req *request.AssignTaskRequest) (*response.AssignTaskResponse, error) {
	// Проверяем корректность идентификаторов
	taskId, err := normalizeID(req.TaskId, "task_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	var assigneeId *string
	if req.AssigneeId != nil {
		id, err := normalizeID(*req.AssigneeId, "assignee_id")
		if err != nil {
			return nil, WrapError(ErrInvalidInput, err)
		}
		assigneeId = &id
	}

	if err := s.requireTaskEditor(ctx, caller, s.repo.TaskOrg, taskId, ErrTaskNotFound); err != nil {
		return nil, err
	}

	// Запрос в бд, nil снимает исполнителя
	task, err := s.repo.Assign(ctx, &dto.AssignTaskDTO{
		TaskId:     taskId,
		AssigneeId: assigneeId,
	})
	if err != nil {
		s.log.Error("failed to assign task",
			zap.String("task_id", taskId),
			zap.Error(err),
		)

		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrTaskNotFound, err)
		}
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}
		return nil, fmt.Errorf(`%w: %w`, assignTaskError, err)
	}

	// Ответ
	return &response.AssignTaskResponse{Task: toTask(task)}, nil
}

func (s *TaskService) List(ctx context.Context, caller Caller, req *request.ListTasksRequest) (*response.ListTasksResponse, error) {
	// Проверяем корректность идентификатора
	projectId, err := normalizeID(req.ProjectId, "project_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Просмотр доступен любому участнику организации
	orgId, err := s.repo.ProjectOrg(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrProjectNotFound, err)
		}
		return nil, fmt.Errorf(`%w: %w`, listTasksError, err)
	}
	if _, err := callerRole(ctx, s.roles, orgId, caller.Id); err != nil {
		return nil, err
	}

	// Запрос в бд
	tasks, err := s.repo.ListByProject(ctx, projectId)
	if err != nil {
		s.log.Error("failed to list tasks",
			zap.String("project_id", projectId),
			zap.Error(err),
		)
		return nil, fmt.Errorf(`%w: %w`, listTasksError, err)
	}

	// Ответ
	out := make([]response.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTask(t))
	}
	return &response.ListTasksResponse{Tasks: out}, nil
}

func (s *TaskService) AddComment(ctx context.Context, caller Caller, req *request.AddCommentRequest) (*response.AddCommentResponse, error) {
	// Проверяем корректность идентификатора
	taskId, err := normalizeID(req.TaskId, "task_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	if err := s.requireTaskEditor(ctx, caller, s.repo.TaskOrg, taskId, ErrTaskNotFound); err != nil {
		return nil, err
	}

	// Собираем dto
	d := &dto.AddCommentDTO{
		CommentId: uuid.NewString(),
		TaskId:    taskId,
		AuthorId:  caller.Id,
		Body:      req.Body,
	}

	// Запрос в бд
	comment, err := s.repo.AddComment(ctx, d)
	if err != nil {
		s.log.Error("failed to add comment",
			zap.String("task_id", taskId),
			zap.Error(err),
		)

		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrTaskNotFound, err)
		}
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}
		return nil, fmt.Errorf(`%w: %w`, addCommentError, err)
	}

	// Ответ
	return &response.AddCommentResponse{Comment: toComment(comment)}, nil
}

func (s *TaskService) ListComments(ctx context.Context, caller Caller, req *request.ListCommentsRequest) (*response.ListCommentsResponse, error) {
	// Проверяем корректность идентификатора
	taskId, err := normalizeID(req.TaskId, "task_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Просмотр доступен любому участнику организации
	orgId, err := s.repo.TaskOrg(ctx, taskId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrTaskNotFound, err)
		}
		return nil, fmt.Errorf(`%w: %w`, listCommentsError, err)
	}
	if _, err := callerRole(ctx, s.roles, orgId, caller.Id); err != nil {
		return nil, err
	}

	// Запрос в бд
	comments, err := s.repo.ListComments(ctx, taskId)
	if err != nil {
		s.log.Error("failed to list comments",
			zap.String("task_id", taskId),
			zap.Error(err),
		)
		return nil, fmt.Errorf(`%w: %w`, listCommentsError, err)
	}

	// Ответ
	out := make([]response.Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, toComment(c))
	}
	return &response.ListCommentsResponse{Comments: out}, nil
}

func (s *TaskService) LogTime(ctx context.Context, caller Caller, req *request.LogTimeRequest) (*response.LogTimeResponse, error) {
	s.log.Info("logTime request accepted",
		zap.String("task_id", req.TaskId),
		zap.Int("minutes", req.Minutes),
	)

	// Проверяем корректность идентификатора
	taskId, err := normalizeID(req.TaskId, "task_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Трекать можно только положительное число минут
	if req.Minutes <= 0 {
		return nil, WrapError(ErrInvalidInput, fmt.Errorf("minutes must be positive"))
	}

	if err := s.requireTaskEditor(ctx, caller, s.repo.TaskOrg, taskId, ErrTaskNotFound); err != nil {
		return nil, err
	}

	// Собираем dto
	d := &dto.LogTimeDTO{
		EntryId: uuid.NewString(),
		TaskId:  taskId,
		UserId:  caller.Id,
		Minutes: req.Minutes,
	}

	// Запрос в бд
	res, err := s.repo.LogTime(ctx, d)
	if err != nil {
		s.log.Error("failed to log time",
			zap.String("task_id", taskId),
			zap.Error(err),
		)

		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrTaskNotFound, err)
		}
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}
		return nil, fmt.Errorf(`%w: %w`, logTimeError, err)
	}

	s.log.Info("time logged",
		zap.String("task_id", res.Task.Id),
		zap.Int("tracked_minutes", res.Task.TrackedMinutes),
	)

	// Ответ
	return &response.LogTimeResponse{
		EntryId: res.Entry.Id,
		Minutes: res.Entry.Minutes,
		Task:    toTask(res.Task),
	}, nil
}

// вспомогательная функция: находит организацию по id сущности и
// требует роль с правом изменения задач
func (s *TaskService) requireTaskEditor(
	ctx context.Context,
	caller Caller,
	orgLookup func(ctx context.Context, id string) (string, error),
	id string,
	notFound *DomainError,
) error {
	orgId, err := orgLookup(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return WrapError(notFound, err)
		}
		return err
	}

	role, err := callerRole(ctx, s.roles, orgId, caller.Id)
	if err != nil {
		return err
	}
	if !role.CanEditTasks() {
		return WrapError(ErrRoleForbidden, nil)
	}
	return nil
}

// вспомогательные функции преобразования в формат ответа
func toTask(t *domain.Task) response.Task {
	return response.Task{
		TaskId:         t.Id,
		ProjectId:      t.ProjectId,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		AssignedToId:   t.AssignedToId,
		DueDate:        t.DueDate,
		TrackedMinutes: t.TrackedMinutes,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func toComment(c *domain.Comment) response.Comment {
	return response.Comment{
		CommentId: c.Id,
		TaskId:    c.TaskId,
		AuthorId:  c.AuthorId,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
