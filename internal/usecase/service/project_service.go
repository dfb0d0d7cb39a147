package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronetask/backend/internal/domain"
	"github.com/chronetask/backend/internal/infrastructure/models/dto"
	"github.com/chronetask/backend/internal/infrastructure/repository"
	"github.com/chronetask/backend/internal/transport/dto/request"
	"github.com/chronetask/backend/internal/transport/dto/response"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	createProjectError    = errors.New("create project error")
	listProjectsError     = errors.New("list projects error")
	archiveProjectError   = errors.New("archive project error")
	addProjectMemberError = errors.New("add project member error")
)

// Интерфейс репозитория
type ProjectRepository interface {
	Create(ctx context.Context, d *dto.CreateProjectDTO) (*domain.Project, error)
	ListByOrg(ctx context.Context, orgId string) ([]*domain.Project, error)
	Archive(ctx context.Context, d *dto.ArchiveProjectDTO) (*domain.Project, error)
	OrgId(ctx context.Context, projectId string) (string, error)
	AddMember(ctx context.Context, d *dto.AddProjectMemberDTO) (*domain.ProjectMember, error)
}

type ProjectService struct {
	repo  ProjectRepository
	roles RoleResolver
	log   *zap.Logger
}

func NewProjectService(repo ProjectRepository, roles RoleResolver, log *zap.Logger) *ProjectService {
	return &ProjectService{
		repo:  repo,
		roles: roles,
		log:   log,
	}
}

func (s *ProjectService) Create(ctx context.Context, caller Caller, req *request.CreateProjectRequest) (*response.CreateProjectResponse, error) {
	s.log.Info("createProject request accepted",
		zap.String("org_id", req.OrganizationId),
		zap.String("name", req.Name),
	)

	// Проверяем корректность идентификатора
	orgId, err := normalizeID(req.OrganizationId, "organization_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// SLA либо отсутствует, либо положительный
	if req.SlaHours != nil && *req.SlaHours <= 0 {
		return nil, WrapError(ErrInvalidInput, fmt.Errorf("sla_hours must be positive"))
	}

	// Создавать проекты могут org_admin и pm
	role, err := callerRole(ctx, s.roles, orgId, caller.Id)
	if err != nil {
		return nil, err
	}
	if !role.CanManageProjects() {
		return nil, WrapError(ErrRoleForbidden, nil)
	}

	// Собираем dto
	d := &dto.CreateProjectDTO{
		ProjectId: uuid.NewString(),
		OrgId:     orgId,
		Name:      req.Name,
		SlaHours:  req.SlaHours,
	}

	// Запрос в бд
	project, err := s.repo.Create(ctx, d)
	if err != nil {
		s.log.Error("failed to create project",
			zap.String("org_id", orgId),
			zap.Error(err),
		)

		// Маппим ошибки
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}
		return nil, fmt.Errorf(`%w: %w`, createProjectError, err)
	}

	s.log.Info("project created",
		zap.String("project_id", project.Id),
		zap.String("org_id", project.OrgId),
	)

	// Ответ
	return &response.CreateProjectResponse{
		Project: toProject(project),
	}, nil
}

func (s *ProjectService) List(ctx context.Context, caller Caller, req *request.ListProjectsRequest) (*response.ListProjectsResponse, error) {
	// Проверяем корректность идентификатора
	orgId, err := normalizeID(req.OrganizationId, "organization_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Доступ только для участников организации
	if _, err := callerRole(ctx, s.roles, orgId, caller.Id); err != nil {
		return nil, err
	}

	// Запрос в бд
	projects, err := s.repo.ListByOrg(ctx, orgId)
	if err != nil {
		s.log.Error("failed to list projects",
			zap.String("org_id", orgId),
			zap.Error(err),
		)
		return nil, fmt.Errorf(`%w: %w`, listProjectsError, err)
	}

	// Ответ
	out := make([]response.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProject(p))
	}
	return &response.ListProjectsResponse{Projects: out}, nil
}

func (s *ProjectService) Archive(ctx context.Context, caller Caller, req *request.ArchiveProjectRequest) (*response.ArchiveProjectResponse, error) {
	s.log.Info("archiveProject request accepted",
		zap.String("project_id", req.ProjectId),
	)

	// Проверяем корректность идентификатора
	projectId, err := normalizeID(req.ProjectId, "project_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Находим организацию проекта для проверки роли
	orgId, err := s.repo.OrgId(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrProjectNotFound, err)
		}
		return nil, fmt.Errorf(`%w: %w`, archiveProjectError, err)
	}

	role, err := callerRole(ctx, s.roles, orgId, caller.Id)
	if err != nil {
		return nil, err
	}
	if !role.CanManageProjects() {
		return nil, WrapError(ErrRoleForbidden, nil)
	}

	// Запрос в бд, повторная архивация вернет NOT_FOUND
	project, err := s.repo.Archive(ctx, &dto.ArchiveProjectDTO{ProjectId: projectId})
	if err != nil {
		s.log.Error("failed to archive project",
			zap.String("project_id", projectId),
			zap.Error(err),
		)

		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrProjectNotFound, err)
		}
		return nil, fmt.Errorf(`%w: %w`, archiveProjectError, err)
	}

	s.log.Info("project archived", zap.String("project_id", project.Id))

	// Ответ
	return &response.ArchiveProjectResponse{
		Project: toProject(project),
	}, nil
}

func (s *ProjectService) AddMember(ctx context.Context, caller Caller, req *request.AddProjectMemberRequest) (*response.AddProjectMemberResponse, error) {
	s.log.Info("addProjectMember request accepted",
		zap.String("project_id", req.ProjectId),
		zap.String("user_id", req.UserId),
	)

	// Проверяем корректность идентификаторов
	projectId, err := normalizeID(req.ProjectId, "project_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}
	userId, err := normalizeID(req.UserId, "user_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Находим организацию проекта
	orgId, err := s.repo.OrgId(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrProjectNotFound, err)
		}
		return nil, fmt.Errorf(`%w: %w`, addProjectMemberError, err)
	}

	role, err := callerRole(ctx, s.roles, orgId, caller.Id)
	if err != nil {
		return nil, err
	}
	if !role.CanManageProjects() {
		return nil, WrapError(ErrRoleForbidden, nil)
	}

	// Добавляемый пользователь должен состоять в организации
	if _, err := s.roles.MemberRole(ctx, orgId, userId); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrUserNotFound, err)
		}
		return nil, fmt.Errorf(`%w: %w`, addProjectMemberError, err)
	}

	// Запрос в бд
	member, err := s.repo.AddMember(ctx, &dto.AddProjectMemberDTO{
		ProjectId: projectId,
		UserId:    userId,
	})
	if err != nil {
		s.log.Error("failed to add project member",
			zap.String("project_id", projectId),
			zap.String("user_id", userId),
			zap.Error(err),
		)

		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrUserNotFound, err)
		}
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}
		return nil, fmt.Errorf(`%w: %w`, addProjectMemberError, err)
	}

	// Ответ
	return &response.AddProjectMemberResponse{
		ProjectId: member.ProjectId,
		UserId:    member.UserId,
		Username:  member.Name,
		AvatarUrl: member.AvatarUrl,
	}, nil
}

// вспомогательная функция преобразования проекта в формат ответа
func toProject(p *domain.Project) response.Project {
	return response.Project{
		ProjectId:      p.Id,
		OrganizationId: p.OrgId,
		Name:           p.Name,
		SlaHours:       p.SlaHours,
		IsActive:       p.IsActive,
	}
}
