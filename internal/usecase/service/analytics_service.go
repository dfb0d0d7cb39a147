package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chronetask/backend/internal/domain"
	"github.com/chronetask/backend/internal/transport/dto/request"
	"github.com/chronetask/backend/internal/transport/dto/response"
	"go.uber.org/zap"
)

var analyticsError = errors.New("compute analytics error")

// Окно по умолчанию, если даты не заданы
const defaultAnalyticsWindow = 30 * 24 * time.Hour

// Интерфейс репозитория
type AnalyticsRepository interface {
	ListActiveProjectIDs(ctx context.Context, orgId string) ([]string, error)
	ListTasks(ctx context.Context, projectIds []string, from, to time.Time, assigneeId *string) ([]*domain.TaskSnapshot, error)
	ListProjectMembers(ctx context.Context, projectIds []string) ([]*domain.ProjectMember, error)
}

type AnalyticsService struct {
	repo  AnalyticsRepository
	roles RoleResolver
	log   *zap.Logger

	// время инжектируется для тестируемости, все относительные
	// вычисления считаются от одного значения now на запрос
	now func() time.Time
}

func NewAnalyticsService(repo AnalyticsRepository, roles RoleResolver, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:  repo,
		roles: roles,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *AnalyticsService) GetAnalytics(ctx context.Context, caller Caller, req *request.AnalyticsRequest) (*response.AnalyticsResponse, error) {
	s.log.Info("analytics request accepted",
		zap.String("org_id", req.OrganizationId),
		zap.String("caller_id", caller.Id),
	)

	// Проверяем корректность идентификаторов
	orgId, err := normalizeID(req.OrganizationId, "organization_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	var projectFilter *string
	if req.ProjectId != nil {
		id, err := normalizeID(*req.ProjectId, "project_id")
		if err != nil {
			return nil, WrapError(ErrInvalidInput, err)
		}
		projectFilter = &id
	}

	var memberFilter *string
	if req.MemberId != nil {
		id, err := normalizeID(*req.MemberId, "member_id")
		if err != nil {
			return nil, WrapError(ErrInvalidInput, err)
		}
		memberFilter = &id
	}

	// Доступ только для участников организации
	if _, err := callerRole(ctx, s.roles, orgId, caller.Id); err != nil {
		return nil, err
	}

	now := s.now()

	// Окно по дате создания, по умолчанию последние 30 дней.
	// start > end не ошибка, просто пустое окно
	start := now.Add(-defaultAnalyticsWindow)
	end := now
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}

	// Область видимости: активные проекты организации,
	// при фильтре пересекаем с ним (нет в множестве - пустая область)
	projectIds, err := s.repo.ListActiveProjectIDs(ctx, orgId)
	if err != nil {
		return nil, fmt.Errorf(`%w: %w`, analyticsError, err)
	}
	if projectFilter != nil {
		projectIds = intersectProjectId(projectIds, *projectFilter)
	}

	// Снапшот задач: фильтры по проектам, окну создания и исполнителю
	tasks, err := s.repo.ListTasks(ctx, projectIds, start, end, memberFilter)
	if err != nil {
		return nil, fmt.Errorf(`%w: %w`, analyticsError, err)
	}

	// Участники проектов области видимости, фильтр по member_id
	// на них намеренно не действует
	members, err := s.repo.ListProjectMembers(ctx, projectIds)
	if err != nil {
		return nil, fmt.Errorf(`%w: %w`, analyticsError, err)
	}

	report := buildReport(now, tasks, members)

	s.log.Info("analytics computed",
		zap.String("org_id", orgId),
		zap.Int("projects", len(projectIds)),
		zap.Int("total_tasks", report.TotalTasks),
		zap.Int("inactive_members", len(report.InactiveMembers)),
	)

	// Ответ
	return report, nil
}

// вспомогательная функция пересечения области видимости с фильтром проекта
func intersectProjectId(ids []string, projectId string) []string {
	for _, id := range ids {
		if id == projectId {
			return []string{projectId}
		}
	}
	return nil
}
