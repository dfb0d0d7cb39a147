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
	createOrgError = errors.New("create organization error")
	getOrgError    = errors.New("get organization error")
	addMemberError = errors.New("add organization member error")
)

// Интерфейс репозитория
type OrganizationRepository interface {
	Create(ctx context.Context, d *dto.CreateOrgDTO) (*result.OrgResult, error)
	Get(ctx context.Context, d *dto.GetOrgDTO) (*result.OrgResult, error)
	AddMember(ctx context.Context, d *dto.AddOrgMemberDTO) (*domain.OrgMember, error)
	MemberRole(ctx context.Context, orgId, userId string) (domain.Role, error)
}

type OrganizationService struct {
	repo OrganizationRepository
	log  *zap.Logger
}

func NewOrganizationService(repo OrganizationRepository, log *zap.Logger) *OrganizationService {
	return &OrganizationService{
		repo: repo,
		log:  log,
	}
}

func (s *OrganizationService) Create(ctx context.Context, caller Caller, req *request.CreateOrgRequest) (*response.CreateOrgResponse, error) {
	s.log.Info("createOrganization request accepted",
		zap.String("caller_id", caller.Id),
		zap.String("name", req.Name),
	)

	// Собираем dto, идентификатор генерируем на сервере
	d := &dto.CreateOrgDTO{
		OrgId:       uuid.NewString(),
		Name:        req.Name,
		CreatorId:   caller.Id,
		CreatorName: caller.Name,
	}

	// Запрос в бд
	res, err := s.repo.Create(ctx, d)
	if err != nil {
		s.log.Error("failed to create organization",
			zap.String("name", req.Name),
			zap.Error(err),
		)

		// Маппим ошибки
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, WrapError(ErrOrgExists, err)
		}
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf(`%w: %w`, createOrgError, err)
	}

	s.log.Info("organization created",
		zap.String("org_id", res.Id),
		zap.String("name", res.Name),
	)

	// Ответ
	return &response.CreateOrgResponse{
		OrganizationId: res.Id,
		Name:           res.Name,
		Members:        toOrgMembers(res.Members),
	}, nil
}

func (s *OrganizationService) Get(ctx context.Context, caller Caller, req *request.GetOrgRequest) (*response.GetOrgResponse, error) {
	// Проверяем корректность идентификатора
	orgId, err := normalizeID(req.OrganizationId, "organization_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Доступ только для участников организации
	if _, err := callerRole(ctx, s.repo, orgId, caller.Id); err != nil {
		return nil, err
	}

	// Запрос в бд
	res, err := s.repo.Get(ctx, &dto.GetOrgDTO{OrgId: orgId})
	if err != nil {
		s.log.Error("failed to get organization",
			zap.String("org_id", orgId),
			zap.Error(err),
		)

		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrOrgNotFound, err)
		}
		return nil, fmt.Errorf(`%w: %w`, getOrgError, err)
	}

	// Ответ
	return &response.GetOrgResponse{
		OrganizationId: res.Id,
		Name:           res.Name,
		Members:        toOrgMembers(res.Members),
	}, nil
}

func (s *OrganizationService) AddMember(ctx context.Context, caller Caller, req *request.AddOrgMemberRequest) (*response.AddOrgMemberResponse, error) {
	s.log.Info("addMember request accepted",
		zap.String("org_id", req.OrganizationId),
		zap.String("user_id", req.UserId),
		zap.String("role", req.Role),
	)

	// Проверяем корректность идентификаторов
	orgId, err := normalizeID(req.OrganizationId, "organization_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}
	userId, err := normalizeID(req.UserId, "user_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Роль из закрытого множества
	role := domain.Role(req.Role)
	if !role.IsValid() {
		return nil, WrapError(ErrInvalidInput, fmt.Errorf("unknown role %q", req.Role))
	}

	// Управлять участниками может только администратор организации
	cRole, err := callerRole(ctx, s.repo, orgId, caller.Id)
	if err != nil {
		return nil, err
	}
	if cRole != domain.RoleOrgAdmin {
		return nil, WrapError(ErrRoleForbidden, nil)
	}

	// Собираем dto
	d := &dto.AddOrgMemberDTO{
		OrgId:     orgId,
		UserId:    userId,
		UserName:  req.Username,
		AvatarUrl: req.AvatarUrl,
		Role:      role,
	}

	// Запрос в бд
	member, err := s.repo.AddMember(ctx, d)
	if err != nil {
		s.log.Error("failed to add organization member",
			zap.String("org_id", orgId),
			zap.String("user_id", userId),
			zap.Error(err),
		)

		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrOrgNotFound, err)
		}
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}
		return nil, fmt.Errorf(`%w: %w`, addMemberError, err)
	}

	s.log.Info("organization member added",
		zap.String("org_id", member.OrgId),
		zap.String("user_id", member.UserId),
		zap.String("role", string(member.Role)),
	)

	// Ответ
	return &response.AddOrgMemberResponse{
		OrganizationId: member.OrgId,
		Member: response.OrgMember{
			UserId:   member.UserId,
			Username: member.Name,
			Role:     string(member.Role),
			JoinedAt: member.JoinedAt,
		},
	}, nil
}

// вспомогательная функция преобразования участников в формат ответа
func toOrgMembers(members []*domain.OrgMember) []response.OrgMember {
	out := make([]response.OrgMember, 0, len(members))
	for _, m := range members {
		out = append(out, response.OrgMember{
			UserId:   m.UserId,
			Username: m.Name,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}
	return out
}
