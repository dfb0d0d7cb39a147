package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chronetask/backend/internal/domain"
	"github.com/chronetask/backend/internal/infrastructure/models/dto"
	"github.com/chronetask/backend/internal/infrastructure/models/result"
	"github.com/chronetask/backend/internal/infrastructure/repository"
	"github.com/chronetask/backend/internal/transport/dto/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, d *dto.CreateOrgDTO) (*result.OrgResult, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.OrgResult), args.Error(1)
}

func (m *MockOrganizationRepository) Get(ctx context.Context, d *dto.GetOrgDTO) (*result.OrgResult, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.OrgResult), args.Error(1)
}

func (m *MockOrganizationRepository) AddMember(ctx context.Context, d *dto.AddOrgMemberDTO) (*domain.OrgMember, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrgMember), args.Error(1)
}

func (m *MockOrganizationRepository) MemberRole(ctx context.Context, orgId, userId string) (domain.Role, error) {
	args := m.Called(ctx, orgId, userId)
	return args.Get(0).(domain.Role), args.Error(1)
}

func newOrganizationService(repo *MockOrganizationRepository) *OrganizationService {
	return NewOrganizationService(repo, zap.NewNop())
}

func TestOrgCreate_CreatorBecomesAdmin(t *testing.T) {
	repo := new(MockOrganizationRepository)
	s := newOrganizationService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(d *dto.CreateOrgDTO) bool {
		return d.Name == "acme" && d.CreatorId == testCallerId && d.OrgId != ""
	})).Return(&result.OrgResult{
		Id:   testOrgId,
		Name: "acme",
		Members: []*domain.OrgMember{
			{OrgId: testOrgId, UserId: testCallerId, Name: "tester", Role: domain.RoleOrgAdmin, JoinedAt: time.Now().UTC()},
		},
	}, nil)

	resp, err := s.Create(context.Background(), testCaller, &request.CreateOrgRequest{Name: "acme"})

	require.NoError(t, err)
	assert.Equal(t, testOrgId, resp.OrganizationId)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, testCallerId, resp.Members[0].UserId)
	assert.Equal(t, "org_admin", resp.Members[0].Role)
	repo.AssertExpectations(t)
}

func TestOrgCreate_DuplicateName(t *testing.T) {
	repo := new(MockOrganizationRepository)
	s := newOrganizationService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrAlreadyExists)

	_, err := s.Create(context.Background(), testCaller, &request.CreateOrgRequest{Name: "acme"})

	require.Error(t, err)
	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ORG_EXISTS", domainErr.Code)
}

func TestOrgGet_RequiresMembership(t *testing.T) {
	repo := new(MockOrganizationRepository)
	s := newOrganizationService(repo)

	repo.On("MemberRole", mock.Anything, testOrgId, testCallerId).
		Return(domain.Role(""), repository.ErrNotFound)

	_, err := s.Get(context.Background(), testCaller, &request.GetOrgRequest{OrganizationId: testOrgId})

	require.Error(t, err)
	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestOrgAddMember_RequiresOrgAdmin(t *testing.T) {
	repo := new(MockOrganizationRepository)
	s := newOrganizationService(repo)

	// pm может управлять проектами, но не участниками организации
	repo.On("MemberRole", mock.Anything, testOrgId, testCallerId).Return(domain.RolePm, nil)

	_, err := s.AddMember(context.Background(), testCaller, &request.AddOrgMemberRequest{
		OrganizationId: testOrgId,
		UserId:         testMemberId,
		Username:       "alice",
		Role:           "member",
	})

	require.Error(t, err)
	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	repo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestOrgAddMember_UnknownRole(t *testing.T) {
	repo := new(MockOrganizationRepository)
	s := newOrganizationService(repo)

	_, err := s.AddMember(context.Background(), testCaller, &request.AddOrgMemberRequest{
		OrganizationId: testOrgId,
		UserId:         testMemberId,
		Username:       "alice",
		Role:           "superuser",
	})

	require.Error(t, err)
	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestOrgAddMember_Success(t *testing.T) {
	repo := new(MockOrganizationRepository)
	s := newOrganizationService(repo)

	repo.On("MemberRole", mock.Anything, testOrgId, testCallerId).Return(domain.RoleOrgAdmin, nil)
	repo.On("AddMember", mock.Anything, mock.MatchedBy(func(d *dto.AddOrgMemberDTO) bool {
		return d.OrgId == testOrgId && d.UserId == testMemberId && d.Role == domain.RoleMember
	})).Return(&domain.OrgMember{
		OrgId:    testOrgId,
		UserId:   testMemberId,
		Name:     "alice",
		Role:     domain.RoleMember,
		JoinedAt: time.Now().UTC(),
	}, nil)

	resp, err := s.AddMember(context.Background(), testCaller, &request.AddOrgMemberRequest{
		OrganizationId: testOrgId,
		UserId:         testMemberId,
		Username:       "alice",
		Role:           "member",
	})

	require.NoError(t, err)
	assert.Equal(t, testMemberId, resp.Member.UserId)
	assert.Equal(t, "member", resp.Member.Role)
	repo.AssertExpectations(t)
}
