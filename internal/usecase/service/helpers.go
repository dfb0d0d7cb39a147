package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronetask/backend/internal/domain"
	"github.com/chronetask/backend/internal/infrastructure/repository"
	"github.com/google/uuid"
)

// Caller - идентичность вызывающего из JWT
type Caller struct {
	Id   string
	Name string
}

// Интерфейс для проверки членства и роли в организации,
// реализуется OrganizationRepository
type RoleResolver interface {
	MemberRole(ctx context.Context, orgId, userId string) (domain.Role, error)
}

// вспомогательная функция проверки корректности идентификатора
func normalizeID(raw, field string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return id.String(), nil
}

// вспомогательная функция чтения роли вызывающего в организации
func callerRole(ctx context.Context, roles RoleResolver, orgId, callerId string) (domain.Role, error) {
	role, err := roles.MemberRole(ctx, orgId, callerId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", WrapError(ErrNotOrgMember, err)
		}
		return "", err
	}
	return role, nil
}
