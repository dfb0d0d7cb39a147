package dto

import "github.com/chronetask/backend/internal/domain"

type CreateOrgDTO struct {
	OrgId       string
	Name        string
	CreatorId   string
	CreatorName string
}

type GetOrgDTO struct {
	OrgId string
}

type AddOrgMemberDTO struct {
	OrgId     string
	UserId    string
	UserName  string
	AvatarUrl *string
	Role      domain.Role
}
