package request

type CreateOrgRequest struct {
	Name string `json:"name"`
}

type GetOrgRequest struct {
	OrganizationId string `json:"organization_id"`
}

type AddOrgMemberRequest struct {
	OrganizationId string  `json:"organization_id"`
	UserId         string  `json:"user_id"`
	Username       string  `json:"username"`
	AvatarUrl      *string `json:"avatar_url,omitempty"`
	Role           string  `json:"role"`
}
