package response

import "time"

type OrgMember struct {
	UserId   string    `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type CreateOrgResponse struct {
	OrganizationId string      `json:"organization_id"`
	Name           string      `json:"name"`
	Members        []OrgMember `json:"members"`
}

type GetOrgResponse struct {
	OrganizationId string      `json:"organization_id"`
	Name           string      `json:"name"`
	Members        []OrgMember `json:"members"`
}

type AddOrgMemberResponse struct {
	OrganizationId string `json:"organization_id"`
	Member         OrgMember `json:"member"`
}
