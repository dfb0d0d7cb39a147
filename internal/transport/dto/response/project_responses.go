package response

type Project struct {
	ProjectId      string `json:"project_id"`
	OrganizationId string `json:"organization_id"`
	Name           string `json:"name"`
	SlaHours       *int   `json:"sla_hours,omitempty"`
	IsActive       bool   `json:"is_active"`
}

type CreateProjectResponse struct {
	Project Project `json:"project"`
}

type ListProjectsResponse struct {
	Projects []Project `json:"projects"`
}

type ArchiveProjectResponse struct {
	Project Project `json:"project"`
}

type AddProjectMemberResponse struct {
	ProjectId string  `json:"project_id"`
	UserId    string  `json:"user_id"`
	Username  string  `json:"username"`
	AvatarUrl *string `json:"avatar_url,omitempty"`
}
