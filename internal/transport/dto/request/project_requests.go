package request

type CreateProjectRequest struct {
	OrganizationId string `json:"organization_id"`
	Name           string `json:"name"`
	SlaHours       *int   `json:"sla_hours,omitempty"`
}

type ListProjectsRequest struct {
	OrganizationId string `json:"organization_id"`
}

type ArchiveProjectRequest struct {
	ProjectId string `json:"project_id"`
}

type AddProjectMemberRequest struct {
	ProjectId string `json:"project_id"`
	UserId    string `json:"user_id"`
}
