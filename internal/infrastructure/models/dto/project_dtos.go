package dto

type CreateProjectDTO struct {
	ProjectId string
	OrgId     string
	Name      string
	SlaHours  *int
}

type ArchiveProjectDTO struct {
	ProjectId string
}

type AddProjectMemberDTO struct {
	ProjectId string
	UserId    string
}
