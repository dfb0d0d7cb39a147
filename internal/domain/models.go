package domain

import "time"

type TaskStatus string

const (
	StatusToDo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusBlocked    TaskStatus = "Blocked"
	StatusReview     TaskStatus = "Review"
	StatusDone       TaskStatus = "Done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusBlocked, StatusReview, StatusDone:
		return true
	}
	return false
}

type Role string

const (
	RoleOrgAdmin Role = "org_admin"
	RolePm       Role = "pm"
	RoleMember   Role = "member"
	RoleViewer   Role = "viewer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOrgAdmin, RolePm, RoleMember, RoleViewer:
		return true
	}
	return false
}

// CanManageProjects - создание и архивация проектов, управление участниками
func (r Role) CanManageProjects() bool {
	return r == RoleOrgAdmin || r == RolePm
}

// CanEditTasks - создание и изменение задач, комментарии, трекинг времени
func (r Role) CanEditTasks() bool {
	return r == RoleOrgAdmin || r == RolePm || r == RoleMember
}

type Organization struct {
	Id        string    `json:"organization_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

type User struct {
	Id        string    `json:"user_id"`
	Name      string    `json:"username"`
	AvatarUrl *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"-"`
}

type OrgMember struct {
	OrgId    string
	UserId   string
	Name     string
	Role     Role
	JoinedAt time.Time
}

type Project struct {
	Id        string
	OrgId     string
	Name      string
	SlaHours  *int
	IsActive  bool
	CreatedAt time.Time
}

// ProjectMember - read-модель участника проекта (join project_members x users)
type ProjectMember struct {
	ProjectId string
	UserId    string
	Name      string
	AvatarUrl *string
}

type Task struct {
	Id             string
	ProjectId      string
	Title          string
	Description    string
	Status         TaskStatus
	AssignedToId   *string
	DueDate        *time.Time
	TrackedMinutes int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// TaskSnapshot - read-модель задачи для аналитики с присоединенными
// данными проекта (имя и SLA в часах)
type TaskSnapshot struct {
	Task
	ProjectName     string
	ProjectSlaHours *int
}

type Comment struct {
	Id        string
	TaskId    string
	AuthorId  string
	Body      string
	CreatedAt time.Time
}

type TimeEntry struct {
	Id      string
	TaskId  string
	UserId  string
	Minutes int
	SpentAt time.Time
}
