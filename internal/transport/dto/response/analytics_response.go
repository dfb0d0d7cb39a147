package response

import "time"

// Поля отчета и их имена зафиксированы контрактом фронтенда,
// в том числе сентинел 999 для "активности не было"

type MemberActivity struct {
	UserId         string  `json:"userId"`
	UserName       string  `json:"userName"`
	UserAvatar     *string `json:"userAvatar,omitempty"`
	CompletedTasks int     `json:"completedTasks"`
	PendingTasks   int     `json:"pendingTasks"`
	TotalMinutes   int     `json:"totalMinutes"`
}

type ProjectBlocked struct {
	ProjectId         string `json:"projectId"`
	ProjectName       string `json:"projectName"`
	BlockedTasksCount int    `json:"blockedTasksCount"`
}

type TaskDueSoon struct {
	TaskId        string    `json:"taskId"`
	TaskTitle     string    `json:"taskTitle"`
	ProjectId     string    `json:"projectId"`
	ProjectName   string    `json:"projectName"`
	DueDate       time.Time `json:"dueDate"`
	HoursUntilDue int       `json:"hoursUntilDue"`
}

type MemberInactivity struct {
	UserId                string  `json:"userId"`
	UserName              string  `json:"userName"`
	UserAvatar            *string `json:"userAvatar,omitempty"`
	DaysSinceLastActivity int     `json:"daysSinceLastActivity"`
}

type AnalyticsResponse struct {
	TotalTasks            int                `json:"totalTasks"`
	CompletedTasks        int                `json:"completedTasks"`
	PendingTasks          int                `json:"pendingTasks"`
	OverdueTasks          int                `json:"overdueTasks"`
	SlaMet                int                `json:"slaMet"`
	SlaMissed             int                `json:"slaMissed"`
	MemberActivities      []MemberActivity   `json:"memberActivities"`
	ProjectsWithBlockages []ProjectBlocked   `json:"projectsWithBlockages"`
	TasksDueSoon          []TaskDueSoon      `json:"tasksDueSoon"`
	InactiveMembers       []MemberInactivity `json:"inactiveMembers"`
}
