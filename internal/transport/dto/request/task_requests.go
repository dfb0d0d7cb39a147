package request

import "time"

type CreateTaskRequest struct {
	ProjectId    string     `json:"project_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	AssignedToId *string    `json:"assigned_to,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

type SetTaskStatusRequest struct {
	TaskId string `json:"task_id"`
	Status string `json:"status"`
}

type AssignTaskRequest struct {
	TaskId     string  `json:"task_id"`
	AssigneeId *string `json:"assignee_id"`
}

type ListTasksRequest struct {
	ProjectId string `json:"project_id"`
}

type AddCommentRequest struct {
	TaskId string `json:"task_id"`
	Body   string `json:"body"`
}

type ListCommentsRequest struct {
	TaskId string `json:"task_id"`
}

type LogTimeRequest struct {
	TaskId  string `json:"task_id"`
	Minutes int    `json:"minutes"`
}
