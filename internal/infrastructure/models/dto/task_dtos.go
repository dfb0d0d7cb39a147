package dto

import (
	"time"

	"github.com/chronetask/backend/internal/domain"
)

type CreateTaskDTO struct {
	TaskId       string
	ProjectId    string
	Title        string
	Description  string
	AssignedToId *string
	DueDate      *time.Time
}

type SetTaskStatusDTO struct {
	TaskId string
	Status domain.TaskStatus
}

type AssignTaskDTO struct {
	TaskId     string
	AssigneeId *string
}

type AddCommentDTO struct {
	CommentId string
	TaskId    string
	AuthorId  string
	Body      string
}

type LogTimeDTO struct {
	EntryId string
	TaskId  string
	UserId  string
	Minutes int
}
