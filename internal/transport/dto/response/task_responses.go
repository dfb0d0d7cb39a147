package response

import "time"

type Task struct {
	TaskId         string     `json:"task_id"`
	ProjectId      string     `json:"project_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	AssignedToId   *string    `json:"assigned_to,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	TrackedMinutes int        `json:"tracked_minutes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type CreateTaskResponse struct {
	Task Task `json:"task"`
}

type SetTaskStatusResponse struct {
	Task Task `json:"task"`
}

type AssignTaskResponse struct {
	Task Task `json:"task"`
}

type ListTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

type Comment struct {
	CommentId string    `json:"comment_id"`
	TaskId    string    `json:"task_id"`
	AuthorId  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type AddCommentResponse struct {
	Comment Comment `json:"comment"`
}

type ListCommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type LogTimeResponse struct {
	EntryId string `json:"entry_id"`
	Minutes int    `json:"minutes"`
	Task    Task   `json:"task"`
}
