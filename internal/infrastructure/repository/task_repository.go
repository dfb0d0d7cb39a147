package repository

import (
	"context"

	"github.com/chronetask/backend/internal/domain"
	"github.com/chronetask/backend/internal/infrastructure/models/dto"
	"github.com/chronetask/backend/internal/infrastructure/models/result"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	insertTaskQuery = `
INSERT INTO tasks (id, project_id, title, description, assigned_to, due_date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, project_id, title, description, status, assigned_to, due_date, tracked_minutes, created_at, updated_at;`

	setTaskStatusQuery = `
UPDATE tasks
SET status = $2,
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
RETURNING id, project_id, title, description, status, assigned_to, due_date, tracked_minutes, created_at, updated_at;`

	assignTaskQuery = `
UPDATE tasks
SET assigned_to = $2,
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
RETURNING id, project_id, title, description, status, assigned_to, due_date, tracked_minutes, created_at, updated_at;`

	selectTasksByProjectQuery = `
SELECT id, project_id, title, description, status, assigned_to, due_date, tracked_minutes, created_at, updated_at
FROM tasks
WHERE project_id = $1
ORDER BY created_at ASC;`

	selectTaskQuery = `
SELECT id, project_id, title, description, status, assigned_to, due_date, tracked_minutes, created_at, updated_at
FROM tasks
WHERE id = $1;`

	selectTaskOrgQuery = `
SELECT p.org_id
FROM tasks t
JOIN projects p ON p.id = t.project_id
WHERE t.id = $1;`

	insertCommentQuery = `
INSERT INTO task_comments (id, task_id, author_id, body)
VALUES ($1, $2, $3, $4)
RETURNING id, task_id, author_id, body, created_at;`

	selectCommentsQuery = `
SELECT id, task_id, author_id, body, created_at
FROM task_comments
WHERE task_id = $1
ORDER BY created_at ASC;`

	touchTaskQuery = `
UPDATE tasks
SET updated_at = CURRENT_TIMESTAMP
WHERE id = $1;`

	insertTimeEntryQuery = `
INSERT INTO time_entries (id, task_id, user_id, minutes)
VALUES ($1, $2, $3, $4)
RETURNING id, task_id, user_id, minutes, spent_at;`

	addTrackedMinutesQuery = `
UPDATE tasks
SET tracked_minutes = tracked_minutes + $2,
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
RETURNING id, project_id, title, description, status, assigned_to, due_date, tracked_minutes, created_at, updated_at;`
)

type TaskRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, log *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:  db,
		log: log,
	}
}

func (r *TaskRepository) Create(ctx context.Context, d *dto.CreateTaskDTO) (*domain.Task, error) {
	r.log.Info("create task started",
		zap.String("task_id", d.TaskId),
		zap.String("project_id", d.ProjectId),
	)

	task, err := scanTask(r.db.QueryRow(ctx, insertTaskQuery,
		d.TaskId, d.ProjectId, d.Title, d.Description, d.AssignedToId, d.DueDate))
	if err != nil {
		r.log.Error("failed to insert task",
			zap.String("task_id", d.TaskId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	r.log.Info("task created",
		zap.String("task_id", task.Id),
		zap.String("status", string(task.Status)),
	)
	// Ответ
	return task, nil
}

func (r *TaskRepository) SetStatus(ctx context.Context, d *dto.SetTaskStatusDTO) (*domain.Task, error) {
	r.log.Info("set task status started",
		zap.String("task_id", d.TaskId),
		zap.String("status", string(d.Status)),
	)

	task, err := scanTask(r.db.QueryRow(ctx, setTaskStatusQuery, d.TaskId, d.Status))
	if err != nil {
		return nil, handleDBError(err)
	}

	r.log.Info("task status updated",
		zap.String("task_id", task.Id),
		zap.String("status", string(task.Status)),
	)
	// Ответ
	return task, nil
}

func (r *TaskRepository) Assign(ctx context.Context, d *dto.AssignTaskDTO) (*domain.Task, error) {
	task, err := scanTask(r.db.QueryRow(ctx, assignTaskQuery, d.TaskId, d.AssigneeId))
	if err != nil {
		return nil, handleDBError(err)
	}

	r.log.Info("task assignee updated", zap.String("task_id", task.Id))
	// Ответ
	return task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectId string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, selectTasksByProjectQuery, projectId)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, handleDBError(err)
		}
		tasks = append(tasks, task)
	}

	// Ответ
	return tasks, nil
}

// Get читает одну задачу, используется сервисом для проверки статуса перед Done
func (r *TaskRepository) Get(ctx context.Context, taskId string) (*domain.Task, error) {
	task, err := scanTask(r.db.QueryRow(ctx, selectTaskQuery, taskId))
	if err != nil {
		return nil, handleDBError(err)
	}
	return task, nil
}

// TaskOrg возвращает организацию, которой принадлежит задача
func (r *TaskRepository) TaskOrg(ctx context.Context, taskId string) (string, error) {
	var orgId string
	err := r.db.QueryRow(ctx, selectTaskOrgQuery, taskId).Scan(&orgId)
	if err != nil {
		return "", handleDBError(err)
	}
	return orgId, nil
}

// ProjectOrg возвращает организацию проекта, для проверки ролей при создании задачи
func (r *TaskRepository) ProjectOrg(ctx context.Context, projectId string) (string, error) {
	var orgId string
	err := r.db.QueryRow(ctx, selectProjectOrgQuery, projectId).Scan(&orgId)
	if err != nil {
		return "", handleDBError(err)
	}
	return orgId, nil
}

func (r *TaskRepository) AddComment(ctx context.Context, d *dto.AddCommentDTO) (*domain.Comment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	// Создаем комментарий
	comment := &domain.Comment{}
	err = tx.QueryRow(ctx, insertCommentQuery, d.CommentId, d.TaskId, d.AuthorId, d.Body).Scan(
		&comment.Id,
		&comment.TaskId,
		&comment.AuthorId,
		&comment.Body,
		&comment.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to insert comment",
			zap.String("task_id", d.TaskId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	// Комментарий считается активностью по задаче
	if _, err := tx.Exec(ctx, touchTaskQuery, d.TaskId); err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, handleDBError(err)
	}

	r.log.Info("comment added",
		zap.String("task_id", comment.TaskId),
		zap.String("comment_id", comment.Id),
	)
	// Ответ
	return comment, nil
}

func (r *TaskRepository) ListComments(ctx context.Context, taskId string) ([]*domain.Comment, error) {
	rows, err := r.db.Query(ctx, selectCommentsQuery, taskId)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		comment := &domain.Comment{}
		err = rows.Scan(
			&comment.Id,
			&comment.TaskId,
			&comment.AuthorId,
			&comment.Body,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, handleDBError(err)
		}
		comments = append(comments, comment)
	}

	// Ответ
	return comments, nil
}

func (r *TaskRepository) LogTime(ctx context.Context, d *dto.LogTimeDTO) (*result.LogTimeResult, error) {
	r.log.Info("log time started",
		zap.String("task_id", d.TaskId),
		zap.String("user_id", d.UserId),
		zap.Int("minutes", d.Minutes),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	// Записываем трекинг времени
	entry := &domain.TimeEntry{}
	err = tx.QueryRow(ctx, insertTimeEntryQuery, d.EntryId, d.TaskId, d.UserId, d.Minutes).Scan(
		&entry.Id,
		&entry.TaskId,
		&entry.UserId,
		&entry.Minutes,
		&entry.SpentAt,
	)
	if err != nil {
		r.log.Error("failed to insert time entry",
			zap.String("task_id", d.TaskId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	// Накапливаем минуты на задаче
	task, err := scanTask(tx.QueryRow(ctx, addTrackedMinutesQuery, d.TaskId, d.Minutes))
	if err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, handleDBError(err)
	}

	r.log.Info("time logged",
		zap.String("task_id", task.Id),
		zap.Int("tracked_minutes", task.TrackedMinutes),
	)
	// Ответ
	return &result.LogTimeResult{
		Task:  task,
		Entry: entry,
	}, nil
}

// вспомогательная функция для чтения строки задачи
func scanTask(row pgx.Row) (*domain.Task, error) {
	task := &domain.Task{}
	err := row.Scan(
		&task.Id,
		&task.ProjectId,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.AssignedToId,
		&task.DueDate,
		&task.TrackedMinutes,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}
