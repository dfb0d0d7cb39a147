package repository

import (
	"context"
	"time"

	"github.com/chronetask/backend/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	selectActiveProjectIdsQuery = `
SELECT id FROM projects
WHERE org_id = $1 AND is_active
ORDER BY created_at ASC;`

	selectTaskSnapshotsQuery = `
SELECT
    t.id,
    t.project_id,
    t.title,
    t.description,
    t.status,
    t.assigned_to,
    t.due_date,
    t.tracked_minutes,
    t.created_at,
    t.updated_at,
    p.name       AS project_name,
    p.sla_hours  AS project_sla_hours
FROM tasks t
JOIN projects p ON p.id = t.project_id
WHERE t.project_id = ANY($1)
  AND t.created_at >= $2
  AND t.created_at <= $3
  AND ($4::uuid IS NULL OR t.assigned_to = $4)
ORDER BY t.created_at ASC;`

	selectProjectMembersQuery = `
SELECT
    pm.project_id,
    pm.user_id,
    u.name,
    u.avatar_url
FROM project_members pm
JOIN users u ON u.id = pm.user_id
WHERE pm.project_id = ANY($1)
ORDER BY pm.joined_at ASC;`
)

// AnalyticsRepository отдает плоские снапшоты для аналитики,
// все запросы выполняются жадно и возвращают готовые записи
type AnalyticsRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewAnalyticsRepository(db *pgxpool.Pool, log *zap.Logger) *AnalyticsRepository {
	return &AnalyticsRepository{
		db:  db,
		log: log,
	}
}

func (r *AnalyticsRepository) ListActiveProjectIDs(ctx context.Context, orgId string) ([]string, error) {
	rows, err := r.db.Query(ctx, selectActiveProjectIdsQuery, orgId)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, handleDBError(err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *AnalyticsRepository) ListTasks(
	ctx context.Context,
	projectIds []string,
	from, to time.Time,
	assigneeId *string,
) ([]*domain.TaskSnapshot, error) {
	// Пустая область видимости - пустой результат без запроса
	if len(projectIds) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, selectTaskSnapshotsQuery, projectIds, from, to, assigneeId)
	if err != nil {
		r.log.Error("failed to load task snapshots",
			zap.Int("projects", len(projectIds)),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}
	defer rows.Close()

	var tasks []*domain.TaskSnapshot
	for rows.Next() {
		task := &domain.TaskSnapshot{}
		err = rows.Scan(
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
			&task.ProjectName,
			&task.ProjectSlaHours,
		)
		if err != nil {
			return nil, handleDBError(err)
		}
		tasks = append(tasks, task)
	}

	r.log.Debug("task snapshots loaded",
		zap.Int("projects", len(projectIds)),
		zap.Int("tasks", len(tasks)),
	)
	return tasks, nil
}

func (r *AnalyticsRepository) ListProjectMembers(ctx context.Context, projectIds []string) ([]*domain.ProjectMember, error) {
	if len(projectIds) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, selectProjectMembersQuery, projectIds)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer rows.Close()

	var members []*domain.ProjectMember
	for rows.Next() {
		member := &domain.ProjectMember{}
		err = rows.Scan(
			&member.ProjectId,
			&member.UserId,
			&member.Name,
			&member.AvatarUrl,
		)
		if err != nil {
			return nil, handleDBError(err)
		}
		members = append(members, member)
	}

	return members, nil
}
