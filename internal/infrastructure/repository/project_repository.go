package repository

import (
	"context"

	"github.com/chronetask/backend/internal/domain"
	"github.com/chronetask/backend/internal/infrastructure/models/dto"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	insertProjectQuery = `
INSERT INTO projects (id, org_id, name, sla_hours)
VALUES ($1, $2, $3, $4)
RETURNING id, org_id, name, sla_hours, is_active, created_at;`

	selectProjectsByOrgQuery = `
SELECT id, org_id, name, sla_hours, is_active, created_at FROM projects
WHERE org_id = $1 AND is_active
ORDER BY created_at ASC;`

	archiveProjectQuery = `
UPDATE projects
SET is_active = FALSE
WHERE id = $1 AND is_active
RETURNING id, org_id, name, sla_hours, is_active, created_at;`

	selectProjectOrgQuery = `
SELECT org_id FROM projects
WHERE id = $1;`

	insertProjectMemberQuery = `
INSERT INTO project_members (project_id, user_id)
VALUES ($1, $2)
ON CONFLICT (project_id, user_id) DO NOTHING;`

	selectProjectMemberQuery = `
SELECT
    pm.project_id,
    pm.user_id,
    u.name,
    u.avatar_url
FROM project_members pm
JOIN users u ON u.id = pm.user_id
WHERE pm.project_id = $1 AND pm.user_id = $2;`
)

type ProjectRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, log *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:  db,
		log: log,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, d *dto.CreateProjectDTO) (*domain.Project, error) {
	r.log.Info("create project started",
		zap.String("project_id", d.ProjectId),
		zap.String("org_id", d.OrgId),
	)

	project := &domain.Project{}
	err := r.db.QueryRow(ctx, insertProjectQuery, d.ProjectId, d.OrgId, d.Name, d.SlaHours).Scan(
		&project.Id,
		&project.OrgId,
		&project.Name,
		&project.SlaHours,
		&project.IsActive,
		&project.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to insert project",
			zap.String("project_id", d.ProjectId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	r.log.Info("project created",
		zap.String("project_id", project.Id),
		zap.String("name", project.Name),
	)
	// Ответ
	return project, nil
}

func (r *ProjectRepository) ListByOrg(ctx context.Context, orgId string) ([]*domain.Project, error) {
	rows, err := r.db.Query(ctx, selectProjectsByOrgQuery, orgId)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project := &domain.Project{}
		err = rows.Scan(
			&project.Id,
			&project.OrgId,
			&project.Name,
			&project.SlaHours,
			&project.IsActive,
			&project.CreatedAt,
		)
		if err != nil {
			return nil, handleDBError(err)
		}
		projects = append(projects, project)
	}

	// Ответ
	return projects, nil
}

func (r *ProjectRepository) Archive(ctx context.Context, d *dto.ArchiveProjectDTO) (*domain.Project, error) {
	r.log.Info("archive project started", zap.String("project_id", d.ProjectId))

	project := &domain.Project{}
	err := r.db.QueryRow(ctx, archiveProjectQuery, d.ProjectId).Scan(
		&project.Id,
		&project.OrgId,
		&project.Name,
		&project.SlaHours,
		&project.IsActive,
		&project.CreatedAt,
	)
	if err != nil {
		// Уже в архиве или не существует
		return nil, handleDBError(err)
	}

	r.log.Info("project archived", zap.String("project_id", project.Id))
	// Ответ
	return project, nil
}

// OrgId возвращает организацию проекта, используется для проверки ролей
func (r *ProjectRepository) OrgId(ctx context.Context, projectId string) (string, error) {
	var orgId string
	err := r.db.QueryRow(ctx, selectProjectOrgQuery, projectId).Scan(&orgId)
	if err != nil {
		return "", handleDBError(err)
	}
	return orgId, nil
}

func (r *ProjectRepository) AddMember(ctx context.Context, d *dto.AddProjectMemberDTO) (*domain.ProjectMember, error) {
	r.log.Info("add project member started",
		zap.String("project_id", d.ProjectId),
		zap.String("user_id", d.UserId),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	// Добавляем участника, повторное добавление не ошибка
	if _, err := tx.Exec(ctx, insertProjectMemberQuery, d.ProjectId, d.UserId); err != nil {
		r.log.Error("failed to insert project member",
			zap.String("project_id", d.ProjectId),
			zap.String("user_id", d.UserId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	// Читаем участника вместе с данными пользователя
	member := &domain.ProjectMember{}
	err = tx.QueryRow(ctx, selectProjectMemberQuery, d.ProjectId, d.UserId).Scan(
		&member.ProjectId,
		&member.UserId,
		&member.Name,
		&member.AvatarUrl,
	)
	if err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, handleDBError(err)
	}

	r.log.Info("project member added",
		zap.String("project_id", member.ProjectId),
		zap.String("user_id", member.UserId),
	)
	// Ответ
	return member, nil
}
