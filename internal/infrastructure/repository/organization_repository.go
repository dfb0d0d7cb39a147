package repository

import (
	"context"
	"database/sql"

	"github.com/chronetask/backend/internal/domain"
	"github.com/chronetask/backend/internal/infrastructure/models/dto"
	"github.com/chronetask/backend/internal/infrastructure/models/result"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	insertOrgQuery = `
INSERT INTO organizations (id, name)
VALUES ($1, $2)
RETURNING id, name, created_at;`

	upsertUserQuery = `
INSERT INTO users (id, name, avatar_url)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
	    avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url)
RETURNING id, name, avatar_url, created_at;`

	upsertOrgMemberQuery = `
INSERT INTO org_members (org_id, user_id, role)
VALUES ($1, $2, $3)
ON CONFLICT (org_id, user_id) DO UPDATE
	SET role = EXCLUDED.role
RETURNING org_id, user_id, role, joined_at;`

	selectOrgQuery = `
SELECT id, name, created_at FROM organizations
WHERE id = $1;`

	selectOrgMembersQuery = `
SELECT
    om.org_id,
    om.user_id,
    u.name,
    om.role,
    om.joined_at
FROM org_members om
JOIN users u ON u.id = om.user_id
WHERE om.org_id = $1
ORDER BY om.joined_at ASC;`

	selectMemberRoleQuery = `
SELECT role FROM org_members
WHERE org_id = $1 AND user_id = $2;`
)

type OrganizationRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewOrganizationRepository(db *pgxpool.Pool, log *zap.Logger) *OrganizationRepository {
	return &OrganizationRepository{
		db:  db,
		log: log,
	}
}

func (r *OrganizationRepository) Create(ctx context.Context, d *dto.CreateOrgDTO) (*result.OrgResult, error) {
	r.log.Info("create organization started",
		zap.String("org_id", d.OrgId),
		zap.String("creator_id", d.CreatorId),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	orgRes := &result.OrgResult{}

	// Создаем организацию
	err = tx.QueryRow(ctx, insertOrgQuery, d.OrgId, d.Name).Scan(
		&orgRes.Id,
		&orgRes.Name,
		&orgRes.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to insert organization",
			zap.String("org_id", d.OrgId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	// Создаем или обновляем пользователя-создателя
	creator := &domain.User{}
	err = tx.QueryRow(ctx, upsertUserQuery, d.CreatorId, d.CreatorName, nil).Scan(
		&creator.Id,
		&creator.Name,
		&creator.AvatarUrl,
		&creator.CreatedAt,
	)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Создатель становится администратором организации
	member := &domain.OrgMember{Name: creator.Name}
	err = tx.QueryRow(ctx, upsertOrgMemberQuery, d.OrgId, d.CreatorId, domain.RoleOrgAdmin).Scan(
		&member.OrgId,
		&member.UserId,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit organization creation",
			zap.String("org_id", d.OrgId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	orgRes.Members = []*domain.OrgMember{member}

	r.log.Info("organization created",
		zap.String("org_id", orgRes.Id),
		zap.String("name", orgRes.Name),
	)
	// Ответ
	return orgRes, nil
}

func (r *OrganizationRepository) Get(ctx context.Context, d *dto.GetOrgDTO) (*result.OrgResult, error) {
	orgRes := &result.OrgResult{}

	// Читаем организацию
	err := r.db.QueryRow(ctx, selectOrgQuery, d.OrgId).Scan(
		&orgRes.Id,
		&orgRes.Name,
		&orgRes.CreatedAt,
	)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Читаем всех участников
	rows, err := r.db.Query(ctx, selectOrgMembersQuery, d.OrgId)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer rows.Close()

	for rows.Next() {
		member := &domain.OrgMember{}
		err = rows.Scan(
			&member.OrgId,
			&member.UserId,
			&member.Name,
			&member.Role,
			&member.JoinedAt,
		)
		if err != nil {
			return nil, handleDBError(err)
		}
		orgRes.Members = append(orgRes.Members, member)
	}

	// Ответ
	return orgRes, nil
}

func (r *OrganizationRepository) AddMember(ctx context.Context, d *dto.AddOrgMemberDTO) (*domain.OrgMember, error) {
	r.log.Info("add organization member started",
		zap.String("org_id", d.OrgId),
		zap.String("user_id", d.UserId),
		zap.String("role", string(d.Role)),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	// Убедимся, что организация существует
	var orgName string
	var orgCreatedAt sql.NullTime
	err = tx.QueryRow(ctx, selectOrgQuery, d.OrgId).Scan(&d.OrgId, &orgName, &orgCreatedAt)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Создаем или обновляем пользователя
	user := &domain.User{}
	err = tx.QueryRow(ctx, upsertUserQuery, d.UserId, d.UserName, d.AvatarUrl).Scan(
		&user.Id,
		&user.Name,
		&user.AvatarUrl,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Добавляем участника или обновляем роль
	member := &domain.OrgMember{Name: user.Name}
	err = tx.QueryRow(ctx, upsertOrgMemberQuery, d.OrgId, d.UserId, d.Role).Scan(
		&member.OrgId,
		&member.UserId,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit member addition",
			zap.String("org_id", d.OrgId),
			zap.String("user_id", d.UserId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	r.log.Info("organization member added",
		zap.String("org_id", member.OrgId),
		zap.String("user_id", member.UserId),
		zap.String("role", string(member.Role)),
	)
	// Ответ
	return member, nil
}

// MemberRole возвращает роль пользователя в организации,
// ErrNotFound если пользователь не состоит в ней
func (r *OrganizationRepository) MemberRole(ctx context.Context, orgId, userId string) (domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRow(ctx, selectMemberRoleQuery, orgId, userId).Scan(&role)
	if err != nil {
		return "", handleDBError(err)
	}
	return role, nil
}
