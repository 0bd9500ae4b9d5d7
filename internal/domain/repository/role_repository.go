package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"user_mgmt/internal/common"
	"user_mgmt/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	FindByID(ctx context.Context, id string) (*model.Role, error)
	FindBySlug(ctx context.Context, slug string) (*model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
}

type pgRoleRepository struct {
	db *sql.DB
}

func NewPgRoleRepository(db *sql.DB) RoleRepository {
	return &pgRoleRepository{db: db}
}

func (r *pgRoleRepository) Create(ctx context.Context, role *model.Role) error {
	query := `INSERT INTO roles (id, name, slug) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, role.ID, role.Name, role.Slug)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.FieldError("name", "A role with that name already exists.")
		}
		return fmt.Errorf("pgRoleRepository.Create: %w", err)
	}
	return nil
}

func (r *pgRoleRepository) FindByID(ctx context.Context, id string) (*model.Role, error) {
	return r.findOne(ctx, `SELECT id, name, slug, created_at FROM roles WHERE id = $1`, id)
}

func (r *pgRoleRepository) FindBySlug(ctx context.Context, slug string) (*model.Role, error) {
	return r.findOne(ctx, `SELECT id, name, slug, created_at FROM roles WHERE slug = $1`, slug)
}

func (r *pgRoleRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Role, error) {
	role := &model.Role{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&role.ID, &role.Name, &role.Slug, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgRoleRepository.findOne: %w", err)
	}
	return role, nil
}

func (r *pgRoleRepository) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("pgRoleRepository.List: %w", err)
	}
	defer rows.Close()

	roles := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Slug, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgRoleRepository.List: scan: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgRoleRepository.List: rows: %w", err)
	}
	return roles, nil
}
