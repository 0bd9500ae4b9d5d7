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

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, searchTerm string) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, email, phone_number, hashed_password, role_id, status, created_at, updated_at`

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, phone_number, hashed_password, role_id, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PhoneNumber, user.HashedPassword, user.RoleID, user.Status)
	if err != nil {
		if cErr := constraintError(err); cErr != nil {
			return cErr
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *pgUserRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PhoneNumber, &user.HashedPassword,
		&user.RoleID, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.findOne: %w", err)
	}
	return user, nil
}

// List returns all users, or those whose username contains searchTerm
// (case-insensitive) when it is non-empty.
func (r *pgUserRepository) List(ctx context.Context, searchTerm string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if searchTerm != "" {
		query += ` WHERE username ILIKE '%' || $1 || '%'`
		args = append(args, searchTerm)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PhoneNumber, &user.HashedPassword,
			&user.RoleID, &user.Status, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgUserRepository.List: scan: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: rows: %w", err)
	}
	return users, nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET
	            username = $1, email = $2, phone_number = $3, hashed_password = $4,
	            role_id = $5, status = $6, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PhoneNumber, user.HashedPassword, user.RoleID, user.Status, user.ID)
	if err != nil {
		if cErr := constraintError(err); cErr != nil {
			return cErr
		}
		return fmt.Errorf("pgUserRepository.Update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.Update: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// constraintError translates Postgres constraint violations into
// field-scoped validation errors. Uniqueness is enforced by the unique
// indexes, never by a read-then-write pre-check.
func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case "23505": // unique violation
		switch pgErr.ConstraintName {
		case "users_username_key":
			return common.FieldError("username", "A user with that username already exists.")
		case "users_email_key":
			return common.FieldError("email", "A user with that email already exists.")
		case "users_phone_number_key":
			return common.FieldError("phone_number", "A user with that phone number already exists.")
		}
		return common.FieldError("non_field_errors", "A user with these details already exists.")
	case "23503": // foreign key violation (role_id)
		return common.FieldError("role_id", "Role does not exist.")
	}
	return nil
}
