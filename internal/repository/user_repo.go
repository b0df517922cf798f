package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByIDAndRole returns the user only when both the ID and the role
	// match; a valid ID with a different role comes back as nil.
	GetUserByIDAndRole(ctx context.Context, id, role string) (*model.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanUser(row *sql.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role)
	if err := scanUser(row, u); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var u model.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &u, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var u model.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, email), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &u, nil
}

func (r *userRepo) GetUserByIDAndRole(ctx context.Context, id, role string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = $2`
	var u model.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, id, role), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &u, nil
}

func (r *userRepo) ListUsersByRole(ctx context.Context, role string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return users, nil
}

func (r *userRepo) UpdateUser(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.ID)
	if err := scanUser(row, u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
