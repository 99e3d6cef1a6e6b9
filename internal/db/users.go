package db

import (
	"context"

	"github.com/photoshare/backend/internal/model"
)

const userColumns = `id, login_name, password_hash, first_name, last_name, location, description, occupation, is_admin, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.LoginName,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Location,
		&user.Description,
		&user.Occupation,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, login_name, password_hash, first_name, last_name, location, description, occupation, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query,
		user.ID,
		user.LoginName,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Location,
		user.Description,
		user.Occupation,
		user.IsAdmin,
	))
}

// GetUserByLoginName matches login_name exactly (case-sensitive).
func (db *Postgres) GetUserByLoginName(ctx context.Context, loginName string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login_name = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, loginName))
}

func (db *Postgres) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, location = $4, description = $5, occupation = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Location,
		user.Description,
		user.Occupation,
	))
}
