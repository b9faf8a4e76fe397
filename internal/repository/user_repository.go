package repository

import (
	"context"
	"database/sql"

	"github.com/joyas-pwa/joyas-api/internal/model"
)

// UserRepo stores application users in the app_user table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, username, password_hash, created_at"

// Create inserts a user with an already hashed password and returns the
// stored row.  A duplicate username yields ErrUsernameTaken.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO app_user (username, password_hash) VALUES (?, ?)",
		username, passwordHash)
	if err != nil {
		return model.User{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM app_user WHERE username = ? LIMIT 1", username)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM app_user WHERE id = ? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}
