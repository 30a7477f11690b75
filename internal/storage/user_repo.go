package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup finds no matching row.
var ErrNotFound = errors.New("not found")

// UserRepo provides methods for user operations.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username) VALUES (?, ?)",
		user.ID, user.Username,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID returns the user with the given ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (User, error) {
	var user User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Username)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUsername returns the username for the given user ID.
func (r *UserRepo) GetUsername(ctx context.Context, id string) (string, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// GetByUsername returns the user with the given username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}
