package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"library_backend/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Credentials interface at compile time.
var _ Credentials = (*UserRepository)(nil)

const (
	userColumns = `id, username, name, email, password_hash, role, phone, created_at, updated_at`

	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByEmailSQL    = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	existsUserByEmailSQL    = `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`
	existsUserByUsernameSQL = `SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`

	upsertUserSQL = `
		INSERT INTO users (id, username, name, email, password_hash, role, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username=excluded.username,
			name=excluded.name,
			email=excluded.email,
			password_hash=excluded.password_hash,
			role=excluded.role,
			phone=excluded.phone,
			updated_at=excluded.updated_at
	`
)

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, selectUserByIDSQL, id)
}

// FindByEmail expects an already normalized (lowercase) email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, selectUserByEmailSQL, email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, selectUserByUsernameSQL, username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, existsUserByEmailSQL, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, existsUserByUsernameSQL, username)
}

// Save inserts or updates u by id. Email/username collisions, including ones
// raced in by a concurrent insert, come back as the matching domain error.
func (r *UserRepository) Save(ctx context.Context, u models.User) error {
	_, err := r.db.ExecContext(ctx, upsertUserSQL,
		u.ID,
		u.Username,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Phone,
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		err = mapUnique(err, "users.email", models.ErrDuplicateEmail)
		err = mapUnique(err, "users.username", models.ErrDuplicateUsername)
		if errors.Is(err, models.ErrDuplicateEmail) || errors.Is(err, models.ErrDuplicateUsername) {
			return err
		}
		return fmt.Errorf("save user %q: %w", u.Username, err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.Phone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", arg, err)
	}
	u.Role = models.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func (r *UserRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("check user %q: %w", arg, err)
	}
	return ok, nil
}
