package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/peerview/peerview-api/internal/model"
	"github.com/peerview/peerview-api/internal/utils"
)

// UserRepo is the credential store. It owns the `users` table
// exclusively; no other component reads or writes user records.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,full_name,role,is_active,created_at"

// Create inserts a new user with a bcrypt-hashed password and returns
// the stored record. The email is normalized to lower case; a
// duplicate (against active or deactivated accounts alike) yields
// ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName, role string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, full_name, role, is_active, created_at) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Role, u.IsActive, u.CreatedAt)
	if err != nil {
		if isDuplicateErr(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

// isDuplicateErr detects a unique-key violation. MySQL reports error
// 1062; sqlite (used by tests) reports "UNIQUE constraint failed".
func isDuplicateErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}

// GetByEmail fetches a user by normalized email. Returns ErrNotFound
// when no record exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id. Returns ErrNotFound when no record exists.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Authenticate resolves the email and compares the password. Unknown
// email, wrong password and deactivated account all collapse into the
// same ErrNotFound so login responses cannot be used to enumerate
// accounts or probe deactivation state.
func (r *UserRepo) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// List returns users ordered by creation time descending, newest
// first, one page at a time. Page numbers start at 1.
func (r *UserRepo) List(ctx context.Context, page, limit int) ([]model.User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update applies a partial update. Nil fields are left untouched.
type UserUpdate struct {
	FullName *string
	Role     *string
	IsActive *bool
}

// Update mutates the selected fields of a user and returns the fresh
// record. A missing user yields ErrNotFound.
func (r *UserRepo) Update(ctx context.Context, id string, upd UserUpdate) (model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, role=?, is_active=? WHERE id=?",
		u.FullName, u.Role, u.IsActive, u.ID)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Deactivate soft-deletes an account. The record and its email stay in
// the table; only is_active flips to false.
func (r *UserRepo) Deactivate(ctx context.Context, id string) error {
	inactive := false
	_, err := r.Update(ctx, id, UserUpdate{IsActive: &inactive})
	return err
}

// Count returns the total number of user records, active or not.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}
