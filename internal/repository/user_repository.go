package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/clientxce/Pick-a-Padel/internal/model"
	"github.com/clientxce/Pick-a-Padel/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password string, name, phone *string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, phone) VALUES (?,?,?,?)",
		email, hash, name, phone)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	var name, phone sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,phone,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if name.Valid {
		u.Name = &name.String
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	var name, phone sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,phone,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if name.Valid {
		u.Name = &name.String
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	return u, err
}
