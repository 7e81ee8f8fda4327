package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// UserRepo provides read access to users.  Account management lives
// in the external identity service; this application only needs the
// contact data for notifications.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByID retrieves a user by ID.  Returns ErrUserNotFound when no
// such user exists.
func (r *UserRepo) GetByID(ctx context.Context, userID uint64) (*model.User, error) {
	const q = `SELECT id, email, full_name, created_at FROM users WHERE id = ?`
	var u model.User
	err := resolve(ctx, r.db).QueryRowContext(ctx, q, userID).Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
