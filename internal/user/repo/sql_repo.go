package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-youapp/pkg/database"
)

// SQLRepo stores users in the users table. It works with both the postgres
// and the sqlite driver; queries are written with ? and rebound.
type SQLRepo struct {
	db *sqlx.DB
}

func NewSQLRepo(db *sqlx.DB) *SQLRepo { return &SQLRepo{db: db} }

const userColumns = `id, email, username, password_hash, created_at, updated_at, last_login_at`

func (r *SQLRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	var conds []string
	var args []any
	if email != "" {
		conds = append(conds, "email = ?")
		args = append(args, email)
	}
	if username != "" {
		conds = append(conds, "username = ?")
		args = append(args, username)
	}
	if len(conds) == 0 {
		return nil, ErrNotFound
	}
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(conds, " OR ") + ` LIMIT 1`)
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email or username: %w", err)
	}
	return &u, nil
}

func (r *SQLRepo) Create(ctx context.Context, u *entity.User) error {
	q := `INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
		  VALUES (:id, :email, :username, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, u); err != nil {
		if detail, ok := database.UniqueViolation(err); ok {
			return conflictFor(detail, err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *SQLRepo) FindByID(ctx context.Context, id string) (*entity.View, error) {
	var v entity.View
	q := r.db.Rebind(`SELECT id, email, username FROM users WHERE id = ?`)
	if err := r.db.GetContext(ctx, &v, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &v, nil
}

func (r *SQLRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	q := r.db.Rebind(`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, at, at, id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
