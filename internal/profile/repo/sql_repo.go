package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/profile/entity"
	"github.com/ovaphlow/pitchfork/service-youapp/pkg/database"
)

type SQLRepo struct {
	db *sqlx.DB
}

func NewSQLRepo(db *sqlx.DB) *SQLRepo { return &SQLRepo{db: db} }

const profileColumns = `id, user_id, name, birthday, gender, height, weight, interests, profile_image,
	height_unit, height_feet, height_inches, zodiac, horoscope, created_at, updated_at`

func (r *SQLRepo) Create(ctx context.Context, p *entity.Profile) error {
	q := `INSERT INTO profiles (` + profileColumns + `)
		  VALUES (:id, :user_id, :name, :birthday, :gender, :height, :weight, :interests, :profile_image,
		  :height_unit, :height_feet, :height_inches, :zodiac, :horoscope, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, p); err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return errProfileExists(err)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *SQLRepo) FindByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	var p entity.Profile
	q := r.db.Rebind(`SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &p, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

func (r *SQLRepo) Update(ctx context.Context, p *entity.Profile) error {
	q := `UPDATE profiles SET name = :name, birthday = :birthday, gender = :gender, height = :height,
		  weight = :weight, interests = :interests, profile_image = :profile_image, height_unit = :height_unit,
		  height_feet = :height_feet, height_inches = :height_inches, zodiac = :zodiac, horoscope = :horoscope,
		  updated_at = :updated_at
		  WHERE user_id = :user_id`
	res, err := r.db.NamedExecContext(ctx, q, p)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
