package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/profile/entity"
	"github.com/ovaphlow/pitchfork/service-youapp/pkg/database"
)

func sample(userID string) *entity.Profile {
	now := time.Now().UTC().Truncate(time.Second)
	return &entity.Profile{
		ID:         "p-" + userID,
		UserID:     userID,
		Name:       "Alice",
		Birthday:   "1990-07-04",
		Gender:     "female",
		Height:     165,
		Weight:     55,
		Interests:  entity.Interests{"music", "hiking"},
		HeightUnit: "cm",
		Zodiac:     "Cancer",
		Horoscope:  "Crab",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.FindByUserID(ctx, "u1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Create(ctx, sample("u1")))
	err = s.Create(ctx, sample("u1"))
	require.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)

	got, err := s.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, entity.Interests{"music", "hiking"}, got.Interests)

	got.Name = "Alicia"
	got.Interests = entity.Interests{"chess"}
	require.NoError(t, s.Update(ctx, got))

	again, err := s.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", again.Name)
	assert.Equal(t, entity.Interests{"chess"}, again.Interests)
	assert.Equal(t, "p-u1", again.ID)

	assert.ErrorIs(t, s.Update(ctx, sample("nobody")), ErrNotFound)
}

func TestMemoryRepo(t *testing.T) {
	storeContract(t, NewMemoryRepo())
}

func TestSQLRepo_SQLite(t *testing.T) {
	db, err := database.Connect(database.SQLiteConfig(":memory:"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(context.Background(), db))
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO users (id, email, username, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"u1", "a@x.io", "alice", "h", now, now)
	require.NoError(t, err)

	storeContract(t, NewSQLRepo(db))
}

func TestSQLRepo_PostgresConflict(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mockDB.Close()
	r := NewSQLRepo(sqlx.NewDb(mockDB, "postgres"))

	mock.ExpectExec(`INSERT INTO profiles`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "profiles_user_id_key"})

	err = r.Create(context.Background(), sample("u1"))
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepo_PostgresUpdateUsesUserID(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mockDB.Close()
	r := NewSQLRepo(sqlx.NewDb(mockDB, "postgres"))

	mock.ExpectExec(`(?s)UPDATE profiles SET .* WHERE user_id = \$14`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Update(context.Background(), sample("u1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
