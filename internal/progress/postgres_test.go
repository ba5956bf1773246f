package progress

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nutricoach/backend/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE progress_entries (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL,
    weight_kg    REAL NOT NULL,
    body_fat_pct REAL,
    muscle_pct   REAL,
    photo_key    TEXT,
    recorded_at  TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func f64Ptr(f float64) *float64 { return &f }

func TestPostgresRepository_CreateAndForUser(t *testing.T) {
	repo := NewPostgresRepository(testDB(t))
	ctx := context.Background()

	e := &models.ProgressEntry{
		UserID:     1,
		WeightKg:   64.5,
		BodyFatPct: f64Ptr(22.1),
		RecordedAt: time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, e))
	require.NotZero(t, e.ID)

	got, err := repo.ForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 64.5, got[0].WeightKg)
	require.Equal(t, 22.1, *got[0].BodyFatPct)
	require.Nil(t, got[0].MusclePct)
	require.Nil(t, got[0].PhotoKey)
}

func TestPostgresRepository_OneEntryPerWeek(t *testing.T) {
	repo := NewPostgresRepository(testDB(t))
	ctx := context.Background()

	monday := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &models.ProgressEntry{
		UserID: 1, WeightKg: 64.5, RecordedAt: monday,
	}))

	// same ISO week, different day
	err := repo.Create(ctx, &models.ProgressEntry{
		UserID: 1, WeightKg: 64.2, RecordedAt: monday.AddDate(0, 0, 4),
	})
	require.ErrorIs(t, err, ErrWeekTaken)

	// next week is fine
	require.NoError(t, repo.Create(ctx, &models.ProgressEntry{
		UserID: 1, WeightKg: 64.0, RecordedAt: monday.AddDate(0, 0, 7),
	}))

	// other users are unaffected
	require.NoError(t, repo.Create(ctx, &models.ProgressEntry{
		UserID: 2, WeightKg: 80, RecordedAt: monday,
	}))

	got, err := repo.ForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestPostgresRepository_WeekBoundaryAcrossYears(t *testing.T) {
	repo := NewPostgresRepository(testDB(t))
	ctx := context.Background()

	// 2026-01-01 falls in ISO week 2026-W01; 2025-12-28 is 2025-W52
	require.NoError(t, repo.Create(ctx, &models.ProgressEntry{
		UserID: 1, WeightKg: 64, RecordedAt: time.Date(2025, 12, 28, 12, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, repo.Create(ctx, &models.ProgressEntry{
		UserID: 1, WeightKg: 63.5, RecordedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}))
}

func TestPostgresRepository_CreateKeepsPhotoKey(t *testing.T) {
	repo := NewPostgresRepository(testDB(t))
	ctx := context.Background()

	key := "progress/1/abc.jpg"
	e := &models.ProgressEntry{UserID: 1, WeightKg: 64, PhotoKey: &key, RecordedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, e))

	got, err := repo.ForUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got[0].PhotoKey)
	require.Equal(t, key, *got[0].PhotoKey)
}
