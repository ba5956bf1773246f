package progress

import (
	"context"
	"time"

	"github.com/nutricoach/backend/internal/dbx"
	"github.com/nutricoach/backend/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the entry unless one already exists for the same user and
// ISO week. The existence check and the insert are two statements; two
// concurrent submissions for the same week may both pass the check, which
// matches accepting either one.
func (r *PostgresRepository) Create(ctx context.Context, e *models.ProgressEntry) error {
	year, week := isoWeek(e.RecordedAt)
	rows, err := r.db.QueryContext(ctx,
		`SELECT recorded_at FROM progress_entries WHERE user_id = $1`, e.UserID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return err
		}
		if y, w := isoWeek(at); y == year && w == week {
			return ErrWeekTaken
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx,
		`INSERT INTO progress_entries (user_id, weight_kg, body_fat_pct, muscle_pct, photo_key, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		e.UserID, e.WeightKg, e.BodyFatPct, e.MusclePct, e.PhotoKey, e.RecordedAt,
	).Scan(&e.ID)
}

func (r *PostgresRepository) ForUser(ctx context.Context, userID int64) ([]*models.ProgressEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, weight_kg, body_fat_pct, muscle_pct, photo_key, recorded_at
		 FROM progress_entries
		 WHERE user_id = $1
		 ORDER BY recorded_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.ProgressEntry{}
	for rows.Next() {
		var e models.ProgressEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.WeightKg,
			&e.BodyFatPct, &e.MusclePct, &e.PhotoKey, &e.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

var _ Repository = (*PostgresRepository)(nil)
