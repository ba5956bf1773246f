package progress

import (
	"context"
	"errors"
	"time"

	"github.com/nutricoach/backend/internal/models"
)

var ErrWeekTaken = errors.New("a progress entry for this week already exists")

// Repository persists physical-progress measurements. At most one entry per
// user per ISO week is accepted; Create reports ErrWeekTaken otherwise.
type Repository interface {
	Create(ctx context.Context, e *models.ProgressEntry) error
	ForUser(ctx context.Context, userID int64) ([]*models.ProgressEntry, error)
}

// isoWeek keys a timestamp by its ISO year and week for the uniqueness check.
func isoWeek(t time.Time) (int, int) {
	return t.UTC().ISOWeek()
}
