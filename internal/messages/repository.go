package messages

import (
	"context"
	"errors"

	"github.com/nutricoach/backend/internal/models"
)

var (
	ErrNotFound = errors.New("message not found")
	ErrNotOwner = errors.New("message belongs to another user")
)

// Repository persists direct messages. Edits and deletes are restricted to
// the original sender; only the recipient can mark a message read.
type Repository interface {
	Create(ctx context.Context, m *models.Message) error
	ForUser(ctx context.Context, userID int64) ([]*models.Message, error)
	UpdateBody(ctx context.Context, id, senderID int64, body string) error
	MarkRead(ctx context.Context, id, recipientID int64) error
	Delete(ctx context.Context, id, senderID int64) error
}
