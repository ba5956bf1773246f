package messages

import (
	"context"

	"github.com/nutricoach/backend/internal/dbx"
	"github.com/nutricoach/backend/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO messages (sender_id, recipient_id, body)
		 VALUES ($1, $2, $3) RETURNING id, read, created_at, updated_at`,
		m.SenderID, m.RecipientID, m.Body,
	).Scan(&m.ID, &m.Read, &m.CreatedAt, &m.UpdatedAt)
}

// ForUser returns the full conversation history the user participates in,
// sent and received, oldest first.
func (r *PostgresRepository) ForUser(ctx context.Context, userID int64) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sender_id, recipient_id, body, read, created_at, updated_at
		 FROM messages
		 WHERE sender_id = $1 OR recipient_id = $2
		 ORDER BY created_at, id`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body,
			&m.Read, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateBody(ctx context.Context, id, senderID int64, body string) error {
	return r.scopedWrite(ctx, id,
		`UPDATE messages SET body = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND sender_id = $3`, body, id, senderID)
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	return r.scopedWrite(ctx, id,
		`UPDATE messages SET read = TRUE, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND recipient_id = $2`, id, recipientID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, senderID int64) error {
	return r.scopedWrite(ctx, id,
		`DELETE FROM messages WHERE id = $1 AND sender_id = $2`, id, senderID)
}

// scopedWrite runs a user-scoped write and disambiguates a zero-row result:
// a message owned by someone else yields ErrNotOwner, a missing one
// ErrNotFound.
func (r *PostgresRepository) scopedWrite(ctx context.Context, id int64, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE id = $1`, id).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return ErrNotOwner
	}
	return ErrNotFound
}

var _ Repository = (*PostgresRepository)(nil)
