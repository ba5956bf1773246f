package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nutricoach/backend/internal/dbx"
	"github.com/nutricoach/backend/internal/models"
)

// Repository persists users and their profiles. Bind it to a *sql.Tx to make
// its operations part of a transaction.
type Repository struct {
	db dbx.DBTX
}

func NewRepository(db dbx.DBTX) *Repository {
	return &Repository{db: db}
}

// UserWithProfile is the admin listing row: a user LEFT JOINed with its
// profile (nil when none exists yet).
type UserWithProfile struct {
	models.User
	Profile *models.Profile `json:"profile"`
}

func (r *Repository) Insert(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		u.Name, u.Email, u.PasswordHash, u.Role.String(), u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE id = $1`, id))
}

// GetByEmail looks a user up case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

// EmailTaken reports whether another user (excluding excludeID, pass 0 for
// none) already owns the email.
func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2`,
		email, excludeID,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update rewrites the mutable user columns. PasswordHash is written as-is;
// callers keep the old hash when no new password was supplied.
func (r *Repository) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $1, email = $2, password_hash = $3, role = $4, updated_at = $5
		 WHERE id = $6`,
		u.Name, u.Email, u.PasswordHash, u.Role.String(), u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the user; the profile row cascades.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) ListWithProfiles(ctx context.Context) ([]*UserWithProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, u.role, u.created_at, u.updated_at,
		        p.user_id, p.avatar, p.phone, p.age, p.gender, p.address,
		        p.height_cm, p.weight_kg, p.specialty, p.updated_at
		 FROM users u
		 LEFT JOIN profiles p ON u.id = p.user_id
		 ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*UserWithProfile{}
	for rows.Next() {
		var (
			row       UserWithProfile
			roleStr   string
			profileID sql.NullInt64
			p         models.Profile
			updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&row.ID, &row.Name, &row.Email, &roleStr, &row.CreatedAt, &row.UpdatedAt,
			&profileID, &p.Avatar, &p.Phone, &p.Age, &p.Gender, &p.Address,
			&p.HeightCm, &p.WeightKg, &p.Specialty, &updatedAt,
		); err != nil {
			return nil, err
		}
		row.Role = models.Role(roleStr)
		if profileID.Valid {
			p.UserID = profileID.Int64
			if updatedAt.Valid {
				p.UpdatedAt = updatedAt.Time
			}
			row.Profile = &p
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// GetProfile returns the user's profile, or nil when none has been created.
func (r *Repository) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, avatar, phone, age, gender, address, height_cm, weight_kg, specialty, updated_at
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.Avatar, &p.Phone, &p.Age, &p.Gender, &p.Address,
		&p.HeightCm, &p.WeightKg, &p.Specialty, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// InsertProfile creates the lazy 1:1 profile row from the supplied fields;
// absent fields stay NULL.
func (r *Repository) InsertProfile(ctx context.Context, userID int64, patch ProfilePatch) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, avatar, phone, age, gender, address, height_cm, weight_kg, specialty, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		userID, patch.Avatar, patch.Phone, patch.Age, patch.Gender, patch.Address,
		patch.HeightCm, patch.WeightKg, patch.Specialty, time.Now().UTC())
	return err
}

// UpdateProfile applies only the supplied fields; nil pointers leave the
// stored value unchanged.
func (r *Repository) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) error {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Avatar != nil {
		add("avatar", *patch.Avatar)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Age != nil {
		add("age", *patch.Age)
	}
	if patch.Gender != nil {
		add("gender", *patch.Gender)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.HeightCm != nil {
		add("height_cm", *patch.HeightCm)
	}
	if patch.WeightKg != nil {
		add("weight_kg", *patch.WeightKg)
	}
	if patch.Specialty != nil {
		add("specialty", *patch.Specialty)
	}
	add("updated_at", time.Now().UTC())
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE user_id = $%d`,
		strings.Join(set, ", "), len(args))
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) scanUser(row *sql.Row) (*models.User, error) {
	var (
		u       models.User
		roleStr string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roleStr, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// no validation here: a drifted stored role is surfaced to callers
	u.Role = models.Role(roleStr)
	return &u, nil
}
