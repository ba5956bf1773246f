package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nutricoach/backend/internal/dbx"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/passwords"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
)

// ProfilePatch carries the profile fields of a write request. A nil pointer
// means "not supplied": on insert the column stays NULL, on update the stored
// value is kept.
type ProfilePatch struct {
	Avatar    *string  `json:"avatar"`
	Phone     *string  `json:"phone"`
	Age       *int64   `json:"age"`
	Gender    *string  `json:"gender"`
	Address   *string  `json:"address"`
	HeightCm  *float64 `json:"heightCm"`
	WeightKg  *float64 `json:"weightKg"`
	Specialty *string  `json:"specialty"`
}

// Service encapsulates user business logic: registration, login and the
// admin user+profile write path.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// RegisterInput is a self-service registration request. Field syntax
// (email format, password length) is validated at the HTTP boundary.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// Register creates a bare user account. The profile is created lazily later.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	repo := NewRepository(s.db)

	taken, err := repo.EmailTaken(ctx, in.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("email lookup: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: in.Role}
	if err := repo.Insert(ctx, u); err != nil {
		if isEmailConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// isEmailConflict detects the unique index on LOWER(email) rejecting a write:
// the losing side of two concurrent requests that both passed EmailTaken.
// Drivers without typed unique-violation errors name the index in the text.
func isEmailConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "users_email_lower_idx"
	}
	return strings.Contains(err.Error(), "users_email_lower_idx")
}

// Login authenticates by email and password. ErrNotFound for an unknown
// email, ErrInvalidCredentials for a wrong password. The caller is
// responsible for checking the stored role before issuing a token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := NewRepository(s.db).GetByEmail(ctx, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if !passwords.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// AdminCreateInput is an admin user-creation request: account fields plus an
// optional initial profile.
type AdminCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Profile  ProfilePatch
}

// AdminCreate creates a user and its profile as one atomic unit. A profile
// without a user, or a half-written user, must never be observable.
func (s *Service) AdminCreate(ctx context.Context, in AdminCreateInput) (*models.User, error) {
	if err := validateProfileForRole(in.Role, in.Profile); err != nil {
		return nil, err
	}

	taken, err := NewRepository(s.db).EmailTaken(ctx, in.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("email lookup: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: in.Role}
	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewRepository(tx)
		if err := repo.Insert(ctx, u); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if err := repo.InsertProfile(ctx, u.ID, in.Profile); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
	if err != nil {
		if isEmailConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// AdminUpdateInput is an admin edit: account fields are replaced, the
// password only when supplied, and profile fields patched individually.
type AdminUpdateInput struct {
	Name     string
	Email    string
	Role     models.Role
	Password *string
	Profile  ProfilePatch
}

// AdminUpdate rewrites a user and patches its profile in one transaction.
// When no profile row exists yet it is created from the supplied fields.
//
// The profile existence check and the following write are not serialized
// against concurrent edits of the same user; concurrent patches resolve as
// last-writer-wins on the profile row.
func (s *Service) AdminUpdate(ctx context.Context, id int64, in AdminUpdateInput) (*models.User, error) {
	repo := NewRepository(s.db)

	u, err := repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	taken, err := repo.EmailTaken(ctx, in.Email, id)
	if err != nil {
		return nil, fmt.Errorf("email lookup: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if in.Password != nil {
		hash, err := passwords.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	u.Name = in.Name
	u.Email = in.Email
	u.Role = in.Role

	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := NewRepository(tx)
		if err := txRepo.Update(ctx, u); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		existing, err := txRepo.GetProfile(ctx, id)
		if err != nil {
			return fmt.Errorf("profile lookup: %w", err)
		}
		if existing == nil {
			if err := txRepo.InsertProfile(ctx, id, in.Profile); err != nil {
				return fmt.Errorf("insert profile: %w", err)
			}
			return nil
		}
		if err := txRepo.UpdateProfile(ctx, id, in.Profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		if isEmailConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// GetWithProfile returns the user and its profile (nil until first write).
func (s *Service) GetWithProfile(ctx context.Context, id int64) (*models.User, *models.Profile, error) {
	repo := NewRepository(s.db)
	u, err := repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("user lookup: %w", err)
	}
	p, err := repo.GetProfile(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("profile lookup: %w", err)
	}
	return u, p, nil
}

// UpdateProfile patches the caller's own profile, creating the row on first
// write. Account fields (email, role, password) are not touchable here.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*models.Profile, error) {
	if _, err := NewRepository(s.db).GetByID(ctx, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := NewRepository(tx)
		existing, err := txRepo.GetProfile(ctx, userID)
		if err != nil {
			return fmt.Errorf("profile lookup: %w", err)
		}
		if existing == nil {
			return txRepo.InsertProfile(ctx, userID, patch)
		}
		return txRepo.UpdateProfile(ctx, userID, patch)
	})
	if err != nil {
		return nil, err
	}
	return NewRepository(s.db).GetProfile(ctx, userID)
}

// IsPatient reports whether the id belongs to an existing patient account.
func (s *Service) IsPatient(ctx context.Context, id int64) (bool, error) {
	u, err := NewRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("user lookup: %w", err)
	}
	return u.Role == models.RolePatient, nil
}

func (s *Service) List(ctx context.Context) ([]*UserWithProfile, error) {
	return NewRepository(s.db).ListWithProfiles(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := NewRepository(s.db).Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// validateProfileForRole enforces role-conditional required fields on
// creation: nutritionists need a specialty, patients their measurements.
func validateProfileForRole(role models.Role, p ProfilePatch) error {
	switch role {
	case models.RoleNutritionist:
		if p.Specialty == nil || *p.Specialty == "" {
			return fmt.Errorf("%w: specialty is required for nutritionists", ErrValidation)
		}
	case models.RolePatient:
		if p.HeightCm == nil || p.WeightKg == nil {
			return fmt.Errorf("%w: height and weight are required for patients", ErrValidation)
		}
	}
	return nil
}
