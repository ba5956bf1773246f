package repository

import (
	"context"
	"errors"

	"github.com/nutricoach/backend/internal/plans"
)

var (
	ErrNotFound = errors.New("plan not found")
	ErrNotOwner = errors.New("plan belongs to another nutritionist")
)

// Repository stores nutrition plan documents. Writes other than Create are
// scoped to the owning nutritionist.
type Repository interface {
	Create(ctx context.Context, p *plans.Plan) (string, error)
	Get(ctx context.Context, id string) (*plans.Plan, error)
	ForPatient(ctx context.Context, patientID int64) ([]*plans.Plan, error)
	ForNutritionist(ctx context.Context, nutritionistID int64) ([]*plans.Plan, error)
	Replace(ctx context.Context, id string, nutritionistID int64, body plans.PlanReplace) error
	Delete(ctx context.Context, id string, nutritionistID int64) error
}
