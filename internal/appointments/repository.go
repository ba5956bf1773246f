package appointments

import (
	"context"
	"errors"

	"github.com/nutricoach/backend/internal/models"
)

var ErrNotFound = errors.New("appointment not found")

// PatientSummary is a row of a nutritionist's patient roster: the patient
// joined with profile data when present.
type PatientSummary struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    *string  `json:"phone"`
	Age      *int64   `json:"age"`
	Gender   *string  `json:"gender"`
	Address  *string  `json:"address"`
	HeightCm *float64 `json:"heightCm"`
	WeightKg *float64 `json:"weightKg"`
}

// Repository persists appointments between patients and nutritionists.
type Repository interface {
	Create(ctx context.Context, a *models.Appointment) error
	ForPatient(ctx context.Context, patientID int64) ([]*models.AppointmentView, error)
	ForNutritionist(ctx context.Context, nutritionistID int64) ([]*models.AppointmentView, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	PatientsOf(ctx context.Context, nutritionistID int64) ([]*PatientSummary, error)
}
