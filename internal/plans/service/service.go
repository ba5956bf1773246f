package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nutricoach/backend/internal/plans"
	"github.com/nutricoach/backend/internal/plans/repository"
)

var (
	ErrNotFound   = repository.ErrNotFound
	ErrNotOwner   = repository.ErrNotOwner
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("plan is not accessible to this user")
)

// PatientDirectory answers whether a user id belongs to an existing patient.
// The relational user store implements it.
type PatientDirectory interface {
	IsPatient(ctx context.Context, id int64) (bool, error)
}

// Service owns nutrition plan business rules: who may create, edit and read
// a plan, and what a well-formed plan document looks like.
type Service struct {
	repo     repository.Repository
	patients PatientDirectory
}

func New(repo repository.Repository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients}
}

// Create validates and stores a new plan authored by the given nutritionist.
func (s *Service) Create(ctx context.Context, nutritionistID int64, p *plans.Plan) (*plans.Plan, error) {
	p.NutritionistID = nutritionistID
	if p.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if p.PatientID == 0 {
		return nil, fmt.Errorf("%w: patientId is required", ErrValidation)
	}
	if err := validateDays(p.Days); err != nil {
		return nil, err
	}
	ok, err := s.patients.IsPatient(ctx, p.PatientID)
	if err != nil {
		return nil, fmt.Errorf("patient lookup: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: patient %d does not exist", ErrValidation, p.PatientID)
	}
	if _, err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("store plan: %w", err)
	}
	return p, nil
}

// Get returns a plan if the requester is its patient or its author.
func (s *Service) Get(ctx context.Context, id string, requesterID int64) (*plans.Plan, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PatientID != requesterID && p.NutritionistID != requesterID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *Service) ForPatient(ctx context.Context, patientID int64) ([]*plans.Plan, error) {
	return s.repo.ForPatient(ctx, patientID)
}

func (s *Service) ForNutritionist(ctx context.Context, nutritionistID int64) ([]*plans.Plan, error) {
	return s.repo.ForNutritionist(ctx, nutritionistID)
}

// Replace swaps the document body of a plan owned by the nutritionist.
func (s *Service) Replace(ctx context.Context, id string, nutritionistID int64, body plans.PlanReplace) (*plans.Plan, error) {
	if body.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := validateDays(body.Days); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, id, nutritionistID, body); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string, nutritionistID int64) error {
	return s.repo.Delete(ctx, id, nutritionistID)
}

func validateDays(days []plans.Day) error {
	for _, d := range days {
		if d.Day == "" {
			return fmt.Errorf("%w: day name is required", ErrValidation)
		}
		for _, m := range d.Meals {
			if m.Moment == "" {
				return fmt.Errorf("%w: meal moment is required", ErrValidation)
			}
		}
	}
	return nil
}
