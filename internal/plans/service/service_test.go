package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nutricoach/backend/internal/plans"
	"github.com/nutricoach/backend/internal/plans/repository"
)

type fakeDirectory struct {
	patients map[int64]bool
}

func (f *fakeDirectory) IsPatient(_ context.Context, id int64) (bool, error) {
	return f.patients[id], nil
}

func newService() *Service {
	return New(repository.NewMemoryRepo(), &fakeDirectory{patients: map[int64]bool{1: true}})
}

func validPlan() *plans.Plan {
	return &plans.Plan{
		PatientID: 1,
		Title:     "cutting phase",
		Days: []plans.Day{{
			Day: "monday",
			Meals: []plans.Meal{{
				Moment: "breakfast", Calories: 420,
				Foods: []plans.Food{{Name: "oats", Amount: "60g"}},
			}},
		}},
	}
}

func TestService_Create(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, 2, validPlan())
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, int64(2), p.NutritionistID, "author is taken from the caller, not the payload")
}

func TestService_Create_Validation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	missing := validPlan()
	missing.Title = ""
	_, err := svc.Create(ctx, 2, missing)
	require.ErrorIs(t, err, ErrValidation)

	badDay := validPlan()
	badDay.Days[0].Day = ""
	_, err = svc.Create(ctx, 2, badDay)
	require.ErrorIs(t, err, ErrValidation)

	badMeal := validPlan()
	badMeal.Days[0].Meals[0].Moment = ""
	_, err = svc.Create(ctx, 2, badMeal)
	require.ErrorIs(t, err, ErrValidation)

	noPatient := validPlan()
	noPatient.PatientID = 42
	_, err = svc.Create(ctx, 2, noPatient)
	require.ErrorIs(t, err, ErrValidation)
}

func TestService_Get_AccessControl(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, 2, validPlan())
	require.NoError(t, err)

	// patient and author can read
	_, err = svc.Get(ctx, p.ID, 1)
	require.NoError(t, err)
	_, err = svc.Get(ctx, p.ID, 2)
	require.NoError(t, err)

	// anyone else cannot
	_, err = svc.Get(ctx, p.ID, 3)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, "missing", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_Replace(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, 2, validPlan())
	require.NoError(t, err)

	body := plans.PlanReplace{Title: "maintenance", Days: []plans.Day{{Day: "friday"}}}
	got, err := svc.Replace(ctx, p.ID, 2, body)
	require.NoError(t, err)
	require.Equal(t, "maintenance", got.Title)
	require.Equal(t, "friday", got.Days[0].Day)

	_, err = svc.Replace(ctx, p.ID, 2, plans.PlanReplace{Title: ""})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Replace(ctx, p.ID, 99, body)
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestService_Delete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, 2, validPlan())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, p.ID, 99), ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, p.ID, 2))
	require.ErrorIs(t, svc.Delete(ctx, p.ID, 2), ErrNotFound)
}
