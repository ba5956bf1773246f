package appointments

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

func (r *PostgresRepository) Create(ctx context.Context, a *models.Appointment) error {
	if a.Status == "" {
		a.Status = "pending"
	}
	return r.db.QueryRowContext(ctx,
		`INSERT INTO appointments (patient_id, nutritionist_id, scheduled_at, status)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		a.PatientID, a.NutritionistID, a.ScheduledAt, a.Status,
	).Scan(&a.ID)
}

func (r *PostgresRepository) ForPatient(ctx context.Context, patientID int64) ([]*models.AppointmentView, error) {
	return r.views(ctx,
		`SELECT a.id, a.scheduled_at, a.status, u.name
		 FROM appointments a
		 JOIN users u ON a.nutritionist_id = u.id
		 WHERE a.patient_id = $1
		 ORDER BY a.scheduled_at`, patientID)
}

func (r *PostgresRepository) ForNutritionist(ctx context.Context, nutritionistID int64) ([]*models.AppointmentView, error) {
	return r.views(ctx,
		`SELECT a.id, a.scheduled_at, a.status, u.name
		 FROM appointments a
		 JOIN users u ON a.patient_id = u.id
		 WHERE a.nutritionist_id = $1
		 ORDER BY a.scheduled_at`, nutritionistID)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) PatientsOf(ctx context.Context, nutritionistID int64) ([]*PatientSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT u.id, u.name, u.email,
		        p.phone, p.age, p.gender, p.address, p.height_cm, p.weight_kg
		 FROM appointments a
		 JOIN users u ON a.patient_id = u.id
		 LEFT JOIN profiles p ON u.id = p.user_id
		 WHERE a.nutritionist_id = $1
		 ORDER BY u.id`, nutritionistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*PatientSummary{}
	for rows.Next() {
		var s PatientSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email,
			&s.Phone, &s.Age, &s.Gender, &s.Address, &s.HeightCm, &s.WeightKg); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) views(ctx context.Context, query string, arg any) ([]*models.AppointmentView, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.AppointmentView{}
	for rows.Next() {
		var v models.AppointmentView
		if err := rows.Scan(&v.ID, &v.ScheduledAt, &v.Status, &v.With); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

var _ Repository = (*PostgresRepository)(nil)
