package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/nutricoach/backend/internal/dbx"
)

// MonthCount is one bucket of a per-month series, newest last.
type MonthCount struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

// Summary aggregates the platform-wide numbers behind the admin dashboard.
type Summary struct {
	TotalUsers          int64        `json:"totalUsers"`
	TotalProfiles       int64        `json:"totalProfiles"`
	Admins              int64        `json:"admins"`
	Nutritionists       int64        `json:"nutritionists"`
	Patients            int64        `json:"patients"`
	TotalAppointments   int64        `json:"totalAppointments"`
	AppointmentsMonth   int64        `json:"appointmentsThisMonth"`
	TotalMessages       int64        `json:"totalMessages"`
	TotalProgress       int64        `json:"totalProgressEntries"`
	ProgressMonth       int64        `json:"progressThisMonth"`
	SignupsByMonth      []MonthCount `json:"signupsByMonth"`
	AppointmentsByMonth []MonthCount `json:"appointmentsByMonth"`
	ProgressByMonth     []MonthCount `json:"progressByMonth"`
}

// Repository computes the admin statistics.
type Repository interface {
	Summary(ctx context.Context) (*Summary, error)
}

// PostgresRepository runs the aggregates directly against the relational
// store. The month-bucketing SQL is Postgres-specific.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Summary(ctx context.Context) (*Summary, error) {
	var s Summary

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE role = 'admin'),
		        COUNT(*) FILTER (WHERE role = 'nutritionist'),
		        COUNT(*) FILTER (WHERE role = 'patient')
		 FROM users`).Scan(&s.TotalUsers, &s.Admins, &s.Nutritionists, &s.Patients)
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles`).Scan(&s.TotalProfiles); err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE date_trunc('month', scheduled_at) = date_trunc('month', now()))
		 FROM appointments`).Scan(&s.TotalAppointments, &s.AppointmentsMonth)
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages`).Scan(&s.TotalMessages); err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE date_trunc('month', recorded_at) = date_trunc('month', now()))
		 FROM progress_entries`).Scan(&s.TotalProgress, &s.ProgressMonth)
	if err != nil {
		return nil, err
	}

	if s.SignupsByMonth, err = r.monthSeries(ctx, "users", "created_at"); err != nil {
		return nil, err
	}
	if s.AppointmentsByMonth, err = r.monthSeries(ctx, "appointments", "scheduled_at"); err != nil {
		return nil, err
	}
	if s.ProgressByMonth, err = r.monthSeries(ctx, "progress_entries", "recorded_at"); err != nil {
		return nil, err
	}
	return &s, nil
}

// monthSeries buckets the last six months of a table by a timestamp column.
// Table and column names are fixed call-site literals, never user input.
func (r *PostgresRepository) monthSeries(ctx context.Context, table, column string) ([]MonthCount, error) {
	query := fmt.Sprintf(
		`SELECT date_trunc('month', %[2]s) AS month, COUNT(*)
		 FROM %[1]s
		 WHERE %[2]s >= date_trunc('month', now()) - interval '5 months'
		 GROUP BY month
		 ORDER BY month`, table, column)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MonthCount{}
	for rows.Next() {
		var month time.Time
		var total int64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		out = append(out, MonthCount{Month: month.Format("2006-01"), Total: total})
	}
	return out, rows.Err()
}

var _ Repository = (*PostgresRepository)(nil)
