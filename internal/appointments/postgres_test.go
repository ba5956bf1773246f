package appointments

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nutricoach/backend/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE profiles (
    user_id    INTEGER PRIMARY KEY REFERENCES users (id) ON DELETE CASCADE,
    avatar     TEXT,
    phone      TEXT,
    age        INTEGER,
    gender     TEXT,
    address    TEXT,
    height_cm  REAL,
    weight_kg  REAL,
    specialty  TEXT,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE appointments (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    patient_id      INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    nutritionist_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    scheduled_at    TIMESTAMP NOT NULL,
    status          TEXT NOT NULL DEFAULT 'pending'
);`)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *sql.DB, name string, role models.Role) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(
		`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, 'h', $3) RETURNING id`,
		name, name+"@x.com", string(role),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPostgresRepository_CreateAndListBothSides(t *testing.T) {
	db := testDB(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	patient := seedUser(t, db, "ana", models.RolePatient)
	nutri := seedUser(t, db, "bruno", models.RoleNutritionist)

	a := &models.Appointment{
		PatientID:      patient,
		NutritionistID: nutri,
		ScheduledAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, a))
	require.NotZero(t, a.ID)
	require.Equal(t, "pending", a.Status)

	forPatient, err := repo.ForPatient(ctx, patient)
	require.NoError(t, err)
	require.Len(t, forPatient, 1)
	require.Equal(t, "bruno", forPatient[0].With)

	forNutri, err := repo.ForNutritionist(ctx, nutri)
	require.NoError(t, err)
	require.Len(t, forNutri, 1)
	require.Equal(t, "ana", forNutri[0].With)

	// the other side of each list stays empty
	empty, err := repo.ForPatient(ctx, nutri)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestPostgresRepository_UpdateStatus(t *testing.T) {
	db := testDB(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	patient := seedUser(t, db, "ana", models.RolePatient)
	nutri := seedUser(t, db, "bruno", models.RoleNutritionist)

	a := &models.Appointment{PatientID: patient, NutritionistID: nutri, ScheduledAt: time.Now()}
	require.NoError(t, repo.Create(ctx, a))

	require.NoError(t, repo.UpdateStatus(ctx, a.ID, "confirmed"))

	got, err := repo.ForPatient(ctx, patient)
	require.NoError(t, err)
	require.Equal(t, "confirmed", got[0].Status)

	require.ErrorIs(t, repo.UpdateStatus(ctx, 9999, "confirmed"), ErrNotFound)
}

func TestPostgresRepository_PatientsOf(t *testing.T) {
	db := testDB(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	ana := seedUser(t, db, "ana", models.RolePatient)
	carla := seedUser(t, db, "carla", models.RolePatient)
	nutri := seedUser(t, db, "bruno", models.RoleNutritionist)

	_, err := db.Exec(`INSERT INTO profiles (user_id, phone, height_cm) VALUES ($1, '555-0101', 170)`, ana)
	require.NoError(t, err)

	// two appointments for ana, one for carla: the roster must stay distinct
	for _, pid := range []int64{ana, ana, carla} {
		require.NoError(t, repo.Create(ctx, &models.Appointment{
			PatientID: pid, NutritionistID: nutri, ScheduledAt: time.Now(),
		}))
	}

	roster, err := repo.PatientsOf(ctx, nutri)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	require.Equal(t, "ana", roster[0].Name)
	require.NotNil(t, roster[0].Phone)
	require.Equal(t, "555-0101", *roster[0].Phone)
	require.Equal(t, "carla", roster[1].Name)
	require.Nil(t, roster[1].Phone)
}
