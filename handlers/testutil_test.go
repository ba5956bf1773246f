package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nutricoach/backend/internal/appointments"
	"github.com/nutricoach/backend/internal/messages"
	"github.com/nutricoach/backend/internal/models"
	plansrepo "github.com/nutricoach/backend/internal/plans/repository"
	plansvc "github.com/nutricoach/backend/internal/plans/service"
	"github.com/nutricoach/backend/internal/progress"
	"github.com/nutricoach/backend/internal/stats"
	"github.com/nutricoach/backend/internal/tokens"
	"github.com/nutricoach/backend/internal/users"
	"github.com/nutricoach/backend/pkg/middleware"
)

const testSchema = `PRAGMA foreign_keys = ON;
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX users_email_lower_idx ON users (LOWER(email));
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
);
CREATE TABLE messages (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    sender_id    INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    recipient_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    body         TEXT NOT NULL,
    read         BOOLEAN NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE progress_entries (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    weight_kg    REAL NOT NULL,
    body_fat_pct REAL,
    muscle_pct   REAL,
    photo_key    TEXT,
    recorded_at  TIMESTAMP NOT NULL
);`

type fakeStats struct{}

func (fakeStats) Summary(context.Context) (*stats.Summary, error) {
	return &stats.Summary{
		TotalUsers: 3, TotalProfiles: 2, Patients: 2, Nutritionists: 1,
		TotalAppointments: 4, AppointmentsMonth: 1,
		TotalProgress: 5, ProgressMonth: 1,
		SignupsByMonth:      []stats.MonthCount{{Month: "2026-08", Total: 3}},
		AppointmentsByMonth: []stats.MonthCount{{Month: "2026-07", Total: 3}, {Month: "2026-08", Total: 1}},
		ProgressByMonth:     []stats.MonthCount{{Month: "2026-08", Total: 5}},
	}, nil
}

// fakePhotos keeps uploaded objects in memory.
type fakePhotos struct {
	mu   sync.Mutex
	keys map[string]string
}

func newFakePhotos() *fakePhotos { return &fakePhotos{keys: map[string]string{}} }

func (f *fakePhotos) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if _, err := io.ReadAll(r); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key] = contentType
	return nil
}

func (f *fakePhotos) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://photos.test/" + key + "?sig=abc", nil
}

type testEnv struct {
	db     *sql.DB
	users  *users.Service
	issuer *tokens.Issuer
	photos *fakePhotos
}

// newTestServer wires the full route table against an in-memory relational
// store and an in-memory plan store.
func newTestServer(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	env := &testEnv{
		db:     db,
		users:  users.NewService(db),
		issuer: tokens.NewIssuer("test-secret", time.Hour),
		photos: newFakePhotos(),
	}

	planSvc := plansvc.New(plansrepo.NewMemoryRepo(), env.users)
	apptRepo := appointments.NewPostgresRepository(db)
	msgRepo := messages.NewPostgresRepository(db)
	progRepo := progress.NewPostgresRepository(db)

	r := gin.New()
	auth := middleware.Auth(env.issuer)
	api := r.Group("/api")
	NewAuthHandler(env.users, env.issuer).Register(api)
	NewProfileHandler(env.users).Register(api, auth)
	NewUsersHandler(env.users, fakeStats{}).Register(api, auth)
	NewPatientsHandler(planSvc, apptRepo, progRepo, env.photos).Register(api, auth)
	NewNutritionistsHandler(planSvc, apptRepo).Register(api, auth)
	NewMessagesHandler(msgRepo).Register(api, auth)
	return r, env
}

// seedUser creates an account directly through the service and returns its id
// and a valid token.
func (env *testEnv) seedUser(t *testing.T, name, email string, role models.Role) (int64, string) {
	t.Helper()
	u, err := env.users.Register(context.Background(), users.RegisterInput{
		Name: name, Email: email, Password: "password1", Role: role,
	})
	require.NoError(t, err)
	token, err := env.issuer.Issue(u.ID, role)
	require.NoError(t, err)
	return u.ID, token
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
