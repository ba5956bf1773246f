package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricoach/backend/internal/models"
)

func TestProfileGetAndPatch(t *testing.T) {
	r, env := newTestServer(t)
	_, token := env.seedUser(t, "Ana", "ana@x.com", models.RolePatient)

	// no profile yet
	w := doJSON(t, r, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Nil(t, body["profile"])
	assert.Equal(t, "Ana", body["user"].(map[string]any)["name"])

	// first write creates the row
	w = doJSON(t, r, http.MethodPut, "/api/profile", token, gin.H{
		"phone": "555-0101", "heightCm": 170.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// partial patch keeps earlier fields
	w = doJSON(t, r, http.MethodPut, "/api/profile", token, gin.H{"weightKg": 64.0})
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)["profile"].(map[string]any)
	assert.Equal(t, "555-0101", profile["phone"])
	assert.Equal(t, 170.0, profile["heightCm"])
	assert.Equal(t, 64.0, profile["weightKg"])
}

func TestProfile_RequiresAuth(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
