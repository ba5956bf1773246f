package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSwaggerEndpoints(t *testing.T) {
	g := gin.New()
	RegisterSwagger(g)

	req := httptest.NewRequest("GET", "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "swagger-ui")

	req2 := httptest.NewRequest("GET", "/swagger/doc.json", nil)
	w2 := httptest.NewRecorder()
	g.ServeHTTP(w2, req2)
	require.Equal(t, 200, w2.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &doc))
	paths := doc["paths"].(map[string]any)
	require.Contains(t, paths, "/api/login")
	require.Contains(t, paths, "/api/users")
	require.Contains(t, paths, "/api/nutrition-plans")
	require.Contains(t, paths, "/api/progress")
}
