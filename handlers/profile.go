package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutricoach/backend/internal/users"
	"github.com/nutricoach/backend/pkg/middleware"
)

// ProfileHandler serves the caller's own account and profile.
type ProfileHandler struct {
	users *users.Service
}

func NewProfileHandler(u *users.Service) *ProfileHandler {
	return &ProfileHandler{users: u}
}

func (h *ProfileHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("", auth)
	g.GET("/profile", h.Get)
	g.PUT("/profile", h.Update)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	u, p, err := h.users.GetWithProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		writeUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "profile": p})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var patch users.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.users.UpdateProfile(c.Request.Context(), claims.UserID, patch)
	if err != nil {
		writeUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}
