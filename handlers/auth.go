package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/tokens"
	"github.com/nutricoach/backend/internal/users"
	"github.com/nutricoach/backend/pkg/metrics"
)

// RegisterRequest is the self-service signup payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest is the password login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler serves registration and login.
type AuthHandler struct {
	users  *users.Service
	issuer *tokens.Issuer
}

func NewAuthHandler(u *users.Service, issuer *tokens.Issuer) *AuthHandler {
	return &AuthHandler{users: u, issuer: issuer}
}

func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/register", h.SignUp)
	rg.POST("/login", h.Login)
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.Register(c.Request.Context(), users.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: role,
	})
	if err != nil {
		writeUserServiceError(c, err)
		return
	}
	metrics.Registrations.WithLabelValues(string(role)).Inc()
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		switch {
		case errors.Is(err, users.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, users.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			writeInternal(c, "login", err)
		}
		return
	}

	// a stored role outside the known set means the account cannot be
	// authorized anywhere; refuse to issue a token for it
	if !u.Role.Valid() {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": "account role is not recognized"})
		return
	}

	token, err := h.issuer.Issue(u.ID, u.Role)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		writeInternal(c, "issue token", err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"role":    u.Role,
		"user":    u,
		"message": welcomeFor(u.Role, u.Name),
	})
}

func welcomeFor(role models.Role, name string) string {
	switch role {
	case models.RoleAdmin:
		return "Welcome back, " + name + ". Admin dashboard is ready."
	case models.RoleNutritionist:
		return "Welcome back, " + name + ". Your patients are waiting."
	default:
		return "Welcome back, " + name + "."
	}
}
