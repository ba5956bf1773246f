package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	plansvc "github.com/nutricoach/backend/internal/plans/service"
	"github.com/nutricoach/backend/internal/users"
	"github.com/nutricoach/backend/pkg/logger"
)

// writeUserServiceError maps user-service failures to HTTP statuses.
// Unexpected errors are logged and returned as a sanitized 500.
func writeUserServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		logger.Errorf("user service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// writePlanError maps plan-service failures to HTTP statuses.
func writePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, plansvc.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, plansvc.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
	case errors.Is(err, plansvc.ErrNotOwner), errors.Is(err, plansvc.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		logger.Errorf("plan service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func writeInternal(c *gin.Context, what string, err error) {
	logger.Errorf("%s: %v", what, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
