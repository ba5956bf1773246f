package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/stats"
	"github.com/nutricoach/backend/internal/users"
	"github.com/nutricoach/backend/pkg/middleware"
)

// CreateUserRequest is the admin user-creation payload: account fields plus
// an optional initial profile.
type CreateUserRequest struct {
	Name     string             `json:"name" binding:"required"`
	Email    string             `json:"email" binding:"required,email"`
	Password string             `json:"password" binding:"required,min=8"`
	Role     string             `json:"role" binding:"required"`
	Profile  users.ProfilePatch `json:"profile"`
}

// UpdateUserRequest is the admin edit payload. Password is optional; profile
// fields are patched individually.
type UpdateUserRequest struct {
	Name     string             `json:"name" binding:"required"`
	Email    string             `json:"email" binding:"required,email"`
	Role     string             `json:"role" binding:"required"`
	Password *string            `json:"password"`
	Profile  users.ProfilePatch `json:"profile"`
}

// UsersHandler serves the admin user-management surface.
type UsersHandler struct {
	users *users.Service
	stats stats.Repository
}

func NewUsersHandler(u *users.Service, st stats.Repository) *UsersHandler {
	return &UsersHandler{users: u, stats: st}
}

func (h *UsersHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("", auth, middleware.RequireRoles(models.RoleAdmin))
	g.GET("/users", h.List)
	g.POST("/users", h.Create)
	g.GET("/users/:id", h.Get)
	g.PUT("/users/:id", h.Update)
	g.DELETE("/users/:id", h.Delete)
	g.GET("/statistics", h.Statistics)
}

func (h *UsersHandler) List(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		writeInternal(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.AdminCreate(c.Request.Context(), users.AdminCreateInput{
		Name: req.Name, Email: req.Email, Password: req.Password,
		Role: role, Profile: req.Profile,
	})
	if err != nil {
		writeUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *UsersHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, p, err := h.users.GetWithProfile(c.Request.Context(), id)
	if err != nil {
		writeUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "profile": p})
}

func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.AdminUpdate(c.Request.Context(), id, users.AdminUpdateInput{
		Name: req.Name, Email: req.Email, Role: role,
		Password: req.Password, Profile: req.Profile,
	})
	if err != nil {
		writeUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *UsersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		writeUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *UsersHandler) Statistics(c *gin.Context) {
	s, err := h.stats.Summary(c.Request.Context())
	if err != nil {
		writeInternal(c, "statistics", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// pathID parses the :id route parameter, answering 400 itself on garbage.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
