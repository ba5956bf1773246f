package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutricoach/backend/internal/appointments"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/plans"
	plansvc "github.com/nutricoach/backend/internal/plans/service"
	"github.com/nutricoach/backend/pkg/middleware"
)

// CreatePlanRequest is the nutritionist's plan-creation payload.
type CreatePlanRequest struct {
	PatientID   int64       `json:"patientId" binding:"required"`
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	Days        []plans.Day `json:"days"`
}

// AppointmentStatusRequest changes the state of a pending appointment.
type AppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var appointmentStatuses = map[string]bool{
	"pending": true, "confirmed": true, "cancelled": true, "completed": true,
}

// NutritionistsHandler serves the nutritionist surface: plan authoring,
// appointment management and the patient roster.
type NutritionistsHandler struct {
	plans *plansvc.Service
	appts appointments.Repository
}

func NewNutritionistsHandler(p *plansvc.Service, a appointments.Repository) *NutritionistsHandler {
	return &NutritionistsHandler{plans: p, appts: a}
}

func (h *NutritionistsHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	nutri := middleware.RequireRoles(models.RoleNutritionist)
	rg.POST("/nutrition-plans", auth, nutri, h.CreatePlan)
	rg.GET("/nutrition-plans", auth, nutri, h.ListPlans)
	rg.PUT("/nutrition-plans/:id", auth, nutri, h.ReplacePlan)
	rg.DELETE("/nutrition-plans/:id", auth, nutri, h.DeletePlan)
	rg.GET("/appointments", auth, nutri, h.ListAppointments)
	rg.PUT("/appointments/:id", auth, nutri, h.UpdateAppointmentStatus)
	rg.GET("/patients", auth, nutri, h.ListPatients)

	// a plan is readable by its author and by the patient it was written for
	rg.GET("/nutrition-plans/:id", auth,
		middleware.RequireRoles(models.RoleNutritionist, models.RolePatient), h.GetPlan)
}

func (h *NutritionistsHandler) CreatePlan(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.plans.Create(c.Request.Context(), claims.UserID, &plans.Plan{
		PatientID:   req.PatientID,
		Title:       req.Title,
		Description: req.Description,
		Days:        req.Days,
	})
	if err != nil {
		writePlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan": p})
}

func (h *NutritionistsHandler) ListPlans(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	list, err := h.plans.ForNutritionist(c.Request.Context(), claims.UserID)
	if err != nil {
		writeInternal(c, "list plans", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": list})
}

func (h *NutritionistsHandler) GetPlan(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	p, err := h.plans.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		writePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": p})
}

// ReplacePlan swaps the whole plan body. Days not present in the payload are
// gone afterwards; there is no partial patch.
func (h *NutritionistsHandler) ReplacePlan(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var body plans.PlanReplace
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.plans.Replace(c.Request.Context(), c.Param("id"), claims.UserID, body)
	if err != nil {
		writePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": p})
}

func (h *NutritionistsHandler) DeletePlan(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if err := h.plans.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		writePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}

func (h *NutritionistsHandler) ListAppointments(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	list, err := h.appts.ForNutritionist(c.Request.Context(), claims.UserID)
	if err != nil {
		writeInternal(c, "list appointments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": list})
}

func (h *NutritionistsHandler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !appointmentStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	if err := h.appts.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
			return
		}
		writeInternal(c, "update appointment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *NutritionistsHandler) ListPatients(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	list, err := h.appts.PatientsOf(c.Request.Context(), claims.UserID)
	if err != nil {
		writeInternal(c, "list patients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": list})
}
