package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutricoach/backend/internal/appointments"
	"github.com/nutricoach/backend/internal/models"
	plansvc "github.com/nutricoach/backend/internal/plans/service"
	"github.com/nutricoach/backend/internal/progress"
	"github.com/nutricoach/backend/pkg/middleware"
)

// PhotoStore is the slice of the object store the patient surface needs.
// Nil means photo uploads are not configured.
type PhotoStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// BookAppointmentRequest asks a nutritionist for a time slot.
type BookAppointmentRequest struct {
	NutritionistID int64     `json:"nutritionistId" binding:"required"`
	ScheduledAt    time.Time `json:"scheduledAt" binding:"required"`
}

// ProgressRequest records one physical measurement. The photo key, if any,
// comes from a prior upload to the photo endpoint.
type ProgressRequest struct {
	WeightKg   float64   `json:"weightKg" binding:"required,gt=0"`
	BodyFatPct *float64  `json:"bodyFatPct"`
	MusclePct  *float64  `json:"musclePct"`
	PhotoKey   *string   `json:"photoKey"`
	RecordedAt time.Time `json:"recordedAt"`
}

// PatientsHandler serves the patient-facing surface: assigned plans,
// appointment booking and progress tracking.
type PatientsHandler struct {
	plans  *plansvc.Service
	appts  appointments.Repository
	prog   progress.Repository
	photos PhotoStore
}

func NewPatientsHandler(p *plansvc.Service, a appointments.Repository, pr progress.Repository, ph PhotoStore) *PatientsHandler {
	return &PatientsHandler{plans: p, appts: a, prog: pr, photos: ph}
}

func (h *PatientsHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	patient := middleware.RequireRoles(models.RolePatient)
	rg.GET("/my-plans", auth, patient, h.ListPlans)
	rg.POST("/appointments", auth, patient, h.BookAppointment)
	rg.GET("/my-appointments", auth, patient, h.ListAppointments)
	rg.POST("/progress", auth, patient, h.RecordProgress)
	rg.GET("/my-progress", auth, patient, h.ListProgress)
	if h.photos != nil {
		rg.POST("/progress/photo", auth, patient, h.UploadPhoto)
	}
}

func (h *PatientsHandler) ListPlans(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	list, err := h.plans.ForPatient(c.Request.Context(), claims.UserID)
	if err != nil {
		writeInternal(c, "list plans", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": list})
}

func (h *PatientsHandler) BookAppointment(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := &models.Appointment{
		PatientID:      claims.UserID,
		NutritionistID: req.NutritionistID,
		ScheduledAt:    req.ScheduledAt,
	}
	if err := h.appts.Create(c.Request.Context(), a); err != nil {
		writeInternal(c, "book appointment", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": a})
}

func (h *PatientsHandler) ListAppointments(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	list, err := h.appts.ForPatient(c.Request.Context(), claims.UserID)
	if err != nil {
		writeInternal(c, "list appointments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": list})
}

func (h *PatientsHandler) RecordProgress(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RecordedAt.IsZero() {
		req.RecordedAt = time.Now().UTC()
	}
	e := &models.ProgressEntry{
		UserID:     claims.UserID,
		WeightKg:   req.WeightKg,
		BodyFatPct: req.BodyFatPct,
		MusclePct:  req.MusclePct,
		PhotoKey:   req.PhotoKey,
		RecordedAt: req.RecordedAt,
	}
	if err := h.prog.Create(c.Request.Context(), e); err != nil {
		if errors.Is(err, progress.ErrWeekTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "an entry for this week already exists"})
			return
		}
		writeInternal(c, "record progress", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": e})
}

func (h *PatientsHandler) ListProgress(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	list, err := h.prog.ForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		writeInternal(c, "list progress", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": list})
}

// UploadPhoto stores a progress photo and hands back the storage key plus a
// short-lived download link. The key is meant to be sent along with the next
// progress entry.
func (h *PatientsHandler) UploadPhoto(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("progress/%d/%s", claims.UserID, uuid.NewString())
	ct := header.Header.Get("Content-Type")
	if err := h.photos.Upload(c.Request.Context(), key, file, header.Size, ct); err != nil {
		writeInternal(c, "upload photo", err)
		return
	}
	url, err := h.photos.PresignedURL(c.Request.Context(), key, 15*time.Minute)
	if err != nil {
		writeInternal(c, "presign photo", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photoKey": key, "url": url})
}
