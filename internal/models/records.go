package models

import "time"

// Appointment links a patient with a nutritionist at a point in time.
type Appointment struct {
	ID             int64     `json:"id"`
	PatientID      int64     `json:"patientId"`
	NutritionistID int64     `json:"nutritionistId"`
	ScheduledAt    time.Time `json:"scheduledAt"`
	Status         string    `json:"status"`
}

// AppointmentView is an appointment joined with the counterparty's name,
// as returned by the listing endpoints.
type AppointmentView struct {
	ID          int64     `json:"id"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	With        string    `json:"with"`
}

// Message is a direct message between two users.
type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"senderId"`
	RecipientID int64     `json:"recipientId"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProgressEntry records a physical-progress measurement. At most one entry
// per user per ISO week is accepted.
type ProgressEntry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	WeightKg   float64   `json:"weightKg"`
	BodyFatPct *float64  `json:"bodyFatPct"`
	MusclePct  *float64  `json:"musclePct"`
	PhotoKey   *string   `json:"photoKey"`
	RecordedAt time.Time `json:"recordedAt"`
}
