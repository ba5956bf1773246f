package models

import "time"

// User is the identity record backing every account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the optional 1:1 extension of a User. It is created lazily on
// the first profile write and removed with the owning user. Nullable columns
// map to pointers so "not set" survives a round trip.
type Profile struct {
	UserID    int64     `json:"userId"`
	Avatar    *string   `json:"avatar"`
	Phone     *string   `json:"phone"`
	Age       *int64    `json:"age"`
	Gender    *string   `json:"gender"`
	Address   *string   `json:"address"`
	HeightCm  *float64  `json:"heightCm"`
	WeightKg  *float64  `json:"weightKg"`
	Specialty *string   `json:"specialty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
