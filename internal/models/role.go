package models

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of account roles. Stored as text in the users table
// and embedded in token claims; anything outside the set is rejected at the
// boundary so handlers never see a free-form role string.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleNutritionist Role = "nutritionist"
	RolePatient      Role = "patient"
)

// Valid reports whether r is a member of the role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNutritionist, RolePatient:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
