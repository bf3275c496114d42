package entity

import (
	"time"
)

// Role is the permission tier of a profile. Clinicians hold full
// administrative and clinical rights; assistants hold clinical rights only.
type Role string

const (
	RoleClinician Role = "clinician"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether the role is one of the two known tiers.
func (r Role) IsValid() bool {
	return r == RoleClinician || r == RoleAssistant
}

// Profile is the domain record for an authenticated identity. The ID doubles
// as the identity ID; credentials live on the same row because this service
// owns authentication.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewProfile(id, email, passwordHash string, role Role) *Profile {
	return &Profile{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now(),
	}
}
