package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Profile represents a learner on this device
type Profile struct {
	ID   uuid.UUID `json:"id"` // unique identifier
	Name string    `json:"name"`

	CreatedAt time.Time `json:"created_at"`
}

// CreateProfileInput is what we expect when creating a new profile
type CreateProfileInput struct {
	Name string `json:"name"`
}

// String provides a string representation of the profile
// This is useful for logging and debugging
func (p *Profile) String() string {
	return fmt.Sprintf("Profile(ID=%s, Name=%s)", p.ID, p.Name)
}
