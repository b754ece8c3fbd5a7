package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered student account. Email is restricted to the
// institutional domain at registration time.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	PhotoURL       string    `json:"photoURL,omitempty"`
	Year           string    `json:"year,omitempty"`
	Section        string    `json:"section,omitempty"`
	Branch         string    `json:"branch,omitempty"`
	Pronouns       string    `json:"pronouns,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the editable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photoURL,omitempty"`
	Year     *string `json:"year,omitempty"`
	Section  *string `json:"section,omitempty"`
	Branch   *string `json:"branch,omitempty"`
	Pronouns *string `json:"pronouns,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}
