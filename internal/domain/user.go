package domain

import "time"

type User struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	SecretQuestion string    `json:"secret_question,omitempty"`
	SecretAnswer   string    `json:"-"`
	IsStaff        bool      `json:"is_staff"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileUpdate carries the optional fields of a profile edit. Nil means unchanged.
type ProfileUpdate struct {
	Username        *string
	Email           *string
	FirstName       *string
	LastName        *string
	SecretQuestion  *string
	SecretAnswer    string
	CurrentPassword string
	NewPassword     string
}
