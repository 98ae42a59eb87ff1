package models

import "time"

const (
	StatusInactive = "inactive"
	StatusActive   = "active"
)

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"` // never serialized
	RoleID       int    `json:"role_id"`
	Status       string `json:"status"` // inactive until the OTP is confirmed

	// activation OTP; both nil outside a pending verification
	OTPCode      *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`

	// single-use password reset token, nil outside an active reset flow
	ResetToken *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
