package handler

import (
	"eventgate/internal/role"
	"eventgate/pkg/domain"
)

// CredentialsRequest is the body of sign-up and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	UserID       domain.UserID     `json:"user_id"`
	Email        string            `json:"email"`
	Role         string            `json:"role"`
	Capabilities role.Capabilities `json:"capabilities"`
}

// MeResponse is the profile view: the caller plus directory counts.
type MeResponse struct {
	UserResponse
	Stats *ProfileStats `json:"stats,omitempty"`
}

type ProfileStats struct {
	TotalEvents   int `json:"total_events"`
	MyEventsCount int `json:"my_events_count"`
}

type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      UserResponse `json:"user"`
	Message   string       `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
