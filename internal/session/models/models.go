package models

import (
	"strings"
	"time"

	"eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/email"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 8

// Account is a registered user. Role is never stored; it is derived from
// Email on every read.
type Account struct {
	UserID       domain.UserID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity returns the public identity of the account.
func (a *Account) Identity() domain.Identity {
	return domain.Identity{UserID: a.UserID, Email: a.Email}
}

// Credentials is an email and password pair supplied at sign-up or login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims and lowercases the email. The password is left as typed.
func (c *Credentials) Normalize() {
	c.Email = email.Normalize(c.Email)
}

// ValidateSignUp enforces the sign-up rules on normalized credentials.
func (c *Credentials) ValidateSignUp() error {
	if c.Email == "" || c.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email and password are required")
	}
	if !email.Valid(c.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "please enter a valid email address")
	}
	if len(c.Password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}
	return nil
}

// ValidateLogin only requires both fields to be present.
func (c *Credentials) ValidateLogin() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email and password are required")
	}
	return nil
}

// Result is returned by a successful sign-up or login.
type Result struct {
	Identity  domain.Identity
	Token     string
	ExpiresAt time.Time
	Message   string
}

// ChangeKind names a session transition.
type ChangeKind string

const (
	ChangeSignedUp  ChangeKind = "signed_up"
	ChangeLoggedIn  ChangeKind = "logged_in"
	ChangeLoggedOut ChangeKind = "logged_out"
)

// Change is delivered to subscribers after each transition.
type Change struct {
	Kind     ChangeKind
	Identity domain.Identity
}
