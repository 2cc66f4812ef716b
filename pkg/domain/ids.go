// Package domain holds identifier and identity types shared by every feature
// package. IDs are distinct named types so a user ID can never be passed where
// an event ID is expected.
package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "eventgate/pkg/domain-errors"
)

// maxUserIDLength bounds opaque user identifiers handed to us by the session provider.
const maxUserIDLength = 128

// UserID is the opaque identifier the session provider assigns to an account.
type UserID string

// EventID identifies an event. The persistence layer assigns it as a UUID.
type EventID string

func (id UserID) String() string  { return string(id) }
func (id EventID) String() string { return string(id) }

// IsNil reports whether the ID is empty.
func (id UserID) IsNil() bool  { return id == "" }
func (id EventID) IsNil() bool { return id == "" }

// ParseUserID validates an opaque user identifier at a trust boundary.
// It must be non-empty, valid UTF-8, free of whitespace and control
// characters, and at most 128 bytes.
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user ID is required")
	}
	if len(s) > maxUserIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user ID is too long")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user ID must be valid UTF-8")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "user ID contains invalid characters")
		}
	}
	return UserID(s), nil
}

// ParseEventID validates an event identifier. Event IDs are canonical
// lower-case UUIDs; the nil UUID is rejected.
func ParseEventID(s string) (EventID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "event ID is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid event ID format")
	}
	if parsed == uuid.Nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "event ID cannot be nil")
	}
	return EventID(parsed.String()), nil
}

// NewEventID allocates a fresh event identifier.
func NewEventID() EventID {
	return EventID(uuid.NewString())
}
