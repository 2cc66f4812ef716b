package domain

// Identity is the authenticated caller as reported by the session provider.
// It is immutable for the lifetime of a session. Role is deliberately absent:
// it is always derived from Email by the role resolver.
type Identity struct {
	UserID UserID `json:"user_id"`
	Email  string `json:"email"`
}

// IsZero reports whether no identity is present.
func (i Identity) IsZero() bool {
	return i.UserID.IsNil()
}
