// Package role maps an authenticated identity to a role and answers
// capability questions about it.
//
// Role is never stored. It is recomputed from the identity's email on every
// call, so it cannot drift from the email that produced it.
package role

import "encoding/json"

// Role is the closed set of roles. The zero value is Participant so an
// unset role never grants elevated capability.
type Role int

const (
	Participant Role = iota
	Organizer
)

func (r Role) String() string {
	switch r {
	case Participant:
		return "participant"
	case Organizer:
		return "organizer"
	default:
		return "unknown"
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// Capabilities lists the actions a role may perform.
type Capabilities struct {
	CanJoin   bool `json:"can_join"`
	CanCreate bool `json:"can_create"`
}

// CapabilitiesOf looks up the fixed capability table. The switch is
// exhaustive over the declared roles; a value outside the enum (only
// reachable through a cast) gets no capabilities.
func CapabilitiesOf(r Role) Capabilities {
	switch r {
	case Organizer:
		return Capabilities{CanCreate: true, CanJoin: false}
	case Participant:
		return Capabilities{CanCreate: false, CanJoin: true}
	default:
		return Capabilities{}
	}
}

// Allows reports whether r is one of allowed.
func Allows(r Role, allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
