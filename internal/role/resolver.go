package role

import (
	"strings"

	"eventgate/pkg/domain"
	"eventgate/pkg/email"
	pkgstrings "eventgate/pkg/platform/strings"
)

// DefaultPrivilegedSuffixes are matched against "@" + domain of the
// normalized email. "@sso." matches alice@sso.com and alice@sso.example.org
// but not alice@notsso.com.
var DefaultPrivilegedSuffixes = []string{"@sso.", "@admin.", "@organizer."}

// Resolver derives roles from emails using a fixed set of privileged domain
// suffixes. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	suffixes []string
}

// NewResolver builds a resolver over the given suffixes. Suffixes are
// lowercased, trimmed and deduplicated; a bare "sso." is accepted as "@sso.".
// With no usable suffixes the defaults apply.
func NewResolver(suffixes ...string) *Resolver {
	prefixed := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		s = strings.TrimSpace(s)
		if s == "" || s == "@" {
			continue
		}
		if s[0] != '@' {
			s = "@" + s
		}
		prefixed = append(prefixed, s)
	}
	out := pkgstrings.DedupeAndTrimLower(prefixed)
	if len(out) == 0 {
		out = append([]string(nil), DefaultPrivilegedSuffixes...)
	}
	return &Resolver{suffixes: out}
}

// Suffixes returns a copy of the configured privileged suffixes.
func (r *Resolver) Suffixes() []string {
	return append([]string(nil), r.suffixes...)
}

// DeriveRole is a pure, total function of email. Matching is
// case-insensitive. Empty or malformed input yields Participant: ambiguity
// only ever resolves toward the lower-privilege role.
func (r *Resolver) DeriveRole(address string) Role {
	domainPart, ok := email.Domain(email.Normalize(address))
	if !ok {
		return Participant
	}
	if pkgstrings.HasAnyPrefix("@"+domainPart, r.suffixes) {
		return Organizer
	}
	return Participant
}

// CapabilitiesFor derives the role for identity and looks up its capabilities.
func (r *Resolver) CapabilitiesFor(identity domain.Identity) Capabilities {
	return CapabilitiesOf(r.DeriveRole(identity.Email))
}

// Profile is the role view of an identity.
type Profile struct {
	Role         Role         `json:"role"`
	Capabilities Capabilities `json:"capabilities"`
}

// Describe returns the derived role and capabilities of identity.
func (r *Resolver) Describe(identity domain.Identity) Profile {
	role := r.DeriveRole(identity.Email)
	return Profile{Role: role, Capabilities: CapabilitiesOf(role)}
}

var defaultResolver = NewResolver()

// DeriveRole derives a role using DefaultPrivilegedSuffixes.
func DeriveRole(address string) Role {
	return defaultResolver.DeriveRole(address)
}
