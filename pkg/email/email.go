// Package email holds the small amount of email parsing the service needs.
// It is not an RFC 5322 validator.
package email

import (
	"strings"
	"unicode"
)

const maxLength = 254

// Normalize trims surrounding whitespace and lowercases the address.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Domain returns the part after the last '@' of a normalized address.
// ok is false when there is no '@' or either side is empty.
func Domain(email string) (string, bool) {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	return email[at+1:], true
}

// Valid reports whether email has a plausible local@domain.tld shape with no
// whitespace.
func Valid(email string) bool {
	if email == "" || len(email) > maxLength {
		return false
	}
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}
	domain, ok := Domain(email)
	if !ok {
		return false
	}
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// DisplayName derives a friendly name from the local part, e.g.
// "alice.smith@sso.com" becomes "Alice Smith".
func DisplayName(email string) string {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "User"
	}

	first := capitalize(parts[0])
	if len(parts) == 1 {
		return first
	}
	return first + " " + capitalize(parts[len(parts)-1])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
