package user

import (
	"regexp"
	"strings"

	"github.com/kbukum/todoapi/errors"
)

// emailPattern is deliberately conservative; structural checks below catch
// what the pattern lets through.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// NormalizeEmail lower-cases and trims an email address. Applied consistently
// before any storage, lookup, or comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail rejects addresses with an empty local or domain part, a
// dotless domain, or consecutive dots anywhere.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return errors.InvalidEmail(email)
	}
	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	if local == "" || domain == "" {
		return errors.InvalidEmail(email)
	}
	if !strings.Contains(domain, ".") {
		return errors.InvalidEmail(email)
	}
	if strings.Contains(email, "..") {
		return errors.InvalidEmail(email)
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return errors.InvalidEmail(email)
	}
	return nil
}
