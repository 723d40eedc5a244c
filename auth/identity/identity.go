// Package identity defines the authenticated caller for the current request
// and the ownership check gating every per-resource operation.
package identity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kbukum/todoapi/errors"
)

// Authority is a role tag granting permissions.
type Authority string

const (
	AuthorityUser  Authority = "USER"
	AuthorityAdmin Authority = "ADMIN"
)

// ParseAuthority converts a claim string into an Authority. Unknown tags are
// rejected so a tampered authorities claim cannot smuggle in new roles.
func ParseAuthority(s string) (Authority, error) {
	switch Authority(s) {
	case AuthorityUser:
		return AuthorityUser, nil
	case AuthorityAdmin:
		return AuthorityAdmin, nil
	}
	return "", fmt.Errorf("unknown authority %q", s)
}

// ParseAuthorities converts a decoded authorities claim. Any unknown tag
// fails the whole set.
func ParseAuthorities(claims []string) ([]Authority, error) {
	authorities := make([]Authority, 0, len(claims))
	for _, c := range claims {
		a, err := ParseAuthority(c)
		if err != nil {
			return nil, err
		}
		authorities = append(authorities, a)
	}
	return authorities, nil
}

// Strings renders an authority set as claim strings.
func Strings(authorities []Authority) []string {
	out := make([]string, len(authorities))
	for i, a := range authorities {
		out[i] = string(a)
	}
	return out
}

// Identity is the authenticated caller, constructed fresh per request from a
// validated token and never persisted or mutated.
type Identity struct {
	UserID      uuid.UUID
	Username    string
	Authorities []Authority
}

// SubjectID returns the caller's user id.
func (id *Identity) SubjectID() uuid.UUID {
	return id.UserID
}

// HasAuthority reports whether the caller carries the given authority.
func (id *Identity) HasAuthority(a Authority) bool {
	if id == nil {
		return false
	}
	for _, have := range id.Authorities {
		if have == a {
			return true
		}
	}
	return false
}

// Authorize decides whether the caller may act on a resource owned by
// ownerID: allowed when the caller owns it or carries ADMIN. It is a pure
// predicate over already-fetched state; callers resolve the resource first so
// a missing resource reports not-found before any ownership denial.
func Authorize(ownerID uuid.UUID, id *Identity) error {
	if id == nil {
		return errors.Unauthorized(ownerID.String())
	}
	if id.UserID == ownerID || id.HasAuthority(AuthorityAdmin) {
		return nil
	}
	return errors.Unauthorized(ownerID.String())
}
