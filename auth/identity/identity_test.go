package identity

import (
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/todoapi/errors"
)

func TestParseAuthority(t *testing.T) {
	if a, err := ParseAuthority("USER"); err != nil || a != AuthorityUser {
		t.Fatalf("ParseAuthority(USER) = %v, %v", a, err)
	}
	if a, err := ParseAuthority("ADMIN"); err != nil || a != AuthorityAdmin {
		t.Fatalf("ParseAuthority(ADMIN) = %v, %v", a, err)
	}
	for _, bad := range []string{"", "user", "ROOT", "Admin"} {
		if _, err := ParseAuthority(bad); err == nil {
			t.Errorf("ParseAuthority(%q): expected error, got nil", bad)
		}
	}
}

func TestParseAuthoritiesRejectsUnknownTag(t *testing.T) {
	if _, err := ParseAuthorities([]string{"USER", "SUPERUSER"}); err == nil {
		t.Fatal("expected error for unknown authority, got nil")
	}
}

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	asUser := &Identity{UserID: owner, Username: "alice", Authorities: []Authority{AuthorityUser}}
	asOther := &Identity{UserID: other, Username: "bob", Authorities: []Authority{AuthorityUser}}
	asAdmin := &Identity{UserID: other, Username: "root", Authorities: []Authority{AuthorityUser, AuthorityAdmin}}

	tests := []struct {
		name    string
		caller  *Identity
		allowed bool
	}{
		{"owner", asUser, true},
		{"non-owner", asOther, false},
		{"admin non-owner", asAdmin, true},
		{"nil identity", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(owner, tt.caller)
			if tt.allowed && err != nil {
				t.Fatalf("expected access, got %v", err)
			}
			if !tt.allowed {
				if err == nil {
					t.Fatal("expected denial, got nil")
				}
				if !errors.IsUnauthorized(err) {
					t.Fatalf("expected unauthorized error, got %v", err)
				}
			}
		})
	}
}

func TestHasAuthority(t *testing.T) {
	id := &Identity{UserID: uuid.New(), Authorities: []Authority{AuthorityUser}}
	if !id.HasAuthority(AuthorityUser) {
		t.Error("expected USER authority")
	}
	if id.HasAuthority(AuthorityAdmin) {
		t.Error("did not expect ADMIN authority")
	}
	var nilID *Identity
	if nilID.HasAuthority(AuthorityUser) {
		t.Error("nil identity must have no authorities")
	}
}
