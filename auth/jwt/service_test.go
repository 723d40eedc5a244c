package jwt

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/todoapi/errors"
)

func newTestService(t *testing.T, secret string) *Service {
	t.Helper()
	svc, err := NewService(&Config{Secret: secret})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestNewServiceRequiresSecret(t *testing.T) {
	if _, err := NewService(&Config{}); err == nil {
		t.Fatal("expected error for blank secret, got nil")
	}
	if _, err := NewService(&Config{Secret: "   "}); err == nil {
		t.Fatal("expected error for whitespace secret, got nil")
	}
}

func TestGenerateParseRoundTrip(t *testing.T) {
	svc := newTestService(t, "test-secret")

	token, err := svc.Generate("user-123", "alice", []string{"USER"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-123")
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want %q", claims.Username, "alice")
	}
	if len(claims.Authorities) != 1 || claims.Authorities[0] != "USER" {
		t.Errorf("Authorities = %v, want [USER]", claims.Authorities)
	}
	if claims.Issuer != Issuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, Issuer)
	}
}

func TestGenerateRejectsBlankSubject(t *testing.T) {
	svc := newTestService(t, "test-secret")
	if _, err := svc.Generate("", "alice", nil); err == nil {
		t.Fatal("expected error for blank subject, got nil")
	}
}

func TestGenerateSetsExpiry(t *testing.T) {
	svc := newTestService(t, "test-secret")

	before := time.Now()
	token, err := svc.Generate("user-1", "alice", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := before.Add(svc.TokenTTL())
	got := claims.ExpiresAt.Time
	if got.Before(want.Add(-5*time.Second)) || got.After(want.Add(5*time.Second)) {
		t.Errorf("ExpiresAt = %v, want about %v", got, want)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := newTestService(t, "test-secret")

	now := time.Now()
	expired := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "user-1",
			IssuedAt:  gojwt.NewNumericDate(now.Add(-3 * time.Hour)),
			ExpiresAt: gojwt.NewNumericDate(now.Add(-time.Hour)),
		},
		UserID: "user-1",
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, expired).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing expired token failed: %v", err)
	}

	_, err = svc.Parse(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeTokenExpired {
		t.Errorf("Code = %q, want %q", appErr.Code, errors.ErrCodeTokenExpired)
	}
	if !strings.Contains(appErr.Message, "expired") {
		t.Errorf("Message = %q, want expiry wording", appErr.Message)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	svc := newTestService(t, "test-secret")

	token, err := svc.Generate("user-1", "alice", []string{"USER"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Flip a character in the signature segment.
	idx := strings.LastIndex(token, ".") + 1
	sig := []byte(token[idx:])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := token[:idx] + string(sig)

	if _, err := svc.Parse(tampered); err == nil {
		t.Fatal("expected error for tampered token, got nil")
	}
}

func TestParseRejectsForeignSecret(t *testing.T) {
	issuing := newTestService(t, "secret-one")
	verifying := newTestService(t, "secret-two")

	token, err := issuing.Generate("user-1", "alice", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := verifying.Parse(token); err == nil {
		t.Fatal("expected error for token signed with a different secret, got nil")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	svc := newTestService(t, "test-secret")

	now := time.Now()
	foreign := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "someone_else",
			Subject:   "user-1",
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID: "user-1",
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, foreign).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}
	if _, err := svc.Parse(token); err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
}

func TestParseRejectsMissingUserID(t *testing.T) {
	svc := newTestService(t, "test-secret")

	now := time.Now()
	anonymous := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, anonymous).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}
	if _, err := svc.Parse(token); err == nil {
		t.Fatal("expected error for missing userId claim, got nil")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := newTestService(t, "test-secret")
	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Parse(input); err == nil {
			t.Fatalf("expected error for input %q, got nil", input)
		}
	}
}
