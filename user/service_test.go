package user

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"

	"github.com/kbukum/todoapi/auth/identity"
	"github.com/kbukum/todoapi/auth/jwt"
	"github.com/kbukum/todoapi/auth/password"
	"github.com/kbukum/todoapi/database"
	"github.com/kbukum/todoapi/errors"
	"github.com/kbukum/todoapi/logger"
	"github.com/kbukum/todoapi/recovery"
	"github.com/kbukum/todoapi/redis"
)

type capturedMail struct {
	to      string
	subject string
	body    string
}

type captureMailer struct {
	sent []capturedMail
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, capturedMail{to: to, subject: subject, body: body})
	return nil
}

type serviceFixture struct {
	svc    *Service
	repo   Repository
	tokens *jwt.Service
	mailer *captureMailer
	mini   *miniredis.Miniredis
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	log := logger.NewDefault("test")

	db, err := database.New(context.Background(), sqlite.Open(":memory:"), database.Config{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	}, log)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	mini := miniredis.RunT(t)
	rdb, err := redis.New(redis.Config{Addr: mini.Addr()}, log)
	if err != nil {
		t.Fatalf("redis.New failed: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	tokens, err := jwt.NewService(&jwt.Config{Secret: "service-test-secret"})
	if err != nil {
		t.Fatalf("jwt.NewService failed: %v", err)
	}

	repo := NewRepository(db)
	mailer := &captureMailer{}
	codes := recovery.NewStore(rdb, recovery.Config{CodeTTL: 15 * time.Minute})
	hasher := password.NewBcryptHasher(password.WithCost(4))

	return &serviceFixture{
		svc:    NewService(repo, hasher, tokens, codes, mailer, log),
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		mini:   mini,
	}
}

func (f *serviceFixture) register(t *testing.T, username, email, pw string) *AuthResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: username, Email: email, Password: pw,
	})
	if err != nil {
		t.Fatalf("registering %s: %v", username, err)
	}
	return resp
}

// extractCode pulls the recovery code out of the mail body, which ends the
// first line with ": <code>".
func extractCode(body string) (string, error) {
	line, _, _ := strings.Cut(body, "\n")
	_, code, ok := strings.Cut(line, ": ")
	if !ok || code == "" {
		return "", fmt.Errorf("no code in %q", line)
	}
	return code, nil
}

func asIdentity(resp *AuthResponse) *identity.Identity {
	authorities, _ := identity.ParseAuthorities(resp.User.Authorities)
	return &identity.Identity{
		UserID:      resp.User.ID,
		Username:    resp.User.Username,
		Authorities: authorities,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	reg := f.register(t, "alice", "alice@example.com", "pw123")
	if reg.Token == "" {
		t.Fatal("register must return a token")
	}
	if len(reg.User.Authorities) != 1 || reg.User.Authorities[0] != "USER" {
		t.Errorf("authorities = %v, want [USER]", reg.User.Authorities)
	}

	login, err := f.svc.Login(ctx, LoginRequest{Username: "alice", Password: "pw123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user id = %v, want %v", login.User.ID, reg.User.ID)
	}
	if login.Token == "" {
		t.Error("login must return a token")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := newServiceFixture(t)
	f.register(t, "alice", "alice@example.com", "pw123")

	_, err := f.svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.IsUnauthorized(err) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestLoginRejectsUnknownUserUniformly(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "pw"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// A missing user must look exactly like a wrong password.
	if !errors.IsUnauthorized(err) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	f := newServiceFixture(t)
	f.register(t, "alice", "alice@example.com", "pw123")

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "pw456",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeUserAlreadyExists {
		t.Errorf("expected USER_ALREADY_EXISTS, got %v", err)
	}
}

func TestRegisterRejectsBlankPasswordWithoutSaving(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.HTTPStatus != 400 {
		t.Errorf("expected 400, got %v", err)
	}

	exists, err := f.repo.ExistsByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("ExistsByUsername failed: %v", err)
	}
	if exists {
		t.Error("user must not be persisted when validation fails")
	}
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Email: "not-an-email", Password: "pw123",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestFindByIDOrdering(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	alice := f.register(t, "alice", "alice@example.com", "pw123")
	bob := f.register(t, "bob", "bob@example.com", "pw456")

	// Owner reads own record.
	resp, err := f.svc.FindByID(ctx, alice.User.ID, asIdentity(alice))
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if resp.Username != "alice" {
		t.Errorf("username = %q, want alice", resp.Username)
	}

	// Another user's record exists: denial, not not-found.
	_, err = f.svc.FindByID(ctx, alice.User.ID, asIdentity(bob))
	if !errors.IsUnauthorized(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}

	// A missing record reports not-found even to a non-owner caller.
	_, err = f.svc.FindByID(ctx, uuid.New(), asIdentity(bob))
	if !errors.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestAdminReadsAnyUser(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	alice := f.register(t, "alice", "alice@example.com", "pw123")
	admin := &identity.Identity{
		UserID:      uuid.New(),
		Username:    "root",
		Authorities: []identity.Authority{identity.AuthorityUser, identity.AuthorityAdmin},
	}

	resp, err := f.svc.FindByID(ctx, alice.User.ID, admin)
	if err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if resp.ID != alice.User.ID {
		t.Errorf("id = %v, want %v", resp.ID, alice.User.ID)
	}
}

func TestUpdatePasswordReissuesToken(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	alice := f.register(t, "alice", "alice@example.com", "pw123")

	updated, err := f.svc.Update(ctx, alice.User.ID, UpdateRequest{Password: "newpw"}, asIdentity(alice))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Token == "" {
		t.Error("update must reissue a token")
	}

	if _, err := f.svc.Login(ctx, LoginRequest{Username: "alice", Password: "newpw"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := f.svc.Login(ctx, LoginRequest{Username: "alice", Password: "pw123"}); err == nil {
		t.Error("login with old password succeeded, want error")
	}
}

func TestUpdateAuthoritiesRequiresAdmin(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	alice := f.register(t, "alice", "alice@example.com", "pw123")

	_, err := f.svc.Update(ctx, alice.User.ID, UpdateRequest{Authorities: []string{"USER", "ADMIN"}}, asIdentity(alice))
	if !errors.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	admin := &identity.Identity{
		UserID:      uuid.New(),
		Authorities: []identity.Authority{identity.AuthorityAdmin},
	}
	updated, err := f.svc.Update(ctx, alice.User.ID, UpdateRequest{Authorities: []string{"USER", "ADMIN"}}, admin)
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if len(updated.User.Authorities) != 2 {
		t.Errorf("authorities = %v, want [USER ADMIN]", updated.User.Authorities)
	}
}

func TestDeleteOrdering(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	alice := f.register(t, "alice", "alice@example.com", "pw123")
	bob := f.register(t, "bob", "bob@example.com", "pw456")

	if err := f.svc.Delete(ctx, alice.User.ID, asIdentity(bob)); !errors.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := f.svc.Delete(ctx, uuid.New(), asIdentity(bob)); !errors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if err := f.svc.Delete(ctx, alice.User.ID, asIdentity(alice)); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := f.svc.FindByID(ctx, alice.User.ID, asIdentity(alice)); !errors.IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestRecoverPasswordFlow(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.register(t, "alice", "alice@example.com", "pw123")

	if err := f.svc.RecoverPassword(ctx, RecoverPasswordRequest{Email: "alice@example.com"}); err != nil {
		t.Fatalf("RecoverPassword failed: %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(f.mailer.sent))
	}
	mail := f.mailer.sent[0]
	if mail.to != "alice@example.com" {
		t.Errorf("mail to = %q", mail.to)
	}

	code, err := extractCode(mail.body)
	if err != nil {
		t.Fatalf("extracting code from mail body %q: %v", mail.body, err)
	}

	if err := f.svc.ResetPassword(ctx, code, ResetPasswordRequest{
		Email: "alice@example.com", NewPassword: "pw789",
	}); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := f.svc.Login(ctx, LoginRequest{Username: "alice", Password: "pw789"}); err != nil {
		t.Errorf("login with reset password failed: %v", err)
	}
	if _, err := f.svc.Login(ctx, LoginRequest{Username: "alice", Password: "pw123"}); err == nil {
		t.Error("login with old password succeeded, want error")
	}

	// The code is single-use.
	err = f.svc.ResetPassword(ctx, code, ResetPasswordRequest{
		Email: "alice@example.com", NewPassword: "pw000",
	})
	if !errors.IsUnauthorized(err) {
		t.Errorf("expected unauthorized on reuse, got %v", err)
	}
}

func TestRecoverPasswordHidesUnknownEmail(t *testing.T) {
	f := newServiceFixture(t)

	err := f.svc.RecoverPassword(context.Background(), RecoverPasswordRequest{Email: "ghost@example.com"})
	if err != nil {
		t.Fatalf("RecoverPassword = %v, want nil for unknown email", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Errorf("sent %d mails, want 0", len(f.mailer.sent))
	}
}

func TestResetPasswordRejectsExpiredCode(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.register(t, "alice", "alice@example.com", "pw123")
	if err := f.svc.RecoverPassword(ctx, RecoverPasswordRequest{Email: "alice@example.com"}); err != nil {
		t.Fatalf("RecoverPassword failed: %v", err)
	}
	code, err := extractCode(f.mailer.sent[0].body)
	if err != nil {
		t.Fatalf("extracting code: %v", err)
	}

	f.mini.FastForward(16 * time.Minute)

	err = f.svc.ResetPassword(ctx, code, ResetPasswordRequest{
		Email: "alice@example.com", NewPassword: "pw789",
	})
	if !errors.IsUnauthorized(err) {
		t.Errorf("expected unauthorized for expired code, got %v", err)
	}
}
