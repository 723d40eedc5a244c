package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/todoapi/auth/identity"
	"github.com/kbukum/todoapi/auth/jwt"
	"github.com/kbukum/todoapi/auth/password"
	"github.com/kbukum/todoapi/errors"
	"github.com/kbukum/todoapi/logger"
	"github.com/kbukum/todoapi/mail"
	"github.com/kbukum/todoapi/recovery"
	"github.com/kbukum/todoapi/validation"
)

// Service implements the account flows. Per-resource operations take the
// caller's identity explicitly; there is no ambient security context.
type Service struct {
	repo   Repository
	hasher password.Hasher
	tokens *jwt.Service
	codes  *recovery.Store
	mailer mail.Mailer
	log    *logger.Logger
}

// NewService wires the user service.
func NewService(repo Repository, hasher password.Hasher, tokens *jwt.Service, codes *recovery.Store, mailer mail.Mailer, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		codes:  codes,
		mailer: mailer,
		log:    log.WithComponent("user"),
	}
}

// Register validates the request, rejects duplicate usernames, hashes the
// password, persists the record with the USER authority, and mints a token
// for immediate login-after-register. Nothing is persisted when any
// validation fails.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	email := NormalizeEmail(req.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.UserAlreadyExists(req.Username)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.InvalidInput("password", err.Error())
	}

	u := &User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		Authorities:  AuthorityList{identity.AuthorityUser},
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("User registered", map[string]interface{}{
		logger.FieldUserID: u.ID.String(),
	})
	return s.authResponse(u)
}

// Login verifies the credentials and mints a fresh token. A missing user and
// a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("").WithDetail("username", req.Username)
		}
		return nil, err
	}
	if err := s.hasher.Verify(req.Password, u.PasswordHash); err != nil {
		return nil, errors.Unauthorized("").WithDetail("username", req.Username)
	}

	s.log.Info("User logged in", map[string]interface{}{
		logger.FieldUserID: u.ID.String(),
	})
	return s.authResponse(u)
}

// FindByID returns a user. The record is looked up first so a missing user
// reports not-found even to callers who would not own it.
func (s *Service) FindByID(ctx context.Context, userID uuid.UUID, caller *identity.Identity) (*Response, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(u.ID, caller); err != nil {
		return nil, err
	}
	resp := toResponse(u)
	return &resp, nil
}

// Update changes username, password, or (for ADMIN callers) the authority
// set of an existing user, and reissues a token since its claims changed.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest, caller *identity.Identity) (*AuthResponse, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(u.ID, caller); err != nil {
		return nil, err
	}

	if req.Username != "" && req.Username != u.Username {
		taken, err := s.repo.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errors.UserAlreadyExists(req.Username)
		}
		u.Username = req.Username
	}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, errors.InvalidInput("password", err.Error())
		}
		u.PasswordHash = hash
	}
	if len(req.Authorities) > 0 {
		if !caller.HasAuthority(identity.AuthorityAdmin) {
			return nil, errors.Unauthorized(userID.String()).WithDetail("reason", "authority changes require ADMIN")
		}
		authorities, err := identity.ParseAuthorities(req.Authorities)
		if err != nil {
			return nil, errors.InvalidInput("authorities", err.Error())
		}
		u.Authorities = authorities
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("User updated", map[string]interface{}{
		logger.FieldUserID: u.ID.String(),
	})
	return s.authResponse(u)
}

// Delete removes a user after the lookup and ownership checks, in that order.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, caller *identity.Identity) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := identity.Authorize(u.ID, caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, u); err != nil {
		return err
	}
	s.log.Info("User deleted", map[string]interface{}{
		logger.FieldUserID: u.ID.String(),
	})
	return nil
}

// RecoverPassword starts the recovery flow. It reports success whether or
// not the email matches a user so the endpoint cannot be used to probe for
// accounts; when it matches, a code is stored for 15 minutes and mailed.
func (s *Service) RecoverPassword(ctx context.Context, req RecoverPasswordRequest) error {
	if err := validation.Validate(req); err != nil {
		return err
	}
	email := NormalizeEmail(req.Email)

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			s.log.Warn("Recovery requested for unknown email", map[string]interface{}{
				logger.FieldEmail: email,
			})
			return nil
		}
		return err
	}

	code, err := s.codes.Generate(ctx, u.ID)
	if err != nil {
		return err
	}
	body := "Use this code to reset your password: " + code +
		"\nThe code expires in 15 minutes."
	if err := s.mailer.Send(ctx, u.Email, "Password recovery", body); err != nil {
		s.log.Error("Recovery mail failed", logger.ErrorFields("recover_password", err))
		return errors.Internal(err)
	}
	return nil
}

// ResetPassword redeems a recovery code and sets a new password. The user
// must exist (404 otherwise); the code must match what was stored for that
// user and not have expired (401 otherwise).
func (s *Service) ResetPassword(ctx context.Context, code string, req ResetPasswordRequest) error {
	if err := validation.Validate(req); err != nil {
		return err
	}

	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		return err
	}
	if err := s.codes.Redeem(ctx, u.ID, code); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return errors.InvalidInput("newPassword", err.Error())
	}
	u.PasswordHash = hash
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.log.Info("Password reset", map[string]interface{}{
		logger.FieldUserID: u.ID.String(),
	})
	return nil
}

func (s *Service) authResponse(u *User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(u.ID.String(), u.Username, identity.Strings(u.Authorities))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: toResponse(u), Token: token}, nil
}
