// Package jwt implements the token codec: it turns a user's identity claims
// into a signed HS256 bearer string and back, enforcing issuer and expiry.
package jwt

import (
	stderrors "errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/todoapi/errors"
)

// Service signs and verifies bearer tokens. The signing secret is immutable
// after construction and shared by all requests.
type Service struct {
	cfg Config
}

// NewService creates a new token service. Construction fails when the secret
// is blank so a misconfigured deployment surfaces at startup, never as a
// silently unsigned token.
func NewService(cfg *Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: *cfg}, nil
}

// TokenTTL returns the configured token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.cfg.TokenTTL
}

// Generate creates a signed token for the given user. The subject identifier
// is required; authorities may be empty. Expiry is always issue time + TTL.
func (s *Service) Generate(userID, username string, authorities []string) (string, error) {
	if userID == "" {
		return "", errors.TokenCreation(stderrors.New("subject identifier is blank"))
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
		UserID:      userID,
		Username:    username,
		Authorities: authorities,
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", errors.TokenCreation(err)
	}
	return signed, nil
}

// Parse validates a token string and returns its claims. It verifies the
// signing method, signature, issuer, and expiry. Expired tokens are reported
// distinctly from every other verification failure. Parsing has no side
// effects: the same unexpired token always yields the same claims.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(Issuer),
		gojwt.WithExpirationRequired(),
	)
	if err != nil {
		if stderrors.Is(err, gojwt.ErrTokenExpired) {
			return nil, errors.TokenExpired()
		}
		return nil, errors.InvalidToken(err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.InvalidToken(stderrors.New("missing userId claim"))
	}
	return claims, nil
}

func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, stderrors.New("unexpected signing method: " + token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}
