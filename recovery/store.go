// Package recovery manages password-recovery codes: random single-use
// credentials stored against a user id in Redis with a fixed TTL. Unlike the
// bearer tokens, a code is revocable: it is deleted on redemption and
// expires on its own otherwise.
package recovery

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/todoapi/auth/password"
	"github.com/kbukum/todoapi/errors"
	"github.com/kbukum/todoapi/redis"
)

const (
	keyPrefix = "recovery"

	// codeBytes is the entropy of a recovery code (hex-encoded, so twice as
	// many characters on the wire).
	codeBytes = 16
)

// Config holds recovery-code settings.
type Config struct {
	// CodeTTL is how long a stored code stays redeemable (default: 15m).
	CodeTTL time.Duration `yaml:"code_ttl" mapstructure:"code_ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.CodeTTL == 0 {
		c.CodeTTL = 15 * time.Minute
	}
}

// Store issues and redeems recovery codes.
type Store struct {
	client *redis.Client
	cfg    Config
}

// NewStore creates a recovery-code store backed by the given Redis client.
func NewStore(client *redis.Client, cfg Config) *Store {
	cfg.ApplyDefaults()
	return &Store{client: client, cfg: cfg}
}

func key(userID uuid.UUID) string {
	return keyPrefix + ":" + userID.String()
}

// Generate creates a fresh code for the user and stores it with the
// configured TTL, replacing any previous code.
func (s *Store) Generate(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := password.GenerateRecoveryCode(codeBytes)
	if err != nil {
		return "", errors.Internal(err)
	}
	if err := s.client.Set(ctx, key(userID), code, s.cfg.CodeTTL); err != nil {
		return "", errors.Internal(err)
	}
	return code, nil
}

// Redeem checks the presented code against the stored one and consumes it on
// success. A missing (expired) or mismatched code is an authorization
// failure carrying the user id.
func (s *Store) Redeem(ctx context.Context, userID uuid.UUID, code string) error {
	stored, err := s.client.Get(ctx, key(userID))
	if err != nil {
		if goerrors.Is(err, redis.ErrNotFound) {
			return errors.Unauthorized(userID.String())
		}
		return errors.Internal(err)
	}
	if stored != code {
		return errors.Unauthorized(userID.String())
	}
	if err := s.client.Del(ctx, key(userID)); err != nil {
		return errors.Internal(err)
	}
	return nil
}
