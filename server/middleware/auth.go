package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/todoapi/auth/authctx"
	"github.com/kbukum/todoapi/auth/identity"
	"github.com/kbukum/todoapi/auth/jwt"
	"github.com/kbukum/todoapi/errors"
)

// Gin context keys set by the authentication filter.
const (
	// IdentityKey holds the *identity.Identity of the caller.
	IdentityKey = "identity"
	// UserIDKey holds the caller's raw uuid.UUID for convenience reads.
	UserIDKey = "userId"
)

// Auth returns the authentication filter. It runs once per request on
// protected route groups: it extracts the bearer token, validates it through
// the token service, and attaches the resolved identity to the request
// context. Any failure is answered with 401 here; a malformed or expired
// token never propagates past the filter as an unhandled error.
func Auth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, errors.Unauthorized("").WithDetail("reason", "missing Authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, errors.Unauthorized("").WithDetail("reason", "malformed Authorization header"))
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		id, err := identityFromClaims(claims)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), id))
		c.Set(IdentityKey, id)
		c.Set(UserIDKey, id.UserID)
		c.Next()
	}
}

// CurrentIdentity reads the identity established by Auth. The bool is false
// on routes that are not behind the filter.
func CurrentIdentity(c *gin.Context) (*identity.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*identity.Identity)
	return id, ok && id != nil
}

func identityFromClaims(claims *jwt.Claims) (*identity.Identity, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.InvalidToken(err)
	}
	authorities, err := identity.ParseAuthorities(claims.Authorities)
	if err != nil {
		return nil, errors.InvalidToken(err)
	}
	return &identity.Identity{
		UserID:      userID,
		Username:    claims.Username,
		Authorities: authorities,
	}, nil
}

func abortUnauthorized(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Unauthorized("")
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
