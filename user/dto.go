package user

import (
	"github.com/google/uuid"

	"github.com/kbukum/todoapi/auth/identity"
)

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateRequest is the body of PATCH /user/:userId. Zero-value fields are
// left unchanged; authorities may only be changed by an ADMIN caller.
type UpdateRequest struct {
	Username    string   `json:"username" validate:"omitempty,min=1,max=64"`
	Password    string   `json:"password" validate:"omitempty,min=1,max=72"`
	Authorities []string `json:"authorities" validate:"omitempty,dive,oneof=USER ADMIN"`
}

// RecoverPasswordRequest is the body of POST /recoverPassword.
type RecoverPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /resetPassword/:recoveryCode.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=1,max=72"`
}

// Response is the user representation returned to clients. The password hash
// never leaves the service.
type Response struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Authorities []string  `json:"authorities"`
}

// AuthResponse bundles a user representation with a freshly minted token.
type AuthResponse struct {
	User  Response `json:"user"`
	Token string   `json:"token"`
}

func toResponse(u *User) Response {
	return Response{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Authorities: identity.Strings(u.Authorities),
	}
}
