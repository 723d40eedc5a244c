package jwt

import (
	gojwt "github.com/golang-jwt/jwt/v5"
)

// Issuer is the fixed "iss" claim identifying this service.
const Issuer = "to_do_list_api"

// Claims is the claim set encoded into every token issued by this service.
// UserID duplicates the registered subject so clients and the filter can read
// it without caring about registered-claim semantics.
type Claims struct {
	gojwt.RegisteredClaims
	UserID      string   `json:"userId"`
	Username    string   `json:"username,omitempty"`
	Authorities []string `json:"userAuthorities"`
}
