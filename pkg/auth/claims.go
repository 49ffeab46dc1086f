package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/code-with-shadow/adhunik-art/pkg/enums"
)

// AccessTokenClaims is the validated identity the API trusts. The admin
// role lives here as a signed claim, never as a literal compared against
// profile data.
type AccessTokenClaims struct {
	UserID string           `json:"uid"`
	Role   enums.MemberRole `json:"role"`
	Name   string           `json:"name,omitempty"`
	Email  string           `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AccessTokenPayload is the input to MintAccessToken.
type AccessTokenPayload struct {
	UserID string
	Role   enums.MemberRole
	Name   string
	Email  string
	JTI    string
}
