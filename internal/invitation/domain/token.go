package domain

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

// TokenClaims is the payload bound into a signed invitation token.
// Role is the wire code, not the role name.
type TokenClaims struct {
	Email     string
	AccountID snowflake.ID
	EntityID  *snowflake.ID
	RoleCode  string
	InviterID snowflake.ID
}

// TokenService mints and verifies opaque invitation tokens. Verify returns
// ErrTokenInvalid for tampered, malformed, or expired tokens.
type TokenService interface {
	Generate(claims TokenClaims) (string, error)
	Verify(token string) (*TokenClaims, error)
}

var ErrTokenInvalid = errors.New("invalid_invitation_token")
