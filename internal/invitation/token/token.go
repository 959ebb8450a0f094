package token

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"

	"github.com/reclaimhq/reclaim/internal/invitation/domain"
)

const issuer = "reclaim"

// Claims is the JWT payload for invitation tokens. Snowflake IDs are
// string-encoded so the wire format is stable across JSON number handling.
type Claims struct {
	Email     string `json:"email"`
	AccountID string `json:"account_id"`
	EntityID  string `json:"entity_id,omitempty"`
	Role      string `json:"role"`
	InviterID string `json:"inviter_id"`
	jwt.RegisteredClaims
}

// Service signs and verifies invitation tokens with HS256.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *Service) Generate(claims domain.TokenClaims) (string, error) {
	now := time.Now().UTC()
	payload := Claims{
		Email:     claims.Email,
		AccountID: claims.AccountID.String(),
		Role:      claims.RoleCode,
		InviterID: claims.InviterID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   claims.Email,
		},
	}
	if claims.EntityID != nil {
		payload.EntityID = claims.EntityID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return token.SignedString(s.secret)
}

func (s *Service) Verify(raw string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	accountID, err := snowflake.ParseString(claims.AccountID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	inviterID, err := snowflake.ParseString(claims.InviterID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{
		Email:     claims.Email,
		AccountID: accountID,
		RoleCode:  claims.Role,
		InviterID: inviterID,
	}
	if claims.EntityID != "" {
		entityID, err := snowflake.ParseString(claims.EntityID)
		if err != nil {
			return nil, domain.ErrTokenInvalid
		}
		out.EntityID = &entityID
	}

	return out, nil
}

var _ domain.TokenService = (*Service)(nil)

// ErrEmptySecret is returned by validate-time construction helpers when the
// signing secret is missing.
var ErrEmptySecret = errors.New("invitation token secret is required")
