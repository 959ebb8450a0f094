package service

import (
	"context"
	"strings"

	"github.com/reclaimhq/reclaim/internal/invitation/domain"
	"go.uber.org/zap"
)

// ValidateToken runs the guard chain against a signed invitation token.
func (s *service) ValidateToken(ctx context.Context, raw string) (*domain.ValidationResult, error) {
	claims, err := s.tokens.Verify(strings.TrimSpace(raw))
	if err != nil {
		return invalid(domain.MsgInvalidToken), nil
	}
	return s.validateClaims(ctx, *claims, false)
}

// Validate runs the guard chain against client-supplied parameters. This is
// the deprecated low-trust path: account, role, and entity come from the
// caller instead of a signed token.
func (s *service) Validate(ctx context.Context, req domain.LegacyValidateRequest) (*domain.ValidationResult, error) {
	role := domain.ParseRole(strings.TrimSpace(req.Role))
	claims := domain.TokenClaims{
		Email:     req.Email,
		AccountID: req.AccountID,
		EntityID:  req.EntityID,
		RoleCode:  role.Code(),
	}
	return s.validateClaims(ctx, claims, true)
}

// validateClaims applies the ordered guards; the first failing guard wins
// and no further lookups happen. Guard failures are answers, not errors:
// they surface as IsValid=false and the transport never throws.
func (s *service) validateClaims(ctx context.Context, claims domain.TokenClaims, legacy bool) (*domain.ValidationResult, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.ToLower(claims.Email))
	if err != nil {
		s.log.Error("invitee lookup failed during validation", zap.Error(err))
		return invalid(domain.MsgUnavailable), nil
	}
	if user == nil {
		return invalid(domain.MsgUserNotFound), nil
	}

	if user.Status != domain.StatusPending {
		if user.Status == domain.StatusActive {
			return invalid(domain.MsgAlreadyUsed), nil
		}
		return invalid(domain.MsgNoLongerValid), nil
	}

	// A pending record must never already hold a password hash; if it does,
	// a completion won a race after this token was issued.
	if user.HashedPassword != "" {
		return invalid(domain.MsgAlreadyActivated), nil
	}

	if user.UserType.Code() != claims.RoleCode {
		return invalid(domain.MsgInvalidParams), nil
	}

	if legacy {
		if user.AccountID != claims.AccountID {
			return invalid(domain.MsgInvalidParams), nil
		}
		if user.UserType.RequiresEntity() {
			if user.EntityID == nil || claims.EntityID == nil || *user.EntityID != *claims.EntityID {
				return invalid(domain.MsgInvalidParams), nil
			}
		}
	}

	account, err := s.repo.FindAccountByID(ctx, claims.AccountID)
	if err != nil {
		s.log.Error("account lookup failed during validation", zap.Error(err))
		return invalid(domain.MsgUnavailable), nil
	}
	if account == nil {
		return invalid(domain.MsgInvalidParams), nil
	}

	result := &domain.ValidationResult{
		IsValid: true,
		User:    inviteeView(user),
		Account: &domain.AccountView{ID: account.ID.String(), Name: account.Name},
	}

	if user.UserType.RequiresEntity() && user.EntityID != nil {
		entity, err := s.repo.FindEntityByID(ctx, *user.EntityID)
		if err != nil {
			s.log.Warn("entity lookup failed during validation", zap.Error(err))
		}
		if entity != nil {
			result.Entity = &domain.EntityView{
				ID:          entity.ID.String(),
				Name:        entity.Name,
				CountryCode: entity.CountryCode,
			}
		}
	}

	result.InviterName = s.resolveInviterName(ctx, claims, user, legacy)

	return result, nil
}

// resolveInviterName is display-only and best-effort. The token path names
// the exact inviter; the legacy payload carries no inviter id, so any
// active admin of the account stands in.
func (s *service) resolveInviterName(ctx context.Context, claims domain.TokenClaims, user *domain.User, legacy bool) string {
	if legacy {
		admin, err := s.repo.FindActiveAdmin(ctx, user.AccountID)
		if err != nil {
			s.log.Warn("admin lookup failed during validation", zap.Error(err))
			return ""
		}
		if admin != nil {
			return admin.FullName
		}
		return ""
	}

	inviter, err := s.repo.FindUserByID(ctx, claims.InviterID)
	if err != nil {
		s.log.Warn("inviter lookup failed during validation", zap.Error(err))
		return ""
	}
	if inviter != nil {
		return inviter.FullName
	}
	return ""
}

func invalid(reason string) *domain.ValidationResult {
	return &domain.ValidationResult{IsValid: false, Error: reason}
}

func inviteeView(user *domain.User) *domain.InviteeView {
	return &domain.InviteeView{
		ID:       user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		UserType: user.UserType,
		Status:   user.Status,
	}
}
