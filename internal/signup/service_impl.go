package signup

import (
	"context"
	"strings"
	"time"

	invitationdomain "github.com/reclaimhq/reclaim/internal/invitation/domain"
	"github.com/reclaimhq/reclaim/internal/password"
	"github.com/reclaimhq/reclaim/internal/signup/domain"
	"go.uber.org/zap"
)

type service struct {
	repo invitationdomain.Repository
	log  *zap.Logger
}

func NewService(repo invitationdomain.Repository, log *zap.Logger) domain.Service {
	return &service{
		repo: repo,
		log:  log,
	}
}

// Complete transitions a pending invitee to active exactly once. The
// guards deliberately repeat the token-validation checks: validation and
// completion are separate requests and the record may have changed in
// between, so a previous validation result is never trusted as a cached
// pass. The final write is conditional on the record still being pending.
func (s *service) Complete(ctx context.Context, req domain.Request) (*domain.Result, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindUserByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if !strings.EqualFold(strings.TrimSpace(user.Email), normalized) {
		return nil, domain.ErrEmailMismatch
	}

	if user.Status != invitationdomain.StatusPending {
		if user.Status == invitationdomain.StatusActive {
			return nil, domain.ErrAlreadyUsed
		}
		return nil, domain.ErrNoLongerValid
	}

	if user.HashedPassword != "" {
		return nil, domain.ErrAlreadyActivated
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	profileImageURL := strings.TrimSpace(req.ProfileImageURL)
	if profileImageURL == "" {
		profileImageURL = user.ProfileImageURL
	}

	ok, err := s.repo.ActivateUser(ctx, user.ID, invitationdomain.ActivationPatch{
		FullName:        strings.TrimSpace(req.FullName),
		HashedPassword:  hashed,
		Phone:           strings.TrimSpace(req.Phone),
		ProfileImageURL: profileImageURL,
		LastLoginAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// The conditional update matched no row: a concurrent completion
		// won between the guards and the write.
		s.log.Warn("signup completion lost activation race", zap.String("email", normalized))
		return nil, domain.ErrAlreadyActivated
	}

	updated, err := s.repo.FindUserByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrUserNotFound
	}

	return &domain.Result{
		User: &invitationdomain.InviteeView{
			ID:       updated.ID.String(),
			Email:    updated.Email,
			FullName: updated.FullName,
			UserType: updated.UserType,
			Status:   updated.Status,
		},
		Message: "Account activated successfully",
	}, nil
}
