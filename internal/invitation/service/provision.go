package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reclaimhq/reclaim/internal/invitation/domain"
	"github.com/reclaimhq/reclaim/pkg/db"
	"go.uber.org/zap"
)

// provision creates one user record per dispatched email, pending when the
// email went out and failed-to-send otherwise. Record creation is
// best-effort: failures are logged and never change the invitation results.
func (s *service) provision(
	ctx context.Context,
	fresh []string,
	dispatched map[string]domain.InviteResult,
	accountID snowflake.ID,
	entityID *snowflake.ID,
	role domain.UserType,
) {
	now := time.Now().UTC()
	users := make([]*domain.User, 0, len(fresh))
	for _, addr := range fresh {
		status := domain.StatusSendFailed
		if result, ok := dispatched[addr]; ok && result.Success {
			status = domain.StatusPending
		}
		users = append(users, &domain.User{
			ID:              s.genID.Generate(),
			AccountID:       accountID,
			EntityID:        entityID,
			Email:           addr,
			FullName:        localPart(addr),
			UserType:        role,
			Status:          status,
			ProfileImageURL: domain.DefaultProfileImageURL,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	if len(users) == 0 {
		return
	}

	err := s.repo.CreateUsersBatch(ctx, users)
	if err == nil {
		return
	}
	s.log.Warn("bulk user create failed, falling back to individual creates",
		zap.Int("count", len(users)),
		zap.Error(err),
	)

	// Bulk inserts tend to fail all-or-nothing; individual inserts isolate
	// the bad record so the rest of the batch still lands.
	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(u *domain.User) {
			defer wg.Done()
			err := s.repo.CreateUser(ctx, u)
			if err == nil {
				return
			}
			if db.IsDuplicateKeyErr(err) {
				// A concurrent invite already provisioned this record.
				s.log.Warn("invited user already exists", zap.String("email", u.Email))
				return
			}
			s.log.Error("failed to create invited user",
				zap.String("email", u.Email),
				zap.Error(err),
			)
		}(user)
	}
	wg.Wait()
}

func localPart(addr string) string {
	if at := strings.Index(addr, "@"); at > 0 {
		return addr[:at]
	}
	return addr
}
