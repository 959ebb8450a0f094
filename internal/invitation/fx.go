package invitation

import (
	"github.com/reclaimhq/reclaim/internal/config"
	"github.com/reclaimhq/reclaim/internal/invitation/domain"
	"github.com/reclaimhq/reclaim/internal/invitation/repository"
	"github.com/reclaimhq/reclaim/internal/invitation/service"
	"github.com/reclaimhq/reclaim/internal/invitation/token"
	"go.uber.org/fx"
)

var Module = fx.Module("invitation.service",
	fx.Provide(repository.Provide),
	fx.Provide(newTokenService),
	fx.Provide(service.New),
)

func newTokenService(cfg config.Config) (domain.TokenService, error) {
	if cfg.Invite.TokenSecret == "" {
		return nil, token.ErrEmptySecret
	}
	return token.New(cfg.Invite.TokenSecret, cfg.Invite.TokenTTL), nil
}
