package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/reclaimhq/reclaim/internal/config"
	"github.com/reclaimhq/reclaim/internal/invitation"
	"github.com/reclaimhq/reclaim/internal/logger"
	"github.com/reclaimhq/reclaim/internal/migration"
	"github.com/reclaimhq/reclaim/internal/observability"
	"github.com/reclaimhq/reclaim/internal/providers/email"
	"github.com/reclaimhq/reclaim/internal/server"
	"github.com/reclaimhq/reclaim/internal/signup"
	"github.com/reclaimhq/reclaim/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,

		email.Module,
		invitation.Module,
		signup.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
