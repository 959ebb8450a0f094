package migration

import (
	"github.com/reclaimhq/reclaim/internal/config"
	invitationdomain "github.com/reclaimhq/reclaim/internal/invitation/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned SQL migrations are postgres-only; the sqlite and mysql
		// dev paths rely on gorm's schema sync instead.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&invitationdomain.Account{},
				&invitationdomain.Entity{},
				&invitationdomain.User{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		return RunMigrations(sqlDB)
	}),
)
