// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/clipgrab/clipgrab-bot/config"
	"github.com/clipgrab/clipgrab-bot/internal/domain"
	"github.com/clipgrab/clipgrab-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, telegram bot, cookies, extraction engine)
		infrastructure.Module,

		// Domain (download/relay business logic)
		domain.Module,
	)
}
