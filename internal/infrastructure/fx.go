// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"github.com/spf13/afero"
	"go.uber.org/fx"

	"github.com/clipgrab/clipgrab-bot/internal/infrastructure/cookies"
	"github.com/clipgrab/clipgrab-bot/internal/infrastructure/logger"
	"github.com/clipgrab/clipgrab-bot/internal/infrastructure/telegram"
	"github.com/clipgrab/clipgrab-bot/internal/infrastructure/ytdlp"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	fx.Provide(provideFs),
	logger.Module,
	telegram.Module,
	cookies.Module,
	ytdlp.Module,
)

// provideFs provides the real filesystem; tests substitute a memory fs
func provideFs() afero.Fs {
	return afero.NewOsFs()
}
