// Package ytdlp contains the external extraction engine infrastructure
package ytdlp

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/clipgrab/clipgrab-bot/config"
)

// Module provides the engine runner for fx dependency injection
var Module = fx.Module("ytdlp",
	fx.Provide(provideRunner),
)

// provideRunner creates the engine runner from config
func provideRunner(cfg *config.DownloadConfig, logger zerolog.Logger) *Runner {
	return NewRunner(cfg.YtdlpBin, logger.With().Str("component", "ytdlp").Logger())
}
