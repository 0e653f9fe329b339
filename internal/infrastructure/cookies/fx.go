// Package cookies contains cookie-file infrastructure
package cookies

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.uber.org/fx"

	"github.com/clipgrab/clipgrab-bot/config"
)

// Module provides cookie store for fx dependency injection
var Module = fx.Module("cookies",
	fx.Provide(provideStore),
)

// provideStore creates the cookie store from config
func provideStore(fs afero.Fs, cfg *config.CookiesConfig, logger zerolog.Logger) (*Store, error) {
	return NewStore(fs, cfg, logger.With().Str("component", "cookies").Logger())
}
