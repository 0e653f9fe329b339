// Package bot contains the bot domain module
package bot

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.uber.org/fx"

	"github.com/clipgrab/clipgrab-bot/config"
	telegramDelivery "github.com/clipgrab/clipgrab-bot/internal/domain/bot/delivery/telegram"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/deps"
	extractorRepo "github.com/clipgrab/clipgrab-bot/internal/domain/bot/repository/ytdlp"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/usecase/buissines"
	"github.com/clipgrab/clipgrab-bot/internal/infrastructure/cookies"
	"github.com/clipgrab/clipgrab-bot/internal/infrastructure/telegram"
	"github.com/clipgrab/clipgrab-bot/internal/infrastructure/ytdlp"
)

// Module provides bot domain components for fx dependency injection
var Module = fx.Module("bot",
	// Repository (extraction adapter over the external engine)
	fx.Provide(provideExtractor),

	// UseCase
	fx.Provide(buissines.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

// provideExtractor creates the extraction adapter backed by the engine runner
func provideExtractor(runner *ytdlp.Runner, store *cookies.Store, fs afero.Fs, cfg *config.DownloadConfig, logger zerolog.Logger) (deps.MediaExtractor, error) {
	return extractorRepo.NewAdapter(runner, store, fs, cfg, logger.With().Str("component", "extractor").Logger())
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *buissines.UseCase, bot *telegram.Bot, fs afero.Fs, cfg *config.UploadConfig, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), fs, cfg, logger)
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	uc *buissines.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
) {
	// Handlers implements deps.TelegramSender interface
	// This resolves the cyclic dependency: UseCase -> TelegramSender <- Handlers -> UseCase
	uc.SetSender(handlers)

	// Register Telegram routes
	router.RegisterRoutes(bot.Raw())
}
