// Package telegram contains Telegram delivery layer
package telegram

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, r.handlers.HandleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypeExact, r.handlers.HandleHelp)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackPrefix, tgbot.MatchTypePrefix, r.handlers.HandleQualityCallback)

	// Any non-command text message is treated as a candidate media URL
	bot.RegisterHandlerMatchFunc(isPlainTextMessage, r.handlers.HandleURL)

	r.registerCommandMenu(bot)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

// registerCommandMenu publishes the command list shown in the Telegram UI
func (r *Router) registerCommandMenu(bot *tgbot.Bot) {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, cmd := range consts.AllCommands {
		commands = append(commands, models.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		})
	}

	if _, err := bot.SetMyCommands(context.Background(), &tgbot.SetMyCommandsParams{Commands: commands}); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to register command menu")
	}
}

// isPlainTextMessage matches text messages that are not commands
func isPlainTextMessage(update *models.Update) bool {
	return update.Message != nil &&
		update.Message.Text != "" &&
		!strings.HasPrefix(update.Message.Text, "/")
}
