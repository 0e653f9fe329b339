// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/clipgrab/clipgrab-bot/config"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/consts"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/dto"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/entities"
	boterrors "github.com/clipgrab/clipgrab-bot/internal/domain/bot/errors"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/quality"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/usecase/buissines"
)

// Handlers contains Telegram command handlers
// Implements deps.TelegramSender interface
type Handlers struct {
	uc     *buissines.UseCase
	bot    *tgbot.Bot
	fs     afero.Fs
	cfg    *config.UploadConfig
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *buissines.UseCase, bot *tgbot.Bot, fs afero.Fs, cfg *config.UploadConfig, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		fs:     fs,
		cfg:    cfg,
		logger: logger,
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.logCommand(userID, "/start", "processing")

	req := &dto.StartCommandRequest{
		UserID:   userID,
		Username: update.Message.From.Username,
	}

	resp, err := h.uc.HandleStart(ctx, req)
	if err != nil {
		h.logError(userID, "/start", err)
		h.sendResponse(ctx, chatID, "❌ Something went wrong while processing /start")
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, "/start", "success")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.logCommand(userID, "/help", "processing")

	resp, err := h.uc.HandleHelp(ctx)
	if err != nil {
		h.logError(userID, "/help", err)
		h.sendResponse(ctx, chatID, "❌ Something went wrong while processing /help")
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, "/help", "success")
}

// HandleURL handles plain text messages carrying a media URL: YouTube links
// get a quality keyboard, Instagram links start downloading immediately
func (h *Handlers) HandleURL(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	url := strings.TrimSpace(update.Message.Text)

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		h.sendResponse(ctx, chatID, "Please send a valid URL starting with http:// or https://")
		return
	}

	switch entities.DetectPlatform(url) {
	case entities.PlatformYouTube:
		h.sendQualityKeyboard(ctx, chatID, url)

	case entities.PlatformInstagram:
		messageID, err := h.sendMessageAndGetID(ctx, chatID, "📥 Starting Instagram download...")
		if err != nil {
			h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send status message")
			return
		}

		req := &dto.DownloadRequest{
			URL:             url,
			Platform:        entities.PlatformInstagram,
			ChatID:          chatID,
			StatusMessageID: messageID,
		}
		outcome := h.uc.ProcessInstagramDownload(ctx, req)
		h.logOutcome(chatID, url, outcome)

	default:
		h.sendResponse(ctx, chatID, "❌ Unsupported URL. Please send a YouTube or Instagram link.")
	}
}

// HandleQualityCallback handles quality-choice button presses
func (h *Handlers) HandleQualityCallback(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery

	_, _ = h.bot.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	})

	chatID, messageID, ok := callbackMessageRef(query)
	if !ok {
		h.logger.Warn().Str("data", query.Data).Msg("Callback without accessible message, ignoring")
		return
	}

	key, url, err := parseCallbackData(query.Data)
	if err != nil {
		h.logger.Error().Err(err).Str("data", query.Data).Msg("Failed to parse callback data")
		_ = h.EditStatus(ctx, chatID, messageID, "❌ Error: Invalid button data")
		return
	}

	_ = h.EditStatus(ctx, chatID, messageID, "📥 Starting YouTube download...")

	req := &dto.DownloadRequest{
		URL:             url,
		Platform:        entities.PlatformYouTube,
		Quality:         key,
		ChatID:          chatID,
		StatusMessageID: messageID,
	}
	outcome := h.uc.ProcessYouTubeDownload(ctx, req)
	h.logOutcome(chatID, url, outcome)
}

// sendQualityKeyboard offers the quality choices as an inline keyboard
func (h *Handlers) sendQualityKeyboard(ctx context.Context, chatID int64, url string) {
	rows := make([][]models.InlineKeyboardButton, 0, len(quality.AllKeys))
	for _, key := range quality.AllKeys {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         quality.Label(key),
			CallbackData: consts.CallbackPrefix + string(key) + "_" + url,
		}})
	}

	msgCtx, cancel := context.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	_, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Choose download quality:",
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send quality keyboard")
	}
}

// EditStatus implements deps.TelegramSender interface
func (h *Handlers) EditStatus(ctx context.Context, chatID int64, messageID int, text string) error {
	msgCtx, cancel := context.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageText(msgCtx, &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	if err != nil {
		h.logger.Warn().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("Failed to edit status message")
	}

	return err
}

// SendChatAction implements deps.TelegramSender interface
func (h *Handlers) SendChatAction(ctx context.Context, chatID int64, action string) error {
	msgCtx, cancel := context.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	_, err := h.bot.SendChatAction(msgCtx, &tgbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatAction(action),
	})
	if err != nil {
		h.logger.Warn().Int64("chat_id", chatID).Str("action", action).Err(err).Msg("Failed to send chat action")
	}

	return err
}

// SendVideoFile implements deps.TelegramSender interface
func (h *Handlers) SendVideoFile(ctx context.Context, chatID int64, filePath, caption string) error {
	file, size, err := h.openMedia(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	msgCtx, cancel := context.WithTimeout(ctx, h.cfg.UploadTimeout)
	defer cancel()

	_, err = h.bot.SendVideo(msgCtx, &tgbot.SendVideoParams{
		ChatID:  chatID,
		Video:   &models.InputFileUpload{Filename: filepath.Base(filePath), Data: file},
		Caption: caption,
	})

	h.logUpload(chatID, "video", size, err)
	return err
}

// SendAudioFile implements deps.TelegramSender interface
func (h *Handlers) SendAudioFile(ctx context.Context, chatID int64, filePath, title, caption string) error {
	file, size, err := h.openMedia(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	msgCtx, cancel := context.WithTimeout(ctx, h.cfg.UploadTimeout)
	defer cancel()

	_, err = h.bot.SendAudio(msgCtx, &tgbot.SendAudioParams{
		ChatID:  chatID,
		Audio:   &models.InputFileUpload{Filename: filepath.Base(filePath), Data: file},
		Title:   title,
		Caption: caption,
	})

	h.logUpload(chatID, "audio", size, err)
	return err
}

// SendDocumentFile implements deps.TelegramSender interface
func (h *Handlers) SendDocumentFile(ctx context.Context, chatID int64, filePath, filename, caption string) error {
	file, size, err := h.openMedia(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	msgCtx, cancel := context.WithTimeout(ctx, h.cfg.UploadTimeout)
	defer cancel()

	_, err = h.bot.SendDocument(msgCtx, &tgbot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: file},
		Caption:  caption,
	})

	h.logUpload(chatID, "document", size, err)
	return err
}

// openMedia opens the media file for one send attempt. The file is streamed
// to the transport rather than buffered, and every attempt gets its own
// handle so a retry never reuses a consumed reader.
func (h *Handlers) openMedia(filePath string) (afero.File, int64, error) {
	file, err := h.fs.Open(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open media file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, fmt.Errorf("failed to stat media file: %w", err)
	}

	return file, stat.Size(), nil
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	msgCtx, cancel := context.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	_, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

func (h *Handlers) sendMessageAndGetID(ctx context.Context, chatID int64, text string) (int, error) {
	msgCtx, cancel := context.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	msg, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return 0, err
	}

	return msg.ID, nil
}

// logUpload logs an upload attempt result
func (h *Handlers) logUpload(chatID int64, kind string, size int64, err error) {
	logEvent := h.logger.Info()
	if err != nil {
		logEvent = h.logger.Error().Err(err)
	}

	logEvent.Int64("chat_id", chatID).Str("kind", kind).Int64("size", size).Msg("Upload attempt completed")
}

// logOutcome logs the terminal result of a transfer request
func (h *Handlers) logOutcome(chatID int64, url string, outcome *entities.UploadOutcome) {
	logEvent := h.logger.Info()
	if outcome.Err != nil {
		logEvent = h.logger.Error().Err(outcome.Err)
	}

	logEvent.
		Int64("chat_id", chatID).
		Str("url", url).
		Str("status", string(outcome.Status)).
		Int("attempts", outcome.Attempts).
		Msg("Transfer request finished")
}

// logCommand logs successful commands
func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

// logError logs command errors
func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().Int64("user_id", userID).Str("command", command).Err(err).Msg("Telegram command failed")
}

// parseCallbackData splits "yt_<quality>_<url>" into its parts
func parseCallbackData(data string) (quality.Key, string, error) {
	parts := strings.SplitN(data, "_", 3)
	if len(parts) != 3 || parts[2] == "" {
		return "", "", fmt.Errorf("%w: %q", boterrors.ErrEmptyCallback, data)
	}

	key, err := quality.Parse(parts[1])
	if err != nil {
		return "", "", err
	}

	return key, parts[2], nil
}

// callbackMessageRef extracts the chat and message the callback originated
// from; inaccessible messages cannot carry status edits
func callbackMessageRef(query *models.CallbackQuery) (int64, int, bool) {
	if query == nil || query.Message.Message == nil {
		return 0, 0, false
	}

	msg := query.Message.Message
	return msg.Chat.ID, msg.ID, true
}
