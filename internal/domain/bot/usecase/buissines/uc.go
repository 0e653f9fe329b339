// Package buissines contains business logic for the bot domain
package buissines

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/clipgrab/clipgrab-bot/config"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/deps"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/dto"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/entities"
	boterrors "github.com/clipgrab/clipgrab-bot/internal/domain/bot/errors"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/quality"
	pkgerrors "github.com/clipgrab/clipgrab-bot/pkg/errors"
)

// UseCase drives the end-to-end transfer flow: extraction under a deadline,
// size classification, upload path selection, retries and cleanup
type UseCase struct {
	extractor deps.MediaExtractor
	sender    deps.TelegramSender
	upload    *config.UploadConfig
	download  *config.DownloadConfig
	fs        afero.Fs
	logger    zerolog.Logger
}

// NewUseCase creates a new UseCase instance
// Note: sender is not passed here to break cyclic dependency
// Use SetSender after creating TelegramHandlers
func NewUseCase(extractor deps.MediaExtractor, upload *config.UploadConfig, download *config.DownloadConfig, fs afero.Fs, logger zerolog.Logger) *UseCase {
	return &UseCase{
		extractor: extractor,
		upload:    upload,
		download:  download,
		fs:        fs,
		logger:    logger,
	}
}

// SetSender sets the TelegramSender after construction
// This is called by fx.Invoke to resolve cyclic dependency
func (uc *UseCase) SetSender(sender deps.TelegramSender) {
	uc.sender = sender
}

// HandleStart handles /start command
func (uc *UseCase) HandleStart(ctx context.Context, req *dto.StartCommandRequest) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Int64("user_id", req.UserID).
		Str("username", req.Username).
		Msg("User started bot")

	message := `🎬 <b>Video Downloader Bot</b>

Send me a YouTube or Instagram link and I'll download the video for you!

<b>Supported platforms:</b>
• YouTube (videos &amp; audio)
• Instagram (posts, reels, stories)

<b>Commands:</b>
/start - Show this message
/help - Get help

Just paste a link to get started! 🚀`

	return &dto.CommandResponse{Message: message}, nil
}

// HandleHelp handles /help command
func (uc *UseCase) HandleHelp(ctx context.Context) (*dto.CommandResponse, error) {
	message := `📚 <b>How to use this bot:</b>

1. Copy a YouTube or Instagram video URL
2. Send it to this bot
3. Choose your preferred quality/format
4. Wait for the download to complete

<b>Supported URL formats:</b>
• https://www.youtube.com/watch?v=...
• https://youtu.be/...
• https://www.instagram.com/p/...
• https://www.instagram.com/reel/...

<b>Note:</b> Large files may take some time to process. Please be patient! ⏳`

	return &dto.CommandResponse{Message: message}, nil
}

// ProcessYouTubeDownload runs the full transfer flow for the primary
// platform: quality-resolved extraction, size checks, small/large upload
// path and cleanup. The returned outcome is terminal; every user-visible
// message has already been emitted when it returns.
func (uc *UseCase) ProcessYouTubeDownload(ctx context.Context, req *dto.DownloadRequest) *entities.UploadOutcome {
	if uc.sender == nil {
		uc.logger.Error().Msg("TelegramSender is not set")
		return &entities.UploadOutcome{Status: entities.UploadFailed, Err: boterrors.ErrSenderNotWired}
	}

	_ = uc.sender.SendChatAction(ctx, req.ChatID, "upload_video")
	uc.editStatus(ctx, req, "📥 Downloading video... This may take a few minutes for large files.")

	spec := quality.Resolve(req.Quality)

	fetchCtx, cancel := context.WithTimeout(ctx, uc.download.YouTubeTimeout)
	defer cancel()

	result, err := uc.extractor.Fetch(fetchCtx, &entities.FetchRequest{
		URL:      req.URL,
		Platform: entities.PlatformYouTube,
		Format:   spec,
	})
	if err != nil {
		if pkgerrors.IsTimeoutError(err) || errors.Is(err, context.DeadlineExceeded) {
			uc.editStatus(ctx, req, "❌ Download timed out. The video is likely too large or the connection is slow. Please try a lower quality (720p or 480p).")
			return &entities.UploadOutcome{Status: entities.UploadFailed, Err: pkgerrors.NewTimeoutError("download timed out")}
		}

		uc.logger.Error().Err(err).Str("url", req.URL).Msg("Extraction failed")
		uc.editStatus(ctx, req, fmt.Sprintf("❌ Error: %v", err))
		return &entities.UploadOutcome{Status: entities.UploadFailed, Err: err}
	}

	return uc.transfer(ctx, req, result, quality.ExpectedSize(req.Quality))
}

// ProcessInstagramDownload runs the simplified single-path flow for the
// secondary platform: fixed format, flat size ceiling, one download and one
// upload attempt, no retries.
func (uc *UseCase) ProcessInstagramDownload(ctx context.Context, req *dto.DownloadRequest) *entities.UploadOutcome {
	if uc.sender == nil {
		uc.logger.Error().Msg("TelegramSender is not set")
		return &entities.UploadOutcome{Status: entities.UploadFailed, Err: boterrors.ErrSenderNotWired}
	}

	_ = uc.sender.SendChatAction(ctx, req.ChatID, "upload_video")

	fetchCtx, cancel := context.WithTimeout(ctx, uc.download.InstagramTimeout)
	defer cancel()

	result, err := uc.extractor.Fetch(fetchCtx, &entities.FetchRequest{
		URL:      req.URL,
		Platform: entities.PlatformInstagram,
		Format:   quality.InstagramSpec(),
	})
	if err != nil {
		if pkgerrors.IsTimeoutError(err) || errors.Is(err, context.DeadlineExceeded) {
			uc.editStatus(ctx, req, "❌ Download timed out. Please try again.")
			return &entities.UploadOutcome{Status: entities.UploadFailed, Err: pkgerrors.NewTimeoutError("download timed out")}
		}

		uc.logger.Error().Err(err).Str("url", req.URL).Msg("Extraction failed")
		uc.editStatus(ctx, req, fmt.Sprintf("❌ Error: %v", err))
		return &entities.UploadOutcome{Status: entities.UploadFailed, Err: err}
	}

	defer uc.cleanup(result.FilePath)

	if result.Size > uc.upload.InstagramSizeLimit {
		uc.editStatus(ctx, req, fmt.Sprintf("❌ File is too large (>%s).", humanize.IBytes(uint64(uc.upload.InstagramSizeLimit))))
		return &entities.UploadOutcome{Status: entities.UploadFailed, Err: pkgerrors.NewTooLargeError("file exceeds the size ceiling")}
	}

	if err := uc.sender.SendVideoFile(ctx, req.ChatID, result.FilePath, "📱 "+result.Title); err != nil {
		uc.logger.Error().Err(err).Msg("Instagram upload failed")
		uc.editStatus(ctx, req, fmt.Sprintf("❌ Upload failed: %v. File: %s.", err, humanize.IBytes(uint64(result.Size))))
		return &entities.UploadOutcome{Status: entities.UploadFailed, Attempts: 1, Err: err}
	}

	uc.editStatus(ctx, req, "✅ Download completed!")
	return &entities.UploadOutcome{Status: entities.UploadDelivered, Attempts: 1}
}

// transfer classifies the downloaded file by size and drives the matching
// upload path. The temporary file is removed on every exit path.
func (uc *UseCase) transfer(ctx context.Context, req *dto.DownloadRequest, result *entities.ExtractionResult, expectedSize int64) *entities.UploadOutcome {
	defer uc.cleanup(result.FilePath)

	sizeText := humanize.IBytes(uint64(result.Size))
	uc.editStatus(ctx, req, fmt.Sprintf("✅ Downloaded! File size: %s. Preparing upload...", sizeText))

	// Advisory only: quality selection may have silently degraded upstream
	if expectedSize > 0 && result.Size > expectedSize+expectedSize/2 {
		uc.logger.Warn().
			Int64("size", result.Size).
			Int64("expected", expectedSize).
			Msg("Downloaded file is larger than expected for the chosen quality")
		uc.editStatus(ctx, req, fmt.Sprintf(
			"⚠️ Warning: File is larger than expected (%s vs ~%s). Quality selection might have failed. Proceeding with upload...",
			sizeText, humanize.IBytes(uint64(expectedSize))))
	}

	if result.Size > uc.upload.HardSizeLimit {
		uc.editStatus(ctx, req, fmt.Sprintf("❌ File is too large (>%s). This video cannot be sent via Telegram.", humanize.IBytes(uint64(uc.upload.HardSizeLimit))))
		return &entities.UploadOutcome{Status: entities.UploadFailed, Err: pkgerrors.NewTooLargeError("file exceeds the hard size ceiling")}
	}

	if result.Size > uc.upload.SmallFileLimit {
		return uc.uploadLarge(ctx, req, result)
	}

	return uc.uploadSmall(ctx, req, result)
}

// uploadSmall sends the file inline as a typed media object, retrying
// timeout-flavored failures up to the configured attempt cap
func (uc *UseCase) uploadSmall(ctx context.Context, req *dto.DownloadRequest, result *entities.ExtractionResult) *entities.UploadOutcome {
	sizeText := humanize.IBytes(uint64(result.Size))
	uc.editStatus(ctx, req, fmt.Sprintf("📤 Uploading to Telegram... (%s)", sizeText))

	maxAttempts := uc.upload.MaxRetries

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := uc.sendTyped(ctx, req.ChatID, result)
		if err == nil {
			uc.editStatus(ctx, req, "✅ Download completed!")
			return &entities.UploadOutcome{Status: entities.UploadDelivered, Attempts: attempt}
		}

		uc.logger.Error().Err(err).Int("attempt", attempt).Msg("Upload attempt failed")

		if !isTimeoutFlavored(err) {
			// Non-transient failure aborts immediately with the error surfaced verbatim
			uc.editStatus(ctx, req, fmt.Sprintf("❌ Upload failed: %v. File: %s.", err, sizeText))
			return &entities.UploadOutcome{Status: entities.UploadFailed, Attempts: attempt, Err: err}
		}

		if attempt < maxAttempts {
			uc.editStatus(ctx, req, fmt.Sprintf("📤 Upload attempt %d timed out. Retrying... (%s)", attempt, sizeText))

			select {
			case <-ctx.Done():
				return &entities.UploadOutcome{Status: entities.UploadFailed, Attempts: attempt, Err: ctx.Err()}
			case <-time.After(uc.upload.RetryBackoff):
			}
			continue
		}

		// Final attempt. A client-side deadline is ambiguous: the transport
		// may have completed the send, so claiming failure risks a duplicate.
		if errors.Is(err, context.DeadlineExceeded) {
			uc.editStatus(ctx, req, fmt.Sprintf("📤 Upload is taking longer than expected (%s). The file may still be uploading in the background. Please wait a moment...", sizeText))
			return &entities.UploadOutcome{
				Status:   entities.UploadUnknown,
				Attempts: attempt,
				Err:      pkgerrors.NewUploadUnknownError("final upload attempt timed out, delivery unconfirmed"),
			}
		}

		uc.editStatus(ctx, req, fmt.Sprintf("❌ Upload failed after %d attempts. File: %s. Please try again or use a lower quality.", maxAttempts, sizeText))
		return &entities.UploadOutcome{
			Status:   entities.UploadFailed,
			Attempts: attempt,
			Err:      pkgerrors.NewUploadFailedError(attempt, err.Error()),
		}
	}

	// Unreachable: the loop always returns
	return &entities.UploadOutcome{Status: entities.UploadFailed, Err: pkgerrors.NewGenericError("upload loop exited unexpectedly")}
}

// uploadLarge sends the file as a generic attachment in a single attempt;
// large transfers are too costly to retry blindly
func (uc *UseCase) uploadLarge(ctx context.Context, req *dto.DownloadRequest, result *entities.ExtractionResult) *entities.UploadOutcome {
	sizeText := humanize.IBytes(uint64(result.Size))
	uc.editStatus(ctx, req, fmt.Sprintf("📤 File is large (%s). Uploading as document... Please wait, this may take several minutes.", sizeText))

	var err error
	if result.Kind == entities.MediaKindAudio {
		caption := fmt.Sprintf("🎵 %s (%s)", result.Title, sizeText)
		err = uc.sender.SendAudioFile(ctx, req.ChatID, result.FilePath, result.Title, caption)
	} else {
		caption := fmt.Sprintf("🎥 %s (%s)", result.Title, sizeText)
		err = uc.sender.SendDocumentFile(ctx, req.ChatID, result.FilePath, documentFilename(result.Title), caption)
	}

	if err == nil {
		uc.editStatus(ctx, req, "✅ Upload completed! Large file sent as document.")
		return &entities.UploadOutcome{Status: entities.UploadDeliveredAsDocument, Attempts: 1}
	}

	uc.logger.Error().Err(err).Int64("size", result.Size).Msg("Large file upload failed")

	if isTimeoutFlavored(err) {
		uc.editStatus(ctx, req, fmt.Sprintf("📤 Large file upload is taking longer than expected (%s). The file may still be uploading in the background. Please wait...", sizeText))
		return &entities.UploadOutcome{
			Status:   entities.UploadUnknown,
			Attempts: 1,
			Err:      pkgerrors.NewUploadUnknownError("large upload timed out, delivery unconfirmed"),
		}
	}

	uc.editStatus(ctx, req, fmt.Sprintf("❌ Upload failed: %v. File: %s. Please try a lower quality.", err, sizeText))
	return &entities.UploadOutcome{Status: entities.UploadFailed, Attempts: 1, Err: err}
}

// sendTyped delivers the file as an inline-playable media object
func (uc *UseCase) sendTyped(ctx context.Context, chatID int64, result *entities.ExtractionResult) error {
	if result.Kind == entities.MediaKindAudio {
		return uc.sender.SendAudioFile(ctx, chatID, result.FilePath, result.Title, "🎵 "+result.Title)
	}
	return uc.sender.SendVideoFile(ctx, chatID, result.FilePath, "🎥 "+result.Title)
}

// cleanup removes the temporary file; failures are logged, never surfaced.
// Safe to call when the file is already gone.
func (uc *UseCase) cleanup(path string) {
	if path == "" {
		return
	}

	if err := uc.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		uc.logger.Warn().Err(err).Str("file", path).Msg("Failed to remove temporary file")
	}
}

// editStatus updates the progress-narration message; edit failures do not
// affect the transfer outcome
func (uc *UseCase) editStatus(ctx context.Context, req *dto.DownloadRequest, text string) {
	if err := uc.sender.EditStatus(ctx, req.ChatID, req.StatusMessageID, text); err != nil {
		uc.logger.Warn().Err(err).Int64("chat_id", req.ChatID).Msg("Failed to edit status message")
	}
}

// isTimeoutFlavored recognizes transient timeout failures by error text or
// a client-side deadline
func isTimeoutFlavored(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out")
}

// documentFilename builds the attachment name from the media title,
// truncating on rune boundaries so multi-byte titles stay valid UTF-8
func documentFilename(title string) string {
	runes := []rune(title)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes) + ".mp4"
}
