// Package deps contains interface definitions for the bot domain dependencies
package deps

import (
	"context"

	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/entities"
)

// MediaExtractor defines interface for resolving a media URL to a local file.
// Implementations probe metadata first, enforce the duration ceiling before
// committing to a download, and classify failures into the typed taxonomy.
type MediaExtractor interface {
	// Fetch downloads the media described by req and returns exactly one
	// local file on success, none on failure
	Fetch(ctx context.Context, req *entities.FetchRequest) (*entities.ExtractionResult, error)
}

// TelegramSender defines interface for delivering media and status updates
// via Telegram.
// This interface is used to break the cyclic dependency between UseCase and
// TelegramHandler.
type TelegramSender interface {
	// EditStatus edits the progress-narration message in the user's chat
	EditStatus(ctx context.Context, chatID int64, messageID int, text string) error

	// SendChatAction sends typing/upload indicator to the chat
	SendChatAction(ctx context.Context, chatID int64, action string) error

	// SendVideoFile uploads a local file as a typed video message
	SendVideoFile(ctx context.Context, chatID int64, filePath, caption string) error

	// SendAudioFile uploads a local file as a typed audio message
	SendAudioFile(ctx context.Context, chatID int64, filePath, title, caption string) error

	// SendDocumentFile uploads a local file as a generic file attachment
	SendDocumentFile(ctx context.Context, chatID int64, filePath, filename, caption string) error
}
