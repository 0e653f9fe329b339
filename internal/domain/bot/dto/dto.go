// Package dto contains data transfer objects for the bot domain
package dto

import (
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/entities"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/quality"
)

// StartCommandRequest represents a request to handle /start command
type StartCommandRequest struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// CommandResponse represents a response for bot commands
type CommandResponse struct {
	Message string `json:"message"`
}

// DownloadRequest describes one end-to-end download-and-relay operation.
// It is created from user input, immutable, and discarded when the
// request completes.
type DownloadRequest struct {
	URL      string            `json:"url"`
	Platform entities.Platform `json:"platform"`
	Quality  quality.Key       `json:"quality"`

	// ChatID is the chat the media is delivered to
	ChatID int64 `json:"chatId"`
	// StatusMessageID is the message edited with progress narration
	StatusMessageID int `json:"statusMessageId"`
}
