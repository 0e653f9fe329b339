// Package cookies materializes platform credentials from the environment
// into local cookie files consumable by the extraction engine
package cookies

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/clipgrab/clipgrab-bot/config"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/entities"
)

// File names follow the Netscape cookie-file convention used by yt-dlp
const (
	youtubeFileName   = "youtube.com_cookies.txt"
	instagramFileName = "instagram.com_cookies.txt"
)

// Store resolves per-platform cookie files on local disk
type Store struct {
	fs     afero.Fs
	dir    string
	logger zerolog.Logger
}

// NewStore creates the store and materializes cookie files from config.
// Content sourced from environment variables carries \n-escaped newlines;
// those are restored on write. An existing file is never overwritten.
func NewStore(fs afero.Fs, cfg *config.CookiesConfig, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		fs:     fs,
		dir:    cfg.Dir,
		logger: logger,
	}

	if err := s.materialize(youtubeFileName, cfg.YouTubeContent); err != nil {
		return nil, fmt.Errorf("failed to create youtube cookie file: %w", err)
	}
	if err := s.materialize(instagramFileName, cfg.InstagramContent); err != nil {
		return nil, fmt.Errorf("failed to create instagram cookie file: %w", err)
	}

	s.logStatus(entities.PlatformYouTube)
	s.logStatus(entities.PlatformInstagram)

	return s, nil
}

// Path returns the cookie file path for a platform, or "" when no cookie
// file is configured
func (s *Store) Path(platform entities.Platform) string {
	path := s.filePath(platform)
	if path == "" {
		return ""
	}

	exists, err := afero.Exists(s.fs, path)
	if err != nil || !exists {
		return ""
	}

	return path
}

// Configured reports whether a credential source exists for the platform
func (s *Store) Configured(platform entities.Platform) bool {
	return s.Path(platform) != ""
}

func (s *Store) filePath(platform entities.Platform) string {
	switch platform {
	case entities.PlatformYouTube:
		return filepath.Join(s.dir, youtubeFileName)
	case entities.PlatformInstagram:
		return filepath.Join(s.dir, instagramFileName)
	default:
		return ""
	}
}

func (s *Store) materialize(name, content string) error {
	if content == "" {
		return nil
	}

	path := filepath.Join(s.dir, name)

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug().Str("path", path).Msg("Cookie file already exists, keeping it")
		return nil
	}

	restored := strings.ReplaceAll(content, `\n`, "\n")
	if err := afero.WriteFile(s.fs, path, []byte(restored), 0o600); err != nil {
		return err
	}

	s.logger.Info().Str("path", path).Msg("Cookie file created from environment variable")
	return nil
}

// logStatus logs cookie availability and line count for operator guidance
func (s *Store) logStatus(platform entities.Platform) {
	path := s.filePath(platform)

	exists, err := afero.Exists(s.fs, path)
	if err != nil || !exists {
		s.logger.Warn().Str("platform", string(platform)).Str("path", path).Msg("Cookie file not found, proceeding without authentication")
		return
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("Failed to read cookie file")
		return
	}

	lines := strings.Count(string(data), "\n")
	s.logger.Info().Str("platform", string(platform)).Str("path", path).Int("lines", lines).Msg("Cookie file found")
}
