// Package ytdlp contains the extraction adapter wrapping the external engine.
// Implements deps.MediaExtractor.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/clipgrab/clipgrab-bot/config"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/entities"
	boterrors "github.com/clipgrab/clipgrab-bot/internal/domain/bot/errors"
	engine "github.com/clipgrab/clipgrab-bot/internal/infrastructure/ytdlp"
	pkgerrors "github.com/clipgrab/clipgrab-bot/pkg/errors"
)

// recentFileWindow bounds the last-resort directory scan to files created
// moments ago, tolerating naming quirks of the engine across versions
const recentFileWindow = 30 * time.Second

// videoExtensions are the output extensions the engine is known to produce
var videoExtensions = []string{".mp4", ".webm", ".mkv"}

// audioExtensions extends the set for audio extraction runs
var audioExtensions = []string{".mp4", ".webm", ".mkv", ".mp3", ".m4a"}

// authKeywords is the keyword table used to recognize authentication
// failures in the engine's text errors. Classification by substring is
// deliberately confined to this package.
var authKeywords = []string{
	"login",
	"sign in",
	"private",
	"unavailable",
	"members only",
	"age-restricted",
}

// Engine is the external extraction engine consumed by the adapter
type Engine interface {
	Probe(ctx context.Context, url string, opts engine.Options) (*engine.ProbeInfo, error)
	Download(ctx context.Context, url string, opts engine.Options) error
}

// CookieSource resolves credential files for the supported platforms
type CookieSource interface {
	Path(platform entities.Platform) string
	Configured(platform entities.Platform) bool
}

// Adapter wraps the extraction engine and turns its outcomes into
// structured results
type Adapter struct {
	engine          Engine
	cookies         CookieSource
	fs              afero.Fs
	workDir         string
	durationCeiling time.Duration
	logger          zerolog.Logger
}

// NewAdapter creates the adapter with an isolated per-instance working
// directory under cfg.TempDir
func NewAdapter(eng Engine, cookies CookieSource, fs afero.Fs, cfg *config.DownloadConfig, logger zerolog.Logger) (*Adapter, error) {
	workDir, err := afero.TempDir(fs, cfg.TempDir, "clipgrab-")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}

	logger.Info().Str("work_dir", workDir).Msg("Extraction working directory created")

	return &Adapter{
		engine:          eng,
		cookies:         cookies,
		fs:              fs,
		workDir:         workDir,
		durationCeiling: cfg.DurationCeiling,
		logger:          logger,
	}, nil
}

// WorkDir returns the adapter's working directory
func (a *Adapter) WorkDir() string {
	return a.workDir
}

// Fetch implements deps.MediaExtractor. It probes metadata first, rejects
// over-long media before committing to a download, downloads into the
// working directory under a deterministic name, and locates the produced
// file. On success exactly one media file is left on disk; on failure none.
func (a *Adapter) Fetch(ctx context.Context, req *entities.FetchRequest) (*entities.ExtractionResult, error) {
	opts := engine.Options{
		Format:     req.Format.Chain,
		CookieFile: a.cookies.Path(req.Platform),
		AudioOnly:  req.Format.AudioOnly,
	}

	if opts.CookieFile != "" {
		a.logger.Info().Str("platform", string(req.Platform)).Str("cookie_file", opts.CookieFile).Msg("Using cookies for extraction")
	} else {
		a.logger.Warn().Str("platform", string(req.Platform)).Msg("Cookie file not found, proceeding without authentication")
	}

	info, err := a.engine.Probe(ctx, req.URL, opts)
	if err != nil {
		return nil, a.classifyEngineError(err, req.Platform)
	}

	// Duration is checked before the download to avoid wasted bandwidth
	if a.durationCeiling > 0 && info.Duration > a.durationCeiling.Seconds() {
		return nil, pkgerrors.NewDurationExceededError(
			fmt.Sprintf("video is too long: %.0fs (max %.0fs allowed)", info.Duration, a.durationCeiling.Seconds()))
	}

	a.logger.Info().
		Str("id", info.ID).
		Str("title", info.Title).
		Str("format", req.Format.Chain).
		Int("available_formats", len(info.Formats)).
		Msg("Starting download")

	suffix := qualitySuffix(req.Format.Chain)
	opts.OutputTemplate = filepath.Join(a.workDir, fmt.Sprintf("%%(id)s_%s.%%(ext)s", suffix))

	if err := a.engine.Download(ctx, req.URL, opts); err != nil {
		a.removePartials(info.ID)
		return nil, a.classifyEngineError(err, req.Platform)
	}

	extensions := videoExtensions
	kind := entities.MediaKindVideo
	if req.Format.AudioOnly {
		extensions = audioExtensions
		kind = entities.MediaKindAudio
	}

	filePath, err := a.locateFile(info.ID, suffix, extensions)
	if err != nil {
		return nil, err
	}

	stat, err := a.fs.Stat(filePath)
	if err != nil {
		return nil, pkgerrors.NewGenericError(fmt.Sprintf("failed to stat downloaded file: %v", err))
	}

	a.logger.Info().
		Str("file", filePath).
		Int64("size", stat.Size()).
		Msg("Download completed")

	return &entities.ExtractionResult{
		FilePath: filePath,
		Title:    info.Title,
		Kind:     kind,
		Size:     stat.Size(),
	}, nil
}

// locateFile finds the downloaded file: exact expected name first, then a
// scan for the media identifier, then a scan for recently created files
// with an expected extension
func (a *Adapter) locateFile(mediaID, suffix string, extensions []string) (string, error) {
	for _, ext := range extensions {
		path := filepath.Join(a.workDir, mediaID+"_"+suffix+ext)
		if exists, _ := afero.Exists(a.fs, path); exists {
			return path, nil
		}
	}

	infos, err := afero.ReadDir(a.fs, a.workDir)
	if err != nil {
		return "", pkgerrors.NewGenericError(fmt.Sprintf("failed to scan working directory: %v", err))
	}

	for _, fi := range infos {
		if fi.IsDir() || !strings.Contains(fi.Name(), mediaID) {
			continue
		}
		if hasExtension(fi.Name(), extensions) {
			a.logger.Info().Str("file", fi.Name()).Msg("Found downloaded file by identifier scan")
			return filepath.Join(a.workDir, fi.Name()), nil
		}
	}

	cutoff := time.Now().Add(-recentFileWindow)
	for _, fi := range infos {
		if fi.IsDir() || !hasExtension(fi.Name(), extensions) {
			continue
		}
		if fi.ModTime().After(cutoff) {
			a.logger.Info().Str("file", fi.Name()).Msg("Found downloaded file by recency scan")
			return filepath.Join(a.workDir, fi.Name()), nil
		}
	}

	return "", boterrors.ErrFileNotFound
}

// removePartials deletes any leftover files for a media identifier so a
// failed download leaves nothing behind
func (a *Adapter) removePartials(mediaID string) {
	if mediaID == "" {
		return
	}

	infos, err := afero.ReadDir(a.fs, a.workDir)
	if err != nil {
		return
	}

	for _, fi := range infos {
		if fi.IsDir() || !strings.Contains(fi.Name(), mediaID) {
			continue
		}
		path := filepath.Join(a.workDir, fi.Name())
		if err := a.fs.Remove(path); err != nil {
			a.logger.Warn().Err(err).Str("file", path).Msg("Failed to remove partial download")
		}
	}
}

// classifyEngineError translates the engine's text errors into the typed
// taxonomy. Authentication messages mention whether a cookie file was
// configured, to guide the operator.
func (a *Adapter) classifyEngineError(err error, platform entities.Platform) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return pkgerrors.NewTimeoutError("extraction timed out")
	}

	msg := strings.ToLower(err.Error())

	for _, keyword := range authKeywords {
		if strings.Contains(msg, keyword) {
			if a.cookies.Configured(platform) {
				return pkgerrors.NewAuthRequiredError(
					fmt.Sprintf("content requires authentication, please update your %s cookies file", platform))
			}
			return pkgerrors.NewAuthRequiredError(
				fmt.Sprintf("content requires authentication, please add your %s cookies file", platform))
		}
	}

	if strings.Contains(msg, "requested format not available") {
		return pkgerrors.NewFormatUnavailableError("requested video quality not available, try a different quality option")
	}

	return pkgerrors.NewGenericError(fmt.Sprintf("download failed: %v", err))
}

// qualitySuffix derives the output-name discriminator from a format chain:
// the first alternative, slashes replaced, truncated to 10 characters
func qualitySuffix(chain string) string {
	suffix := chain
	if idx := strings.Index(suffix, "+"); idx >= 0 {
		suffix = suffix[:idx]
	}
	suffix = strings.ReplaceAll(suffix, "/", "_")
	if len(suffix) > 10 {
		suffix = suffix[:10]
	}
	if suffix == "" {
		suffix = "video"
	}
	return suffix
}

// hasExtension reports whether name ends in one of the expected extensions
func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
