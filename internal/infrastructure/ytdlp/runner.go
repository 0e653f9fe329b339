// Package ytdlp contains the external extraction engine infrastructure.
// The engine is the yt-dlp binary, consumed as an opaque external service
// via its command-line interface.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Options configures a single engine invocation
type Options struct {
	// Format is an engine format specifier, possibly a "/"-separated fallback chain
	Format string
	// OutputTemplate is the engine output path template (supports %(id)s, %(ext)s)
	OutputTemplate string
	// CookieFile points at a Netscape cookie file, empty when unauthenticated
	CookieFile string
	// AudioOnly extracts the audio track to mp3 instead of downloading video
	AudioOnly bool
}

// ProbeInfo is the structured metadata returned by a metadata-only probe
type ProbeInfo struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Duration float64           `json:"duration"`
	Formats  []json.RawMessage `json:"formats"`
}

// Runner invokes the yt-dlp binary
type Runner struct {
	bin    string
	logger zerolog.Logger
}

// NewRunner creates a new engine runner
func NewRunner(bin string, logger zerolog.Logger) *Runner {
	return &Runner{
		bin:    bin,
		logger: logger,
	}
}

// Probe reads media metadata without downloading anything
func (r *Runner) Probe(ctx context.Context, url string, opts Options) (*ProbeInfo, error) {
	args := []string{"--dump-single-json", "--no-playlist"}
	if opts.CookieFile != "" {
		args = append(args, "--cookies", opts.CookieFile)
	}
	args = append(args, url)

	out, err := r.run(ctx, args)
	if err != nil {
		return nil, err
	}

	var info ProbeInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("failed to parse probe output: %w", err)
	}

	r.logger.Info().
		Str("id", info.ID).
		Float64("duration", info.Duration).
		Int("formats", len(info.Formats)).
		Msg("Probe completed")

	return &info, nil
}

// Download fetches the media described by opts onto local disk
func (r *Runner) Download(ctx context.Context, url string, opts Options) error {
	args := []string{
		"-f", opts.Format,
		"-o", opts.OutputTemplate,
		"--no-playlist",
	}

	if opts.AudioOnly {
		args = append(args, "-x", "--audio-format", "mp3", "--audio-quality", "192K")
	} else {
		args = append(args, "--merge-output-format", "mp4")
	}

	if opts.CookieFile != "" {
		args = append(args, "--cookies", opts.CookieFile)
	}

	args = append(args, url)

	_, err := r.run(ctx, args)
	return err
}

// run executes the binary and returns stdout; on failure the error carries
// the stderr text so the adapter can classify it
func (r *Runner) run(ctx context.Context, args []string) ([]byte, error) {
	r.logger.Debug().Str("bin", r.bin).Strs("args", args).Msg("Invoking extraction engine")

	cmd := exec.CommandContext(ctx, r.bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%s: %s", r.bin, msg)
	}

	return stdout.Bytes(), nil
}
