package ytdlp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/clipgrab/clipgrab-bot/config"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/entities"
	engine "github.com/clipgrab/clipgrab-bot/internal/infrastructure/ytdlp"
	pkgerrors "github.com/clipgrab/clipgrab-bot/pkg/errors"
)

// fakeEngine scripts probe and download outcomes; onDownload lets a test
// materialize output files the way the real engine would
type fakeEngine struct {
	probeInfo     *engine.ProbeInfo
	probeErr      error
	downloadErr   error
	downloadCalls int
	onDownload    func(opts engine.Options)
}

func (f *fakeEngine) Probe(ctx context.Context, url string, opts engine.Options) (*engine.ProbeInfo, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return f.probeInfo, nil
}

func (f *fakeEngine) Download(ctx context.Context, url string, opts engine.Options) error {
	f.downloadCalls++
	if f.downloadErr != nil {
		return f.downloadErr
	}
	if f.onDownload != nil {
		f.onDownload(opts)
	}
	return nil
}

// fakeCookies simulates a configured or missing credential source
type fakeCookies struct {
	configured bool
}

func (f *fakeCookies) Path(platform entities.Platform) string {
	if f.configured {
		return "/cookies/" + string(platform) + "_cookies.txt"
	}
	return ""
}

func (f *fakeCookies) Configured(platform entities.Platform) bool {
	return f.configured
}

func newTestAdapter(t *testing.T, eng Engine, cookies CookieSource) (*Adapter, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	cfg := &config.DownloadConfig{
		TempDir:         "/tmp",
		DurationCeiling: 600 * time.Second,
	}

	adapter, err := NewAdapter(eng, cookies, fs, cfg, zerolog.Nop())
	require.NoError(t, err)

	return adapter, fs
}

func probeInfo(id string, duration float64) *engine.ProbeInfo {
	return &engine.ProbeInfo{
		ID:       id,
		Title:    "Test Video",
		Duration: duration,
	}
}

func youtubeFetch(chain string) *entities.FetchRequest {
	return &entities.FetchRequest{
		URL:      "https://www.youtube.com/watch?v=abc123",
		Platform: entities.PlatformYouTube,
		Format:   entities.FormatSpec{Chain: chain},
	}
}

// Scenario: duration over the ceiling is rejected before any download and
// leaves nothing on disk
func TestFetch_DurationExceededBeforeDownload(t *testing.T) {
	eng := &fakeEngine{probeInfo: probeInfo("abc123", 601)}
	adapter, fs := newTestAdapter(t, eng, &fakeCookies{})

	result, err := adapter.Fetch(context.Background(), youtubeFetch("136+140/best[height<=720]/134+140"))

	require.Nil(t, result)
	require.True(t, pkgerrors.IsDurationExceededError(err))
	require.Equal(t, 0, eng.downloadCalls)

	infos, readErr := afero.ReadDir(fs, adapter.WorkDir())
	require.NoError(t, readErr)
	require.Empty(t, infos, "no partial file may be left on disk")
}

func TestFetch_Success(t *testing.T) {
	eng := &fakeEngine{probeInfo: probeInfo("abc123", 120)}
	adapter, fs := newTestAdapter(t, eng, &fakeCookies{})

	// The engine writes the file under the deterministic template name
	eng.onDownload = func(opts engine.Options) {
		path := adapter.WorkDir() + "/abc123_136.mp4"
		require.NoError(t, afero.WriteFile(fs, path, make([]byte, 2048), 0o644))
	}

	result, err := adapter.Fetch(context.Background(), youtubeFetch("136+140/best[height<=720]/134+140"))

	require.NoError(t, err)
	require.Equal(t, "Test Video", result.Title)
	require.Equal(t, entities.MediaKindVideo, result.Kind)
	require.Equal(t, int64(2048), result.Size)
	require.Contains(t, result.FilePath, "abc123_136.mp4")
}

func TestFetch_AudioOnlyKind(t *testing.T) {
	eng := &fakeEngine{probeInfo: probeInfo("abc123", 120)}
	adapter, fs := newTestAdapter(t, eng, &fakeCookies{})

	eng.onDownload = func(opts engine.Options) {
		path := adapter.WorkDir() + "/abc123_bestaudio[.mp3"
		require.NoError(t, afero.WriteFile(fs, path, make([]byte, 512), 0o644))
	}

	req := youtubeFetch("bestaudio[ext=m4a]/bestaudio")
	req.Format.AudioOnly = true

	result, err := adapter.Fetch(context.Background(), req)

	require.NoError(t, err)
	require.Equal(t, entities.MediaKindAudio, result.Kind)
}

// The engine occasionally names files differently across versions; the
// identifier scan finds them anyway
func TestFetch_LocateByIdentifierScan(t *testing.T) {
	eng := &fakeEngine{probeInfo: probeInfo("abc123", 120)}
	adapter, fs := newTestAdapter(t, eng, &fakeCookies{})

	eng.onDownload = func(opts engine.Options) {
		path := adapter.WorkDir() + "/abc123.f137.mp4"
		require.NoError(t, afero.WriteFile(fs, path, make([]byte, 1024), 0o644))
	}

	result, err := adapter.Fetch(context.Background(), youtubeFetch("137+140/best[height<=1080]"))

	require.NoError(t, err)
	require.Contains(t, result.FilePath, "abc123.f137.mp4")
}

func TestFetch_LocateByRecencyScan(t *testing.T) {
	eng := &fakeEngine{probeInfo: probeInfo("abc123", 120)}
	adapter, fs := newTestAdapter(t, eng, &fakeCookies{})

	eng.onDownload = func(opts engine.Options) {
		// Neither the expected name nor the identifier appears
		path := adapter.WorkDir() + "/renamed-output.mp4"
		require.NoError(t, afero.WriteFile(fs, path, make([]byte, 1024), 0o644))
	}

	result, err := adapter.Fetch(context.Background(), youtubeFetch("136+140/best[height<=720]/18"))

	require.NoError(t, err)
	require.Contains(t, result.FilePath, "renamed-output.mp4")
}

func TestFetch_FileNotFound(t *testing.T) {
	eng := &fakeEngine{probeInfo: probeInfo("abc123", 120)}
	adapter, _ := newTestAdapter(t, eng, &fakeCookies{})

	result, err := adapter.Fetch(context.Background(), youtubeFetch("136+140/best[height<=720]/18"))

	require.Nil(t, result)
	require.Error(t, err)
	require.Contains(t, err.Error(), "file not found")
}

func TestFetch_ClassifiesEngineErrors(t *testing.T) {
	tests := []struct {
		name       string
		engineErr  error
		configured bool
		check      func(error) bool
		contains   string
	}{
		{
			name:      "login required without cookies",
			engineErr: errors.New("ERROR: [youtube] abc123: Sign in to confirm you're not a bot"),
			check:     pkgerrors.IsAuthRequiredError,
			contains:  "add your youtube cookies",
		},
		{
			name:       "login required with cookies",
			engineErr:  errors.New("ERROR: This video is private"),
			configured: true,
			check:      pkgerrors.IsAuthRequiredError,
			contains:   "update your youtube cookies",
		},
		{
			name:      "age restricted",
			engineErr: errors.New("ERROR: age-restricted video"),
			check:     pkgerrors.IsAuthRequiredError,
		},
		{
			name:      "members only",
			engineErr: errors.New("ERROR: members only content"),
			check:     pkgerrors.IsAuthRequiredError,
		},
		{
			name:      "format unavailable",
			engineErr: errors.New("ERROR: Requested format not available"),
			check:     pkgerrors.IsFormatUnavailableError,
		},
		{
			name:      "deadline exceeded",
			engineErr: context.DeadlineExceeded,
			check:     pkgerrors.IsTimeoutError,
		},
		{
			name:      "generic",
			engineErr: errors.New("ERROR: network unreachable"),
			check:     pkgerrors.IsGenericError,
			contains:  "download failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &fakeEngine{probeErr: tt.engineErr}
			adapter, _ := newTestAdapter(t, eng, &fakeCookies{configured: tt.configured})

			result, err := adapter.Fetch(context.Background(), youtubeFetch("136+140/best[height<=720]/18"))

			require.Nil(t, result)
			require.True(t, tt.check(err), "unexpected error type: %v", err)
			if tt.contains != "" {
				require.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

// A failed download leaves no partial files behind
func TestFetch_DownloadFailureRemovesPartials(t *testing.T) {
	eng := &fakeEngine{probeInfo: probeInfo("abc123", 120)}
	adapter, fs := newTestAdapter(t, eng, &fakeCookies{})

	eng.downloadErr = errors.New("ERROR: interrupted")
	require.NoError(t, afero.WriteFile(fs, adapter.WorkDir()+"/abc123_136.mp4.part", make([]byte, 10), 0o644))

	_, err := adapter.Fetch(context.Background(), youtubeFetch("136+140/best[height<=720]/18"))
	require.Error(t, err)

	infos, readErr := afero.ReadDir(fs, adapter.WorkDir())
	require.NoError(t, readErr)
	require.Empty(t, infos)
}

func TestQualitySuffix(t *testing.T) {
	tests := []struct {
		chain string
		want  string
	}{
		{chain: "136+140/best[height<=720]/18", want: "136"},
		{chain: "137+140/best[height<=1080]", want: "137"},
		{chain: "bestaudio[ext=m4a]/bestaudio", want: "bestaudio["},
		{chain: "best[ext=mp4]/best", want: "best[ext=m"},
		{chain: "", want: "video"},
	}

	for _, tt := range tests {
		t.Run(tt.chain, func(t *testing.T) {
			if got := qualitySuffix(tt.chain); got != tt.want {
				t.Errorf("qualitySuffix(%q) = %q, want %q", tt.chain, got, tt.want)
			}
		})
	}
}
