package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "test-token", cfg.Telegram.BotToken)
	require.Equal(t, "yt-dlp", cfg.Download.YtdlpBin)
	require.Equal(t, 600*time.Second, cfg.Download.DurationCeiling)
	require.Equal(t, 300*time.Second, cfg.Download.YouTubeTimeout)
	require.Equal(t, 120*time.Second, cfg.Download.InstagramTimeout)
	require.Equal(t, int64(50*1024*1024), cfg.Upload.SmallFileLimit)
	require.Equal(t, int64(2*1024*1024*1024), cfg.Upload.HardSizeLimit)
	require.Equal(t, int64(50*1024*1024), cfg.Upload.InstagramSizeLimit)
	require.Equal(t, 3, cfg.Upload.MaxRetries)
	require.Equal(t, 2*time.Second, cfg.Upload.RetryBackoff)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("YTDLP_BIN", "/usr/local/bin/yt-dlp")
	t.Setenv("MAX_DURATION", "15m")
	t.Setenv("SMALL_FILE_LIMIT", "10485760")
	t.Setenv("UPLOAD_MAX_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "/usr/local/bin/yt-dlp", cfg.Download.YtdlpBin)
	require.Equal(t, 15*time.Minute, cfg.Download.DurationCeiling)
	require.Equal(t, int64(10485760), cfg.Upload.SmallFileLimit)
	require.Equal(t, 5, cfg.Upload.MaxRetries)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("MAX_DURATION", "not-a-duration")
	t.Setenv("UPLOAD_MAX_RETRIES", "many")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 600*time.Second, cfg.Download.DurationCeiling)
	require.Equal(t, 3, cfg.Upload.MaxRetries)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Telegram: TelegramConfig{BotToken: "token"},
			Upload: UploadConfig{
				SmallFileLimit: 50 * 1024 * 1024,
				HardSizeLimit:  2 * 1024 * 1024 * 1024,
				MaxRetries:     3,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.Telegram.BotToken = "" },
			wantErr: "BOT_TOKEN is required",
		},
		{
			name:    "non-positive limit",
			mutate:  func(c *Config) { c.Upload.SmallFileLimit = 0 },
			wantErr: "upload size limits must be positive",
		},
		{
			name:    "small limit above hard limit",
			mutate:  func(c *Config) { c.Upload.SmallFileLimit = c.Upload.HardSizeLimit + 1 },
			wantErr: "SMALL_FILE_LIMIT cannot exceed HARD_SIZE_LIMIT",
		},
		{
			name:    "zero retries",
			mutate:  func(c *Config) { c.Upload.MaxRetries = 0 },
			wantErr: "UPLOAD_MAX_RETRIES must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}
