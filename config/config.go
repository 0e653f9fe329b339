package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the bot
type Config struct {
	Telegram TelegramConfig
	Download DownloadConfig
	Upload   UploadConfig
	Cookies  CookiesConfig
	Logging  LoggingConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// DownloadConfig holds extraction engine configuration
type DownloadConfig struct {
	// YtdlpBin is the yt-dlp executable name or path
	YtdlpBin string
	// TempDir is the root under which the per-instance working directory is created
	TempDir string
	// DurationCeiling rejects media longer than this before any download
	DurationCeiling time.Duration
	// YouTubeTimeout bounds the whole probe+download for YouTube requests
	YouTubeTimeout time.Duration
	// InstagramTimeout bounds the whole probe+download for Instagram requests
	InstagramTimeout time.Duration
}

// UploadConfig holds transfer orchestration configuration
type UploadConfig struct {
	// SmallFileLimit is the inline/typed-media vs document threshold
	SmallFileLimit int64
	// HardSizeLimit is the absolute ceiling above which no upload is attempted
	HardSizeLimit int64
	// InstagramSizeLimit is the flat ceiling for the secondary platform
	InstagramSizeLimit int64
	// MaxRetries caps small-path upload attempts
	MaxRetries int
	// RetryBackoff is the fixed sleep between small-path retries
	RetryBackoff time.Duration
	// RequestTimeout bounds short Telegram API calls (edits, chat actions)
	RequestTimeout time.Duration
	// UploadTimeout bounds a single media upload call
	UploadTimeout time.Duration
}

// CookiesConfig holds credential material for the supported platforms,
// sourced from environment variables and materialized to local files
type CookiesConfig struct {
	Dir              string
	YouTubeContent   string
	InstagramContent string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Download *DownloadConfig
	Upload   *UploadConfig
	Cookies  *CookiesConfig
	Logging  *LoggingConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Download: &cfg.Download,
		Upload:   &cfg.Upload,
		Cookies:  &cfg.Cookies,
		Logging:  &cfg.Logging,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("BOT_TOKEN", ""),
		},
		Download: DownloadConfig{
			YtdlpBin:         getEnv("YTDLP_BIN", "yt-dlp"),
			TempDir:          getEnv("TEMP_DIR", os.TempDir()),
			DurationCeiling:  getEnvDuration("MAX_DURATION", 600*time.Second),
			YouTubeTimeout:   getEnvDuration("YOUTUBE_TIMEOUT", 300*time.Second),
			InstagramTimeout: getEnvDuration("INSTAGRAM_TIMEOUT", 120*time.Second),
		},
		Upload: UploadConfig{
			SmallFileLimit:     getEnvInt64("SMALL_FILE_LIMIT", 50*1024*1024),
			HardSizeLimit:      getEnvInt64("HARD_SIZE_LIMIT", 2*1024*1024*1024),
			InstagramSizeLimit: getEnvInt64("INSTAGRAM_SIZE_LIMIT", 50*1024*1024),
			MaxRetries:         getEnvInt("UPLOAD_MAX_RETRIES", 3),
			RetryBackoff:       getEnvDuration("UPLOAD_RETRY_BACKOFF", 2*time.Second),
			RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			UploadTimeout:      getEnvDuration("UPLOAD_TIMEOUT", 300*time.Second),
		},
		Cookies: CookiesConfig{
			Dir:              getEnv("COOKIES_DIR", "."),
			YouTubeContent:   getEnv("YOUTUBE_COOKIES", ""),
			InstagramContent: getEnv("INSTAGRAM_COOKIES", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.Upload.SmallFileLimit <= 0 || c.Upload.HardSizeLimit <= 0 {
		return fmt.Errorf("upload size limits must be positive")
	}

	if c.Upload.SmallFileLimit > c.Upload.HardSizeLimit {
		return fmt.Errorf("SMALL_FILE_LIMIT cannot exceed HARD_SIZE_LIMIT")
	}

	if c.Upload.MaxRetries < 1 {
		return fmt.Errorf("UPLOAD_MAX_RETRIES must be at least 1")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvInt64 gets int64 environment variable with default value
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration gets duration environment variable with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
