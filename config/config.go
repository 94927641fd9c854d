// Package config reads the server configuration from SALON_* environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAddr              = "0.0.0.0:8080"
	DefaultDatabasePath      = "file:salon?mode=memory&cache=shared"
	DefaultLang              = "he"
	DefaultCarouselPeriod    = 5 * time.Second
	DefaultContactDelay      = 1500 * time.Millisecond
	DefaultStatusClearAfter  = 3 * time.Second
	DefaultSessionSize       = 4096
	DefaultSessionTTL        = 30 * time.Minute
	DefaultMediaPrefix       = "/images"
	DefaultPresignExpiry     = 15 * time.Minute
	DefaultMirrorInterval    = time.Hour
	DefaultSMTPPort          = 587
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultStaticCacheMaxAge = 24 * time.Hour
)

type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DatabasePath is a sqlite DSN or file path. The default keeps everything in memory.
	DatabasePath string
	// PublicDir holds locally served images under MediaPrefix.
	PublicDir string
	// BaseURL is the canonical site origin used for seo links.
	BaseURL string

	DefaultLang string
	Dev         bool

	LogLevel  slog.Level
	LogFormat string

	CarouselPeriod   time.Duration
	ContactDelay     time.Duration
	StatusClearAfter time.Duration

	SessionSize int
	SessionTTL  time.Duration

	MediaPrefix string

	// S3 media is enabled when S3Bucket is set.
	S3Bucket       string
	AWSProfile     string
	// S3Mirror copies the bucket into PublicDir and serves it locally instead of presigning.
	S3Mirror       bool
	PresignExpiry  time.Duration
	MirrorInterval time.Duration

	// SMTP delivery of contact messages is enabled when SMTPHost is set.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPTo       string

	ShutdownTimeout time.Duration
}

// Load builds a Config from the environment, keeping defaults for unset or unparsable values.
func Load() Config {
	return Config{
		Addr:         envString("SALON_ADDR", DefaultAddr),
		DatabasePath: envString("SALON_DB_PATH", DefaultDatabasePath),
		PublicDir:    envString("SALON_PUBLIC_DIR", "public"),
		BaseURL:      strings.TrimSuffix(envString("SALON_BASE_URL", "https://misparabeta.co.il"), "/"),

		DefaultLang: envString("SALON_DEFAULT_LANG", DefaultLang),
		Dev:         os.Getenv("SALON_DEV") != "",

		LogLevel:  envLevel("SALON_LOG_LEVEL", slog.LevelInfo),
		LogFormat: envString("SALON_LOG_FORMAT", "text"),

		CarouselPeriod:   envDuration("SALON_CAROUSEL_PERIOD", DefaultCarouselPeriod),
		ContactDelay:     envDuration("SALON_CONTACT_DELAY", DefaultContactDelay),
		StatusClearAfter: envDuration("SALON_STATUS_CLEAR_AFTER", DefaultStatusClearAfter),

		SessionSize: envInt("SALON_SESSION_SIZE", DefaultSessionSize),
		SessionTTL:  envDuration("SALON_SESSION_TTL", DefaultSessionTTL),

		MediaPrefix: envString("SALON_MEDIA_PREFIX", DefaultMediaPrefix),

		S3Bucket:       os.Getenv("SALON_S3_BUCKET"),
		AWSProfile:     os.Getenv("SALON_AWS_PROFILE"),
		S3Mirror:       os.Getenv("SALON_S3_MIRROR") != "",
		PresignExpiry:  envDuration("SALON_PRESIGN_EXPIRY", DefaultPresignExpiry),
		MirrorInterval: envDuration("SALON_MIRROR_INTERVAL", DefaultMirrorInterval),

		SMTPHost:     os.Getenv("SALON_SMTP_HOST"),
		SMTPPort:     envInt("SALON_SMTP_PORT", DefaultSMTPPort),
		SMTPUser:     os.Getenv("SALON_SMTP_USER"),
		SMTPPassword: os.Getenv("SALON_SMTP_PASSWORD"),
		SMTPFrom:     envString("SALON_SMTP_FROM", "info@mysalon.co.il"),
		SMTPTo:       envString("SALON_SMTP_TO", "info@mysalon.co.il"),

		ShutdownTimeout: envDuration("SALON_SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		slog.Warn("unable to parse env var, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return v
}

// envDuration accepts Go durations ("5s") or a bare number of seconds.
func envDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("unable to parse env var, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return d
}

func envLevel(key string, def slog.Level) slog.Level {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		slog.Warn("unable to parse log level, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return level
}

// NewLogger builds the process logger from the configured level and format.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
