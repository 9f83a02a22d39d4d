// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; the database must have PostGIS installed.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// ChannelSecret is the messaging channel secret used to verify webhook signatures.
	ChannelSecret string `mapstructure:"CHANNEL_SECRET"`
	// ChannelAccessToken authenticates reply/push calls to the messaging API.
	ChannelAccessToken string `mapstructure:"CHANNEL_ACCESS_TOKEN"`
	// MessagingAPIBaseURL is the messaging platform API base URL.
	MessagingAPIBaseURL string `mapstructure:"MESSAGING_API_BASE_URL"`
	// NominatimBaseURL is the reverse-geocoding endpoint base URL.
	NominatimBaseURL string `mapstructure:"NOMINATIM_BASE_URL"`
	// NominatimUserAgent is the User-Agent sent to Nominatim (required by its usage policy).
	NominatimUserAgent string `mapstructure:"NOMINATIM_USER_AGENT"`
	// OverpassBaseURL is the Overpass API endpoint for nearby landmark search.
	OverpassBaseURL string `mapstructure:"OVERPASS_BASE_URL"`
	// AppBaseURL is the public base URL used to build report edit and map links.
	AppBaseURL string `mapstructure:"APP_BASE_URL"`
	// ReportTokenSecret signs report edit tokens (HS256). Edit links are omitted when empty.
	ReportTokenSecret string `mapstructure:"REPORT_TOKEN_SECRET"`
	// ReportTokenTTL is the report edit token lifetime (e.g. "720h").
	ReportTokenTTL string `mapstructure:"REPORT_TOKEN_TTL"`
	// OTLPEndpoint enables trace export when set (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export (standard OTEL_EXPORTER_OTLP_INSECURE behavior).
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// Worker-only: interval between expired-session sweeps (e.g. "10m").
	SessionSweepInterval string `mapstructure:"SESSION_SWEEP_INTERVAL"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("CHANNEL_SECRET", "")
	v.SetDefault("CHANNEL_ACCESS_TOKEN", "")
	v.SetDefault("MESSAGING_API_BASE_URL", "https://api.line.me")
	v.SetDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("NOMINATIM_USER_AGENT", "wildlife-report-hub/1.0")
	v.SetDefault("OVERPASS_BASE_URL", "https://overpass-api.de/api/interpreter")
	v.SetDefault("APP_BASE_URL", "")
	v.SetDefault("REPORT_TOKEN_SECRET", "")
	v.SetDefault("REPORT_TOKEN_TTL", "720h") // 30d
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "10m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.Env == "production" && cfg.ChannelSecret == "" {
		return nil, errors.New("config: CHANNEL_SECRET must be set when APP_ENV=production")
	}

	return &cfg, nil
}

// ReportTokenLifetime parses ReportTokenTTL as a time.Duration. Returns 720h if unset or invalid.
func (c *Config) ReportTokenLifetime() time.Duration {
	d, err := time.ParseDuration(c.ReportTokenTTL)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}

// SweepInterval parses SessionSweepInterval as a time.Duration. Returns 10m if unset or invalid.
func (c *Config) SweepInterval() time.Duration {
	d, err := time.ParseDuration(c.SessionSweepInterval)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}
