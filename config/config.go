package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CINESTREAM_SERVER_ADDR.
const EnvPrefix = "CINESTREAM"

// Load loads the configuration from file, .env and the environment. A config
// file that is not found is only an error when configPath names it.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	// Set default values
	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cinestream"))
		}

		v.AddConfigPath("/etc/cinestream/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.language", "en-US")
	v.SetDefault("tmdb.timeout", "10s")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.max_age", "168h")
	v.SetDefault("session.secure", false)

	v.SetDefault("client.server_url", "http://localhost:3000")
	if home, err := os.UserHomeDir(); err == nil {
		v.SetDefault("client.state_dir", filepath.Join(home, ".cinestream"))
	} else {
		v.SetDefault("client.state_dir", "")
	}
	v.SetDefault("client.timeout", "30s")
	v.SetDefault("client.cache.max_idle", 256)
	v.SetDefault("client.cache.fetch_timeout", "20s")
	v.SetDefault("client.cache.retry_on_error", false)
	v.SetDefault("client.cache.error_retry_count", 3)
	v.SetDefault("client.cache.error_retry_interval", "5s")
	v.SetDefault("client.cache.revalidate_on_focus", false)

	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("radarr.api_key", "")
	v.SetDefault("radarr.quality_profile_id", 1)
	v.SetDefault("radarr.root_folder", "")
	v.SetDefault("radarr.monitored", true)
	v.SetDefault("radarr.search", false)
	v.SetDefault("radarr.concurrency", 4)

	v.SetDefault("filter.cache_size", 64)

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// bindEnv maps CINESTREAM_<SECTION>_<KEY> onto every key, plus the bare
// variable names used by hosting platforms.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("tmdb.api_key", EnvPrefix+"_TMDB_API_KEY", "TMDB_API_KEY")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("session.secret", EnvPrefix+"_SESSION_SECRET", "SESSION_SECRET")
	_ = v.BindEnv("sentry.dsn", EnvPrefix+"_SENTRY_DSN", "SENTRY_DSN")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	if err := validateURL("client.server_url", cfg.Client.ServerURL); err != nil {
		return err
	}
	if err := validateURL("tmdb.base_url", cfg.TMDB.BaseURL); err != nil {
		return err
	}

	if cfg.Client.Cache.MaxIdle < 0 {
		return fmt.Errorf("client.cache.max_idle must not be negative")
	}
	if cfg.Client.Cache.RetryOnError && cfg.Client.Cache.ErrorRetryCount <= 0 {
		return fmt.Errorf("client.cache.error_retry_count must be positive when retry_on_error is set")
	}

	if cfg.Session.Secret != "" && len(cfg.Session.Secret) < 16 {
		return fmt.Errorf("session.secret must be at least 16 characters")
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q is empty", name)
		}
	}

	return nil
}

// ValidateServer checks the settings `cinestream serve` cannot start without
func (c *Config) ValidateServer() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url (or DATABASE_URL) is required to serve")
	}
	return nil
}

// ValidateRadarr checks the settings an export needs
func (c *Config) ValidateRadarr() error {
	if err := validateURL("radarr.url", c.Radarr.URL); err != nil {
		return err
	}
	if c.Radarr.APIKey == "" || c.Radarr.APIKey == "your-api-key-here" {
		return fmt.Errorf("radarr.api_key must be set to a valid API key")
	}
	return nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL: %q", name, raw)
	}
	return nil
}
