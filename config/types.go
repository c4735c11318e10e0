package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	TMDB     TMDBConfig     `mapstructure:"tmdb"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Client   ClientConfig   `mapstructure:"client"`
	Radarr   RadarrConfig   `mapstructure:"radarr"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the HTTP listener settings of `cinestream serve`
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TMDBConfig holds the upstream metadata API settings
type TMDBConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds the PostgreSQL connection
type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// SessionConfig holds the session cookie settings
type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	MaxAge time.Duration `mapstructure:"max_age"`
	Secure bool          `mapstructure:"secure"`
}

// ClientConfig holds the CLI client settings
type ClientConfig struct {
	ServerURL string        `mapstructure:"server_url"`
	StateDir  string        `mapstructure:"state_dir"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Cache     CacheConfig   `mapstructure:"cache"`
}

// CacheConfig tunes the client resource cache
type CacheConfig struct {
	MaxIdle            int           `mapstructure:"max_idle"`
	FetchTimeout       time.Duration `mapstructure:"fetch_timeout"`
	RetryOnError       bool          `mapstructure:"retry_on_error"`
	ErrorRetryCount    int           `mapstructure:"error_retry_count"`
	ErrorRetryInterval time.Duration `mapstructure:"error_retry_interval"`
	RevalidateOnFocus  bool          `mapstructure:"revalidate_on_focus"`
}

// RadarrConfig holds Radarr API connection details and export settings
type RadarrConfig struct {
	URL              string `mapstructure:"url"`
	APIKey           string `mapstructure:"api_key"`
	QualityProfileID int64  `mapstructure:"quality_profile_id"`
	RootFolder       string `mapstructure:"root_folder"`
	Monitored        bool   `mapstructure:"monitored"`
	Search           bool   `mapstructure:"search"`
	Concurrency      int    `mapstructure:"concurrency"`
}

// FilterConfig contains filter presets
type FilterConfig struct {
	Presets   map[string]string `mapstructure:"presets"`
	CacheSize int               `mapstructure:"cache_size"`
}

// SentryConfig enables error reporting when DSN is set
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
