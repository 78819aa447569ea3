package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string       `toml:"-"`
	Identity IdentityConfig `toml:"identity"`
	Remote   RemoteConfig   `toml:"remote"`
	Queue    QueueConfig    `toml:"queue"`
	Log      LogConfig      `toml:"log"`
	Sync     SyncConfig     `toml:"sync"`
}

// IdentityConfig holds settings from the [identity] section.
type IdentityConfig struct {
	Owner string `toml:"owner,omitempty"` // Owner ID every remote write is scoped to
}

// RemoteConfig holds settings from the [remote] section.
type RemoteConfig struct {
	DSN            string        `toml:"dsn,omitempty"`             // Postgres connection string
	ConnectTimeout time.Duration `toml:"connect_timeout,omitempty"` // Dial and ping timeout
}

// QueueConfig holds settings from the [queue] section.
type QueueConfig struct {
	Backend     string `toml:"backend,omitempty"`      // "file" (default) or "sqlite"
	Dir         string `toml:"dir,omitempty"`          // Directory holding the outbox (default: data dir)
	MaxAttempts int    `toml:"max_attempts,omitempty"` // Dead-letter after this many failures; 0 = never
}

// SyncConfig holds settings from the [sync] section.
type SyncConfig struct {
	Interval  time.Duration `toml:"interval,omitempty"`   // Period of the background sync loop
	BatchSize int           `toml:"batch_size,omitempty"` // Max entries per sync run
}

// LogConfig holds settings from the [log] section.
type LogConfig struct {
	Level      string `toml:"level,omitempty"`       // debug, info, warn, error
	File       string `toml:"file,omitempty"`        // Log file (default: <data dir>/logs/inbox.log)
	MaxSizeMB  int    `toml:"max_size_mb,omitempty"` // Rotate after this size
	MaxBackups int    `toml:"max_backups,omitempty"` // Rotated files to keep
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Queue backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Default configuration values.
const (
	DefaultLogLevel       = "info"
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxBackups  = 3
	DefaultSyncInterval   = 30 * time.Second
	DefaultSyncBatchSize  = 20
	DefaultConnectTimeout = 10 * time.Second
	DefaultQueueBackend   = BackendFile
)

// Directory and file names for inbox.
const (
	AppDirName     = "inbox"       // Directory name under XDG config/data homes
	ConfigFileName = "config.toml" // Config file name
	LogFileName    = "inbox.log"   // Default log file name
)

// Environment variables that override the config file.
const (
	EnvOwner     = "INBOX_OWNER"
	EnvRemoteDSN = "INBOX_REMOTE_DSN"
)

// GlobalConfigDir returns the global config directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// DataDir returns the directory holding the outbox and logs.
// dataHome is typically XDG_DATA_HOME or ~/.local/share (resolved by caller).
func DataDir(dataHome string) string {
	return filepath.Join(dataHome, AppDirName)
}

// DefaultLogPath returns the default log file path inside a data directory.
func DefaultLogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", LogFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			ConnectTimeout: DefaultConnectTimeout,
		},
		Queue: QueueConfig{
			Backend: DefaultQueueBackend,
		},
		Sync: SyncConfig{
			Interval:  DefaultSyncInterval,
			BatchSize: DefaultSyncBatchSize,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// IdentityFromConfig returns the configured identity (zero when unset).
func (c *Config) IdentityFromConfig() Identity {
	return Identity{OwnerID: c.Identity.Owner}
}

// RenderConfigTemplate renders the commented config template for cfg.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
