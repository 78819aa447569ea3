// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/inbox/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files and the environment.
type Loader struct {
	getenv        func(string) string
	overridePath  string // Optional file given with --config
	globalConfDir string // Path to global config directory (e.g., ~/.config/inbox)
}

// NewLoader creates a new Loader. overridePath may be empty.
func NewLoader(overridePath string) *Loader {
	return &Loader{
		overridePath:  overridePath,
		globalConfDir: defaultGlobalConfigDir(),
		getenv:        os.Getenv,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(overridePath, globalConfDir string) *Loader {
	return &Loader{
		overridePath:  overridePath,
		globalConfDir: globalConfDir,
		getenv:        os.Getenv,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultDataDir returns the directory holding the outbox and logs.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DataDir(dataHome)
}

// Load returns the merged configuration.
// Precedence: default <- global <- override file <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var override *domain.Config
	if l.overridePath != "" {
		// An explicitly requested file must exist.
		override, err = loadFile(l.overridePath)
		if err != nil {
			return nil, err
		}
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if override != nil {
		base = mergeConfigs(base, override)
	}

	l.applyEnv(base)
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

func (l *Loader) applyEnv(cfg *domain.Config) {
	if v := l.getenv(domain.EnvOwner); v != "" {
		cfg.Identity.Owner = v
	}
	if v := l.getenv(domain.EnvRemoteDSN); v != "" {
		cfg.Remote.DSN = v
	}
}

// loadFile loads a configuration from a file.
func loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	unknown := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
	}
	invalid := func(section, key string, v any) {
		warnings = append(warnings, fmt.Sprintf("invalid value in [%s]: %s = %v", section, key, v))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}

		switch section {
		case "identity":
			for k, v := range m {
				switch k {
				case "owner":
					if s, ok := v.(string); ok {
						res.Identity.Owner = s
					}
				default:
					unknown(section, k)
				}
			}
		case "remote":
			for k, v := range m {
				switch k {
				case "dsn":
					if s, ok := v.(string); ok {
						res.Remote.DSN = s
					}
				case "connect_timeout":
					if d, ok := toDuration(v); ok {
						res.Remote.ConnectTimeout = d
					} else {
						invalid(section, k, v)
					}
				default:
					unknown(section, k)
				}
			}
		case "queue":
			for k, v := range m {
				switch k {
				case "backend":
					if s, ok := v.(string); ok {
						res.Queue.Backend = s
					}
				case "dir":
					if s, ok := v.(string); ok {
						res.Queue.Dir = s
					}
				case "max_attempts":
					if n, ok := toInt(v); ok && n >= 0 {
						res.Queue.MaxAttempts = n
					} else {
						invalid(section, k, v)
					}
				default:
					unknown(section, k)
				}
			}
		case "sync":
			for k, v := range m {
				switch k {
				case "interval":
					if d, ok := toDuration(v); ok {
						res.Sync.Interval = d
					} else {
						invalid(section, k, v)
					}
				case "batch_size":
					if n, ok := toInt(v); ok && n > 0 {
						res.Sync.BatchSize = n
					} else {
						invalid(section, k, v)
					}
				default:
					unknown(section, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.Log.Level = s
					}
				case "file":
					if s, ok := v.(string); ok {
						res.Log.File = s
					}
				case "max_size_mb":
					if n, ok := toInt(v); ok && n > 0 {
						res.Log.MaxSizeMB = n
					} else {
						invalid(section, k, v)
					}
				case "max_backups":
					if n, ok := toInt(v); ok && n >= 0 {
						res.Log.MaxBackups = n
					} else {
						invalid(section, k, v)
					}
				default:
					unknown(section, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// toDuration accepts Go duration strings ("30s") and TOML integers (seconds).
func toDuration(v any) (time.Duration, bool) {
	switch x := v.(type) {
	case string:
		d, err := time.ParseDuration(x)
		if err != nil || d <= 0 {
			return 0, false
		}
		return d, true
	case int64:
		if x <= 0 {
			return 0, false
		}
		return time.Duration(x) * time.Second, true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	if n, ok := v.(int64); ok {
		return int(n), true
	}
	return 0, false
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)

	if override.Identity.Owner != "" {
		result.Identity.Owner = override.Identity.Owner
	}
	if override.Remote.DSN != "" {
		result.Remote.DSN = override.Remote.DSN
	}
	if override.Remote.ConnectTimeout != 0 {
		result.Remote.ConnectTimeout = override.Remote.ConnectTimeout
	}
	if override.Queue.Backend != "" {
		result.Queue.Backend = override.Queue.Backend
	}
	if override.Queue.Dir != "" {
		result.Queue.Dir = override.Queue.Dir
	}
	if override.Queue.MaxAttempts != 0 {
		result.Queue.MaxAttempts = override.Queue.MaxAttempts
	}
	if override.Sync.Interval != 0 {
		result.Sync.Interval = override.Sync.Interval
	}
	if override.Sync.BatchSize != 0 {
		result.Sync.BatchSize = override.Sync.BatchSize
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		result.Log.File = override.Log.File
	}
	if override.Log.MaxSizeMB != 0 {
		result.Log.MaxSizeMB = override.Log.MaxSizeMB
	}
	if override.Log.MaxBackups != 0 {
		result.Log.MaxBackups = override.Log.MaxBackups
	}

	return &result
}
