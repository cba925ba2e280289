package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user preferences loaded from the config file.
//
// The file lives at $XDG_CONFIG_HOME/grasp/config.toml (falling back to
// ~/.config/grasp/config.toml) and is entirely optional:
//
//	edge_predicate = "rel"
//	strict = true
//
//	[cache]
//	backend = "redis"          # file | redis | none
//	redis_addr = "localhost:6379"
type Config struct {
	EdgePredicate string      `toml:"edge_predicate"`
	Strict        bool        `toml:"strict"`
	Cache         CacheConfig `toml:"cache"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	RedisAddr string `toml:"redis_addr"`
}

// Cache backend names accepted in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// configPath returns the config file location using the XDG convention.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file, returning defaults when it is absent.
// A malformed file is an error; silently ignoring it would make typos
// indistinguishable from defaults.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendFile
	}
	return cfg, nil
}
