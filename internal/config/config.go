// Package config loads the chainviz configuration file.
//
// Configuration lives in a TOML file (default: chainviz.toml). Every field
// has a working default so the CLI runs without any file; flags override the
// file where both are given.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mhalbert/chainviz/pkg/cache"
	"github.com/mhalbert/chainviz/pkg/chain/layout"
	"github.com/mhalbert/chainviz/pkg/errors"
	"github.com/mhalbert/chainviz/pkg/source"
)

// Source kinds.
const (
	SourceDir   = "dir"
	SourceMongo = "mongo"
)

// Cache kinds.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the root configuration.
type Config struct {
	Server ServerConfig  `toml:"server"`
	Source SourceConfig  `toml:"source"`
	Layout layout.Config `toml:"layout"`
	Cache  CacheConfig   `toml:"cache"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SourceConfig selects and configures the document source.
type SourceConfig struct {
	// Kind is "dir" or "mongo".
	Kind  string             `toml:"kind"`
	Dir   string             `toml:"dir"`
	Mongo source.MongoConfig `toml:"mongo"`
}

// CacheConfig selects and configures the element cache.
type CacheConfig struct {
	// Kind is "memory" or "redis".
	Kind  string            `toml:"kind"`
	TTL   duration          `toml:"ttl"`
	Redis cache.RedisConfig `toml:"redis"`
}

// duration lets TTLs be written as "5m" in TOML.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// TTLDuration returns the configured cache TTL as a time.Duration.
func (c CacheConfig) TTLDuration() time.Duration { return time.Duration(c.TTL) }

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8490"},
		Source: SourceConfig{Kind: SourceDir, Dir: "data"},
		Layout: layout.DefaultConfig,
		Cache:  CacheConfig{Kind: CacheMemory, TTL: duration(5 * time.Minute)},
	}
}

// Load reads the configuration file at path, applying defaults for missing
// fields. When path is empty or the file does not exist, the defaults are
// returned; any other read or parse failure is an INVALID_CONFIG error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Source.Kind {
	case SourceDir, SourceMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q (must be %q or %q)",
			c.Source.Kind, SourceDir, SourceMongo)
	}
	switch c.Cache.Kind {
	case CacheMemory, CacheRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache kind %q (must be %q or %q)",
			c.Cache.Kind, CacheMemory, CacheRedis)
	}
	return nil
}
