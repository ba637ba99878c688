// Package config loads globecover.toml.
//
// Lookup order, first hit wins:
//
//  1. the path given with --config (must exist)
//  2. ./globecover.toml
//  3. $XDG_CONFIG_HOME/globecover/config.toml (~/.config/globecover/config.toml)
//
// Without a file the defaults apply. Command-line flags override file values.
//
//	equatorial_count = 500
//	texture          = "input/texture.png"
//	spots            = "input/special_spots.csv"
//	output_dir       = "output"
//
//	[cache]
//	backend    = "file"   # file, redis or none
//	ttl        = "168h"
//	namespace  = "staging"
//	redis_addr = "localhost:6379"
//	redis_db   = 0
//
//	[server]
//	addr          = ":8080"
//	read_timeout  = "10s"
//	write_timeout = "60s"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/errors"
)

// FileName is the project-local config file name.
const FileName = "globecover.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	EquatorialCount int    `toml:"equatorial_count"`
	Texture         string `toml:"texture"`
	Spots           string `toml:"spots"`
	OutputDir       string `toml:"output_dir"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`

	// Source is the file the config was read from, "" for defaults.
	Source string `toml:"-"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	TTL     Duration `toml:"ttl"`

	// Namespace prefixes every artifact key, e.g. "staging".
	Namespace string `toml:"namespace"`

	// Dir overrides the XDG cache directory for the file backend.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// ServerConfig configures `globecover serve`.
type ServerConfig struct {
	Addr               string   `toml:"addr"`
	ReadTimeout        Duration `toml:"read_timeout"`
	WriteTimeout       Duration `toml:"write_timeout"`
	MaxEquatorialCount int      `toml:"max_equatorial_count"`
}

// Duration decodes Go duration strings such as "90s" or "168h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		EquatorialCount: cover.DefaultEquatorialCount,
		OutputDir:       ".",
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		Server: ServerConfig{
			Addr:               ":8080",
			ReadTimeout:        Duration{10 * time.Second},
			WriteTimeout:       Duration{60 * time.Second},
			MaxEquatorialCount: 2000,
		},
	}
}

// Load resolves and decodes the configuration. An explicit path that does
// not exist is an error; the implicit locations are optional.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return LoadFile(path)
	}
	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return LoadFile(candidate)
		}
	}
	return Default(), nil
}

// LoadFile decodes path over the defaults. Unknown keys are rejected so
// typos do not pass silently.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Source = path
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	if err := errors.ValidateEquatorialCount(c.EquatorialCount); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "equatorial_count")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of: file, redis, none", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.MaxEquatorialCount < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_equatorial_count must not be negative")
	}
	return nil
}

// resolvePaths makes relative file paths relative to the config file.
func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.Texture, &c.Spots, &c.OutputDir, &c.Cache.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func searchPaths() []string {
	paths := []string{FileName}
	if dir := configHome(); dir != "" {
		paths = append(paths, filepath.Join(dir, "globecover", "config.toml"))
	}
	return paths
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
