// Package config loads geobuffer settings from a TOML file.
//
// Settings are grouped in four tables:
//
//	[buffer]
//	quadrant_segments = 8
//	end_cap = "round"
//	join = "round"
//	mitre_limit = 5.0
//	single_sided = false
//	precision_scale = 0.0
//
//	[cache]
//	backend = "file"      # none, file, redis or mongo
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
//	[batch]
//	concurrency = 4
//
// Keys left out of a file keep their [Default] values.
package config

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/geobuffer/pkg/buffer"
	"github.com/matzehuels/geobuffer/pkg/errors"
)

// AppName names the per-user config and cache directories.
const AppName = "geobuffer"

// FileName is the name of the config file inside the config directory.
const FileName = "config.toml"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full set of settings.
type Config struct {
	Buffer BufferConfig `toml:"buffer"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Batch  BatchConfig  `toml:"batch"`
}

// BufferConfig holds default buffer parameters.
type BufferConfig struct {
	QuadrantSegments int     `toml:"quadrant_segments"`
	EndCap           string  `toml:"end_cap"`
	Join             string  `toml:"join"`
	MitreLimit       float64 `toml:"mitre_limit"`
	SingleSided      bool    `toml:"single_sided"`
	PrecisionScale   float64 `toml:"precision_scale"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir,omitempty"`
	TTL     Duration `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri,omitempty"`
	MongoDatabase   string `toml:"mongo_database,omitempty"`
	MongoCollection string `toml:"mongo_collection,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// BatchConfig configures batch runs.
type BatchConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Buffer: BufferConfig{
			QuadrantSegments: buffer.DefaultQuadrantSegments,
			EndCap:           buffer.CapRound.String(),
			Join:             buffer.JoinRound.String(),
			MitreLimit:       buffer.DefaultMitreLimit,
		},
		Cache: CacheConfig{
			Backend:         BackendFile,
			TTL:             Duration{24 * time.Hour},
			RedisAddr:       "localhost:6379",
			MongoDatabase:   AppName,
			MongoCollection: "cache",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxBodyBytes: 10 << 20,
		},
		Batch: BatchConfig{
			Concurrency: runtime.NumCPU(),
		},
	}
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return cfg, nil
}

// Resolve returns the config file to load. An explicit path wins; otherwise
// the per-user file is used when it exists, and "" is returned when it does
// not.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	path, err := Path()
	if err != nil {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// Path returns the per-user config file location following the XDG
// convention (~/.config/geobuffer/config.toml).
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.Buffer.Parameters(); err != nil {
		return err
	}
	if err := errors.ValidateScale(c.Buffer.PrecisionScale); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidParameter, "cache.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidParameter, "cache.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidParameter, "unknown cache backend %q (want none, file, redis or mongo)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "cache.ttl must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "server.max_body_bytes must be positive")
	}
	if c.Batch.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidParameter, "batch.concurrency must be at least 1, got %d", c.Batch.Concurrency)
	}
	return nil
}

// Parameters converts the section into buffer parameters.
func (b BufferConfig) Parameters() (buffer.Parameters, error) {
	p := buffer.DefaultParameters()
	p.QuadrantSegments = b.QuadrantSegments
	p.MitreLimit = b.MitreLimit
	p.SingleSided = b.SingleSided
	var err error
	if p.Cap, err = buffer.ParseCap(b.EndCap); err != nil {
		return buffer.Parameters{}, err
	}
	if p.Join, err = buffer.ParseJoin(b.Join); err != nil {
		return buffer.Parameters{}, err
	}
	if err := p.Validate(); err != nil {
		return buffer.Parameters{}, err
	}
	return p, nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
