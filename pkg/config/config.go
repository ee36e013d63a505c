// Package config loads journey settings from a TOML file and the environment.
//
// Every field has a default, so an absent file is not an error. Values are
// resolved in order: defaults, then the file, then JOURNEY_* environment
// variables.
//
//	[layout]
//	center_x = 400
//	vertical_spacing = 150
//	horizontal_spacing = 250
//
//	[repair]
//	default_wait = "2 Days"
//	preserve_branches = false
//
//	[generator]
//	endpoint = "https://api.openai.com/v1/chat/completions"
//	model = "gpt-4o-mini"
//	timeout = "60s"
//
//	[store]
//	backend = "redis"
//	[store.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/journey/pkg/errors"
	"github.com/matzehuels/journey/pkg/journey"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Backends lists the supported store backends.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo, BackendPostgres}

// Config is the full settings tree.
type Config struct {
	Layout    Layout    `toml:"layout"`
	Repair    Repair    `toml:"repair"`
	Generator Generator `toml:"generator"`
	Store     Store     `toml:"store"`
	Server    Server    `toml:"server"`
}

// Layout holds canvas spacing.
type Layout struct {
	CenterX           float64 `toml:"center_x"`
	VerticalSpacing   float64 `toml:"vertical_spacing"`
	HorizontalSpacing float64 `toml:"horizontal_spacing"`
}

// Repair holds defaults for synthesized nodes and normalization.
type Repair struct {
	DefaultWait      string   `toml:"default_wait"`
	ExitConditions   []string `toml:"exit_conditions"`
	Segments         []string `toml:"segments"`
	PreserveBranches bool     `toml:"preserve_branches"`
}

// Generator configures the text generation endpoint.
type Generator struct {
	Endpoint    string        `toml:"endpoint"`
	Model       string        `toml:"model"`
	APIKey      string        `toml:"api_key"`
	Temperature float64       `toml:"temperature"`
	Timeout     time.Duration `toml:"timeout"`
	CacheTTL    time.Duration `toml:"cache_ttl"`
}

// Store selects and configures the journey store backend.
type Store struct {
	Backend string `toml:"backend"`

	// Dir is the root directory of the file backend.
	Dir string `toml:"dir"`

	// DSN is the connection string for mongo and postgres.
	DSN string `toml:"dsn"`

	// TTL expires stored journeys (redis only). Zero keeps them forever.
	TTL time.Duration `toml:"ttl"`

	Redis    Redis    `toml:"redis"`
	Mongo    Mongo    `toml:"mongo"`
	Postgres Postgres `toml:"postgres"`
}

// Redis configures the redis backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Mongo configures the mongo backend.
type Mongo struct {
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Postgres configures the postgres backend.
type Postgres struct {
	Table string `toml:"table"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: Layout{
			CenterX:           journey.DefaultCenterX,
			VerticalSpacing:   journey.DefaultVerticalSpacing,
			HorizontalSpacing: journey.DefaultHorizontalSpacing,
		},
		Repair: Repair{
			DefaultWait:    "2 Days",
			ExitConditions: []string{"Journey completed"},
			Segments:       []string{"All users"},
		},
		Generator: Generator{
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			Timeout:     60 * time.Second,
			CacheTTL:    7 * 24 * time.Hour,
		},
		Store: Store{
			Backend: BackendFile,
			Dir:     filepath.Join(dataHome(), "journey", "journeys"),
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "journey:",
			},
			Mongo: Mongo{
				Database:   "journey",
				Collection: "journeys",
			},
			Postgres: Postgres{Table: "journeys"},
		},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/journey/config.toml, falling back
// to ~/.config/journey/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "journey", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".journey", "config.toml")
	}
	return filepath.Join(home, ".config", "journey", "config.toml")
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".journey"
	}
	return filepath.Join(home, ".local", "share")
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is only an error when path was
// given explicitly; an empty path tries [DefaultPath].
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) || explicit {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults. It neither applies the
// environment nor validates.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	return cfg, nil
}

// Encode writes cfg as TOML. The API key is redacted.
func (c Config) Encode(w io.Writer) error {
	if c.Generator.APIKey != "" {
		c.Generator.APIKey = "********"
	}
	return toml.NewEncoder(w).Encode(c)
}

// ApplyEnv overrides fields from JOURNEY_* variables read through getenv.
// Unset or empty variables leave fields unchanged.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set("JOURNEY_STORE_BACKEND", &c.Store.Backend)
	set("JOURNEY_STORE_DSN", &c.Store.DSN)
	set("JOURNEY_STORE_DIR", &c.Store.Dir)
	set("JOURNEY_REDIS_ADDR", &c.Store.Redis.Addr)
	set("JOURNEY_REDIS_PASSWORD", &c.Store.Redis.Password)
	set("JOURNEY_GENERATOR_ENDPOINT", &c.Generator.Endpoint)
	set("JOURNEY_GENERATOR_MODEL", &c.Generator.Model)
	set("JOURNEY_GENERATOR_API_KEY", &c.Generator.APIKey)
	set("JOURNEY_SERVER_ADDR", &c.Server.Addr)

	if v := getenv("JOURNEY_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Store.Redis.DB = db
		}
	}
	if v := getenv("JOURNEY_PRESERVE_BRANCHES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Repair.PreserveBranches = b
		}
	}
}

// Validate rejects unknown backends, non-positive spacings, negative
// durations and malformed generator endpoints.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}
	if c.Layout.VerticalSpacing <= 0 {
		return invalid("layout.vertical_spacing must be positive, got %v", c.Layout.VerticalSpacing)
	}
	if c.Layout.HorizontalSpacing <= 0 {
		return invalid("layout.horizontal_spacing must be positive, got %v", c.Layout.HorizontalSpacing)
	}
	if !slices.Contains(Backends, c.Store.Backend) {
		return invalid("store.backend %q is not one of %v", c.Store.Backend, Backends)
	}
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Dir == "" {
			return invalid("store.dir is required for the file backend")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return invalid("store.redis.addr is required for the redis backend")
		}
	case BackendMongo, BackendPostgres:
		if c.Store.DSN == "" {
			return invalid("store.dsn is required for the %s backend", c.Store.Backend)
		}
	}
	if c.Store.TTL < 0 || c.Generator.Timeout < 0 || c.Generator.CacheTTL < 0 {
		return invalid("durations must not be negative")
	}
	if err := errors.ValidateEndpoint(c.Generator.Endpoint); err != nil {
		return err
	}
	if c.Generator.Temperature < 0 || c.Generator.Temperature > 2 {
		return invalid("generator.temperature must be within [0, 2], got %v", c.Generator.Temperature)
	}
	return nil
}

// String summarizes the resolved backend for log lines.
func (s Store) String() string {
	switch s.Backend {
	case BackendFile:
		return fmt.Sprintf("file(%s)", s.Dir)
	case BackendRedis:
		return fmt.Sprintf("redis(%s/%d)", s.Redis.Addr, s.Redis.DB)
	default:
		return s.Backend
	}
}
