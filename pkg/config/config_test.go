package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/journey/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Layout.CenterX != 400 || cfg.Layout.VerticalSpacing != 150 || cfg.Layout.HorizontalSpacing != 250 {
		t.Errorf("Layout = %+v, want 400/150/250", cfg.Layout)
	}
	if cfg.Repair.DefaultWait != "2 Days" {
		t.Errorf("DefaultWait = %q, want 2 Days", cfg.Repair.DefaultWait)
	}
	if cfg.Repair.PreserveBranches {
		t.Error("PreserveBranches = true, want false")
	}
}

func TestDecode(t *testing.T) {
	src := `
[layout]
vertical_spacing = 200

[repair]
default_wait = "1 Day"
preserve_branches = true

[generator]
model = "local-model"
timeout = "5s"

[store]
backend = "redis"
ttl = "24h"

[store.redis]
addr = "cache:6379"
db = 2
`
	cfg, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if cfg.Layout.VerticalSpacing != 200 {
		t.Errorf("VerticalSpacing = %v, want 200", cfg.Layout.VerticalSpacing)
	}
	if cfg.Layout.HorizontalSpacing != 250 {
		t.Errorf("HorizontalSpacing = %v, want default 250", cfg.Layout.HorizontalSpacing)
	}
	if cfg.Repair.DefaultWait != "1 Day" || !cfg.Repair.PreserveBranches {
		t.Errorf("Repair = %+v", cfg.Repair)
	}
	if cfg.Generator.Model != "local-model" || cfg.Generator.Timeout != 5*time.Second {
		t.Errorf("Generator = %+v", cfg.Generator)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.TTL != 24*time.Hour {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Store.Redis.Addr != "cache:6379" || cfg.Store.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Store.Redis)
	}
	if cfg.Store.Redis.Prefix != "journey:" {
		t.Errorf("Redis.Prefix = %q, want default journey:", cfg.Store.Redis.Prefix)
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("[layout\n"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Decode() error = %v, want INVALID_CONFIG", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"JOURNEY_STORE_BACKEND":      "postgres",
		"JOURNEY_STORE_DSN":          "postgres://localhost/journeys",
		"JOURNEY_REDIS_ADDR":         "redis:6380",
		"JOURNEY_REDIS_DB":           "3",
		"JOURNEY_GENERATOR_ENDPOINT": "http://localhost:11434/v1/chat/completions",
		"JOURNEY_GENERATOR_MODEL":    "llama3",
		"JOURNEY_GENERATOR_API_KEY":  "secret",
		"JOURNEY_SERVER_ADDR":        ":9090",
		"JOURNEY_PRESERVE_BRANCHES":  "true",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Backend", cfg.Store.Backend, "postgres"},
		{"DSN", cfg.Store.DSN, "postgres://localhost/journeys"},
		{"RedisAddr", cfg.Store.Redis.Addr, "redis:6380"},
		{"RedisDB", cfg.Store.Redis.DB, 3},
		{"Endpoint", cfg.Generator.Endpoint, "http://localhost:11434/v1/chat/completions"},
		{"Model", cfg.Generator.Model, "llama3"},
		{"APIKey", cfg.Generator.APIKey, "secret"},
		{"ServerAddr", cfg.Server.Addr, ":9090"},
		{"PreserveBranches", cfg.Repair.PreserveBranches, true},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestApplyEnvIgnoresEmptyAndMalformed(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(func(k string) string {
		if k == "JOURNEY_REDIS_DB" {
			return "not-a-number"
		}
		return ""
	})
	if cfg.Store.Redis.DB != 0 {
		t.Errorf("Redis.DB = %d, want 0", cfg.Store.Redis.DB)
	}
	if cfg.Store.Backend != BackendFile {
		t.Errorf("Backend = %q, want file", cfg.Store.Backend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"UnknownBackend", func(c *Config) { c.Store.Backend = "sqlite" }},
		{"ZeroVertical", func(c *Config) { c.Layout.VerticalSpacing = 0 }},
		{"NegativeHorizontal", func(c *Config) { c.Layout.HorizontalSpacing = -1 }},
		{"FileWithoutDir", func(c *Config) { c.Store.Dir = "" }},
		{"MongoWithoutDSN", func(c *Config) { c.Store.Backend = BackendMongo }},
		{"RedisWithoutAddr", func(c *Config) { c.Store.Backend = BackendRedis; c.Store.Redis.Addr = "" }},
		{"NegativeTTL", func(c *Config) { c.Store.TTL = -time.Second }},
		{"Temperature", func(c *Config) { c.Generator.Temperature = 3 }},
		{"Endpoint", func(c *Config) { c.Generator.Endpoint = "localhost:11434" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if got := errors.GetCode(err); got != errors.ErrCodeInvalidConfig {
				t.Errorf("GetCode() = %v, want %v", got, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("JOURNEY_STORE_BACKEND", "")
	t.Setenv("JOURNEY_SERVER_ADDR", ":7070")

	// No file at the default path: defaults plus environment.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070", cfg.Server.Addr)
	}

	// An explicit missing file is an error.
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing) = nil error, want error")
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store]\nbackend = \"memory\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load(file) error = %v", err)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("Backend = %q, want memory", cfg.Store.Backend)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	_ = os.WriteFile(bad, []byte("[store]\nbackend = \"nope\"\n"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad backend) = nil error, want error")
	}
}

func TestEncodeRedactsKey(t *testing.T) {
	cfg := Default()
	cfg.Generator.APIKey = "sk-live"

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if strings.Contains(buf.String(), "sk-live") {
		t.Error("Encode() leaked the API key")
	}
	if cfg.Generator.APIKey != "sk-live" {
		t.Error("Encode() mutated the config")
	}

	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode(Encode()) error = %v", err)
	}
	if back.Layout != cfg.Layout {
		t.Errorf("Layout round trip = %+v, want %+v", back.Layout, cfg.Layout)
	}
}
