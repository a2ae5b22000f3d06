// Package config loads hexwire settings from a YAML (or JSON) file and
// HEXWIRE_* environment variables on top of built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. HEXWIRE_LOG_LEVEL.
const EnvPrefix = "HEXWIRE_"

// Log store backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full application configuration.
type Config struct {
	// Timeout applies to requests that do not carry their own, e.g. "5s".
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ResolveHostnames bool          `mapstructure:"resolve_hostnames" yaml:"resolve_hostnames"`

	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Crash   CrashConfig   `mapstructure:"crash" yaml:"crash"`
	Presets PresetsConfig `mapstructure:"presets" yaml:"presets"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	MCP     MCPConfig     `mapstructure:"mcp" yaml:"mcp"`
}

type LogConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Dir     string `mapstructure:"dir" yaml:"dir"`
	Backend string `mapstructure:"backend" yaml:"backend"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type CrashConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type PresetsConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type MCPConfig struct {
	// Transport is "stdio" or "sse".
	Transport string `mapstructure:"transport" yaml:"transport"`
	Port      int    `mapstructure:"port" yaml:"port"`
}

// keys lists every settable key, used to map environment variables.
var keys = []string{
	"timeout",
	"resolve_hostnames",
	"log.level",
	"log.dir",
	"log.backend",
	"redis.addr",
	"redis.password",
	"redis.db",
	"redis.prefix",
	"redis.ttl",
	"crash.dir",
	"presets.dir",
	"http.addr",
	"mcp.transport",
	"mcp.port",
}

// Default returns the built-in configuration. Data directories live under the
// user cache directory, falling back to the system temp directory.
func Default() Config {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	base = filepath.Join(base, "hexwire")

	return Config{
		Timeout: 5000 * time.Millisecond,
		Log: LogConfig{
			Level:   "info",
			Dir:     filepath.Join(base, "logs"),
			Backend: BackendFile,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "hexwire:logs:",
		},
		Crash:   CrashConfig{Dir: filepath.Join(base, "crash_logs")},
		Presets: PresetsConfig{Dir: filepath.Join(base, "presets")},
		HTTP:    HTTPConfig{Addr: ":8080"},
		MCP:     MCPConfig{Transport: "stdio", Port: 8081},
	}
}

// Load reads path (if non-empty) and the environment over Default().
// A missing file is an error only when path was given explicitly.
func Load(path string) (*Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (*Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
			}
		} else {
			// Default to YAML
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
			}
		}
	}

	overlayEnv(raw, environ)

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overlayEnv copies HEXWIRE_* variables for known keys into raw.
func overlayEnv(raw map[string]any, environ []string) {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}

	for _, key := range keys {
		name := EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		val, ok := env[name]
		if !ok {
			continue
		}
		section, leaf, nested := strings.Cut(key, ".")
		if !nested {
			raw[key] = val
			continue
		}
		sub, ok := raw[section].(map[string]any)
		if !ok {
			sub = map[string]any{}
			raw[section] = sub
		}
		sub[leaf] = val
	}
}

// Validate checks values that cannot be expressed through types.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid config: timeout must be positive, got %s", c.Timeout)
	}
	switch c.Log.Backend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("invalid config: unknown log backend %q", c.Log.Backend)
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("invalid config: unknown mcp transport %q", c.MCP.Transport)
	}
	return nil
}
