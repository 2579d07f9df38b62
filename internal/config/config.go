// Package config reads the optional calcgame.yaml (or .json) settings file.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "calcgame.yaml"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the decoded settings file.
type Config struct {
	Seed  uint64      `mapstructure:"seed"`
	Mods  string      `mapstructure:"mods"`
	Store StoreConfig `mapstructure:"store"`
	HTTP  HTTPConfig  `mapstructure:"http"`
	Log   LogConfig   `mapstructure:"log"`
}

// StoreConfig selects where sessions are persisted.
type StoreConfig struct {
	Kind  string        `mapstructure:"kind"`
	Path  string        `mapstructure:"path"`
	TTL   time.Duration `mapstructure:"ttl"`
	Redis RedisConfig   `mapstructure:"redis"`
	// Encryption seals snapshots at rest when a key is set.
	Encryption EncryptionConfig `mapstructure:"encryption"`
}

// EncryptionConfig holds base64 encoded AES-256 keys.
type EncryptionConfig struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// EncryptionKeyEnv overrides store.encryption.key so keys stay out of files.
const EncryptionKeyEnv = "CALCGAME_ENCRYPTION_KEY"

// Enabled reports whether snapshots must be sealed.
func (e EncryptionConfig) Enabled() bool { return e.Key != "" }

// Keys decodes the active and fallback keys.
func (e EncryptionConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if active, err = decodeKey(e.Key); err != nil {
		return nil, nil, fmt.Errorf("encryption key: %w", err)
	}
	for i, k := range e.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback key %d: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// RedisConfig holds the connection settings of the redis store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Kind:  StoreMemory,
			Redis: RedisConfig{Addr: "localhost:6379"},
		},
		HTTP: HTTPConfig{Port: 8080},
		Log:  LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// path is the default; an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, cfg.applyEnv().Validate()
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	cfg = cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c Config) applyEnv() Config {
	if key := os.Getenv(EncryptionKeyEnv); key != "" {
		c.Store.Encryption.Key = key
	}
	return c
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate checks the values that cannot be decoded wrongly but can still be wrong.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory, StoreRedis:
	case StoreFile, StoreSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store kind %q needs a path", c.Store.Kind)
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if c.Store.Encryption.Enabled() {
		if _, _, err := c.Store.Encryption.Keys(); err != nil {
			return err
		}
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http port %d out of range", c.HTTP.Port)
	}
	return nil
}
