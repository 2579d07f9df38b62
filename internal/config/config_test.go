package config_test

import (
	"encoding/base64"
	"strings"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/calcgame/internal/config"
	"github.com/aretw0/calcgame/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(testutils.SetupTestDir(t), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "calcgame.yaml", `
seed: "42"
mods: ./mods
store:
  kind: redis
  ttl: 90m
  redis:
    addr: cache:6379
    db: "2"
http:
  port: 9000
log:
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "./mods", cfg.Mods)
	assert.Equal(t, config.StoreRedis, cfg.Store.Kind)
	assert.Equal(t, 90*time.Minute, cfg.Store.TTL)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "settings.json", `{"store": {"kind": "sqlite", "path": "games.db"}}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.StoreSQLite, cfg.Store.Kind)
	assert.Equal(t, 8080, cfg.HTTP.Port, "defaults survive a partial file")
}

func TestLoad_Missing(t *testing.T) {
	t.Chdir(testutils.SetupTestDir(t))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load("nope.yaml")
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "colour: red\n",
		"unknown store":   "store:\n  kind: tape\n",
		"file needs path": "store:\n  kind: file\n",
		"bad port":        "http:\n  port: 70000\n",
		"bad yaml":        "store: [\n",
		"short key":       "store:\n  encryption:\n    key: c2hvcnQ=\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(write(t, "calcgame.yaml", content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Encryption(t *testing.T) {
	active := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("a", 32)))
	old := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("b", 32)))
	path := write(t, "calcgame.yaml", "store:\n  encryption:\n    key: "+active+"\n    fallback_keys: ["+old+"]\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Store.Encryption.Enabled())

	key, fallback, err := cfg.Store.Encryption.Keys()
	require.NoError(t, err)
	assert.Equal(t, []byte(strings.Repeat("a", 32)), key)
	require.Len(t, fallback, 1)
	assert.Equal(t, []byte(strings.Repeat("b", 32)), fallback[0])
}

func TestLoad_EncryptionKeyFromEnv(t *testing.T) {
	t.Chdir(testutils.SetupTestDir(t))
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	t.Setenv(config.EncryptionKeyEnv, key)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, key, cfg.Store.Encryption.Key)

	t.Setenv(config.EncryptionKeyEnv, "not base64!")
	_, err = config.Load("")
	assert.Error(t, err)
}
