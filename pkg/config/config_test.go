package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), reloaded)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[engine]
sort_tiles = false
deadline_ms = 250

[dict]
data_dir = "/srv/words"

[[dict.tiers]]
name = "len4"
file = "four.txt"
length = 4
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Engine.SortTiles)
	assert.True(t, cfg.Engine.StripWhitespace)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.Deadline())
	assert.Equal(t, "/srv/words", cfg.Dict.DataDir)
	assert.Equal(t, []TierConfig{{Name: "len4", File: "four.txt", Length: 4}}, cfg.Dict.Tiers)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}

func TestLoadConfigWithoutTiersKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[cli]\ncolor = false\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.CLI.Color)
	assert.Equal(t, DefaultConfig().Dict.Tiers, cfg.Dict.Tiers)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// max_tiles has the wrong type, the rest should survive
	path := writeConfig(t, `
[engine]
max_tiles = "lots"
sort_tiles = false

[[dict.tiers]]
name = "len3"
file = "three.txt"
length = 3

[[dict.tiers]]
file = "nameless.txt"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Engine.MaxTiles, cfg.Engine.MaxTiles)
	assert.False(t, cfg.Engine.SortTiles)
	assert.Equal(t, []TierConfig{{Name: "len3", File: "three.txt", Length: 3}}, cfg.Dict.Tiers)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := writeConfig(t, "this is = = not toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[server]\nmax_words_limit = 5\n")

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 5, cfg.Server.MaxWordsLimit)
}

func TestDeadlineDisabled(t *testing.T) {
	assert.Zero(t, EngineConfig{DeadlineMS: 0}.Deadline())
	assert.Zero(t, EngineConfig{DeadlineMS: -3}.Deadline())
}
