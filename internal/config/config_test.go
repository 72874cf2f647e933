package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Difficulty)
	assert.Nil(t, cfg.Server.URL)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
difficulty = "hard"
source = "generated"
words = 40

[server]
url = "https://race.example.com"
username = "ana"

[room]
difficulty = "medium"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Difficulty)
	assert.Equal(t, "hard", *cfg.Practice.Difficulty)
	assert.Equal(t, "generated", *cfg.Practice.Source)
	assert.Equal(t, 40, *cfg.Practice.Words)
	assert.Nil(t, cfg.Practice.WordList)
	assert.Equal(t, "https://race.example.com", *cfg.Server.URL)
	assert.Equal(t, "ana", *cfg.Server.Username)
	assert.Nil(t, cfg.Server.Token)
	assert.Equal(t, "medium", *cfg.Room.Difficulty)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "practice.lang")
}

func TestDefaultTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(DefaultTemplate()), 0o644))
	_, err := LoadConfig(path)
	assert.NoError(t, err)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, "/cfg/tuirace/config.toml", DefaultConfigPath())
	assert.Equal(t, "/cfg/tuirace/words.txt", DefaultWordListPath())
	assert.Equal(t, "/data/tuirace/tuirace.db", DefaultDBPath())
	assert.Equal(t, "/state/tuirace/debug.log", DefaultLogPath())
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv(EnvServer, "http://env.example")
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvToken, "secret")

	fromFile := "http://file.example"
	cfg := ServerFromEnv(ServerConfig{URL: &fromFile})
	assert.Equal(t, "http://file.example", *cfg.URL)
	assert.Nil(t, cfg.Username)
	assert.Equal(t, "secret", *cfg.Token)
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvUsername+"=dotenv-user\n"), 0o644))
	t.Setenv(EnvUsername, "")
	require.NoError(t, os.Unsetenv(EnvUsername))

	require.NoError(t, LoadDotenv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "dotenv-user", os.Getenv(EnvUsername))
}
