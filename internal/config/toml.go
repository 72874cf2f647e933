// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Server   ServerConfig   `toml:"server"`
	Room     RoomConfig     `toml:"room"`
}

// PracticeConfig maps solo practice settings.
type PracticeConfig struct {
	Difficulty *string `toml:"difficulty"`
	Source     *string `toml:"source"`
	Words      *int    `toml:"words"`
	WordList   *string `toml:"wordlist"`
}

// ServerConfig maps the remote passage and room server settings.
type ServerConfig struct {
	URL      *string `toml:"url"`
	Username *string `toml:"username"`
	Token    *string `toml:"token"`
}

// RoomConfig maps multiplayer settings.
type RoomConfig struct {
	Difficulty *string `toml:"difficulty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, errors.New("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DefaultTemplate is written by the config command when no file exists.
func DefaultTemplate() string {
	return `# tuirace configuration

[practice]
# difficulty = "easy"       # easy, medium or hard
# source = "local"          # local, remote or generated
# words = 30                # passage length for generated passages
# wordlist = "/path/to/words.txt"

[server]
# url = "https://race.example.com"
# username = "me"
# token = ""

[room]
# difficulty = "medium"
`
}
