package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consulted for server settings.
const (
	EnvServer   = "TUIRACE_SERVER"
	EnvUsername = "TUIRACE_USERNAME"
	EnvToken    = "TUIRACE_TOKEN"
)

// LoadDotenv loads variables from the given .env files without overriding the
// process environment. Missing files are skipped.
func LoadDotenv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ServerFromEnv fills unset server settings from the environment.
func ServerFromEnv(cfg ServerConfig) ServerConfig {
	cfg.URL = envFallback(cfg.URL, EnvServer)
	cfg.Username = envFallback(cfg.Username, EnvUsername)
	cfg.Token = envFallback(cfg.Token, EnvToken)
	return cfg
}

func envFallback(current *string, key string) *string {
	if current != nil {
		return current
	}
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return &v
	}
	return nil
}
