// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Lyrics   LyricsConfig   `toml:"lyrics"`
	Session  SessionConfig  `toml:"session"`
}

// PracticeConfig maps random-word settings.
type PracticeConfig struct {
	Lang     *string  `toml:"lang"`
	Words    *int     `toml:"words"`
	PunctPct *float64 `toml:"punct"`
	PunctSet *string  `toml:"punct-set"`

	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
}

// LyricsConfig maps settings for the lyrics service.
type LyricsConfig struct {
	Model          *string `toml:"model"`
	BaseURL        *string `toml:"base-url"`
	APIKeyEnv      *string `toml:"api-key-env"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// SessionConfig maps typing-session settings.
type SessionConfig struct {
	TickMs *int `toml:"tick-ms"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
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
