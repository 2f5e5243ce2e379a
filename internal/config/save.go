package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"amznas/internal/fileutil"
)

// maxConfirmAttempts bounds the confirmation loop; persistent garbage input
// cancels the save instead of recursing forever.
const maxConfirmAttempts = 3

// Save serializes cfg to path, replacing any existing file atomically.
func Save(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SaveIfConfirmed persists cfg to path when the confirmation callback
// approves it. confirm is invoked with a prompt and must return the
// operator's raw answer; answers other than yes/no re-prompt up to
// maxConfirmAttempts times before the save is cancelled. Returns whether the
// file was written.
func SaveIfConfirmed(cfg *Config, path, prompt string, confirm func(prompt string) (string, error)) (bool, error) {
	for attempt := 0; attempt < maxConfirmAttempts; attempt++ {
		answer, err := confirm(prompt)
		if err != nil {
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			if err := Save(cfg, path); err != nil {
				return false, err
			}
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
	return false, fmt.Errorf("no valid answer after %d attempts; configuration not saved", maxConfirmAttempts)
}
