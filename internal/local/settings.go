package local

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neboloop/mindsort/internal/defaults"
)

// Settings holds machine-local values that can't live in the embedded yaml
type Settings struct {
	AccessSecret string `json:"accessSecret"`
	AccessExpire int64  `json:"accessExpire"`
}

// DefaultSettings returns sensible defaults
func DefaultSettings() Settings {
	return Settings{
		AccessExpire: 2592000, // 30 days
	}
}

func settingsPath() (string, error) {
	dataDir, err := defaults.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "settings.json"), nil
}

// LoadSettings loads local settings, generating a signing secret on first run.
func LoadSettings() (*Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var settings Settings
		if err := json.Unmarshal(data, &settings); err == nil {
			if settings.AccessSecret == "" {
				settings.AccessSecret = generateSecret()
				if err := SaveSettings(&settings); err != nil {
					return nil, err
				}
			}
			return &settings, nil
		}
	}

	settings := DefaultSettings()
	settings.AccessSecret = generateSecret()
	if err := SaveSettings(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings persists settings to disk
func SaveSettings(settings *Settings) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func generateSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("mindsort-%d", os.Getpid())
	}
	return hex.EncodeToString(b)
}
