// Package defaults resolves where mindsort keeps its files.
//
// Platform paths:
//
//	macOS:   ~/Library/Application Support/MindSort/
//	Windows: %AppData%\MindSort\
//	Linux:   ~/.config/mindsort/
//
// Override with MINDSORT_DATA_DIR environment variable.
package defaults

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DatabaseFile is the SQLite file name inside <data_dir>/data.
const DatabaseFile = "mindsort.db"

// DataDir returns the platform-appropriate data directory.
// Set MINDSORT_DATA_DIR to override.
func DataDir() (string, error) {
	if dir := os.Getenv("MINDSORT_DATA_DIR"); dir != "" {
		return dir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}

	// Linux: lowercase per XDG convention
	if runtime.GOOS == "linux" {
		return filepath.Join(configDir, "mindsort"), nil
	}
	return filepath.Join(configDir, "MindSort"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// DatabasePath returns <data_dir>/data/mindsort.db, creating the directory.
func DatabasePath() (string, error) {
	dir, err := EnsureDataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return filepath.Join(dbDir, DatabaseFile), nil
}
