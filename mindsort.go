package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	cli "github.com/neboloop/mindsort/cmd/mindsort"
	"github.com/neboloop/mindsort/internal/config"
	"github.com/neboloop/mindsort/internal/local"
)

//go:embed etc/mindsort.yaml
var embeddedConfig []byte

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Load embedded config (defaults)
	c, err := config.LoadFromBytes(embeddedConfig)
	if err != nil {
		fmt.Printf("Failed to load embedded config: %v\n", err)
		os.Exit(1)
	}

	// Without MINDSORT_ACCESS_SECRET, sign tokens with the machine-local
	// secret (generated on first run)
	if c.Auth.AccessSecret == "" {
		settings, err := local.LoadSettings()
		if err != nil {
			fmt.Printf("Failed to load local settings: %v\n", err)
			os.Exit(1)
		}
		c.Auth.AccessSecret = settings.AccessSecret
		if settings.AccessExpire > 0 {
			c.Auth.AccessExpire = settings.AccessExpire
		}
	}

	// Pass config to CLI and execute
	if err := cli.SetupRootCmd(&c).Execute(); err != nil {
		os.Exit(1)
	}
}
