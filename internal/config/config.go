package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadFromBytes loads configuration from YAML bytes with environment variable
// expansion, then fills defaults for anything left empty.
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return c, c.Validate()
}

// LoadFile reads and loads a YAML config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

// parseBool parses a string as boolean with a default value.
// Accepts: "true", "1", "yes" as true; empty or other values return default.
func parseBool(s string, defaultVal bool) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return defaultVal
	}
	return s == "true" || s == "1" || s == "yes"
}

type Config struct {
	Name string `yaml:"Name"`
	Host string `yaml:"Host"`
	Port int    `yaml:"Port"`
	App  struct {
		BaseURL        string `yaml:"BaseURL"`
		ProductionMode string `yaml:"ProductionMode"`
	} `yaml:"App"`
	Auth struct {
		AccessSecret string `yaml:"AccessSecret"`
		AccessExpire int64  `yaml:"AccessExpire"`
	} `yaml:"Auth"`
	Database struct {
		Driver     string `yaml:"Driver"` // sqlite or memory
		SQLitePath string `yaml:"SQLitePath"`
	} `yaml:"Database"`
	AI struct {
		Provider              string  `yaml:"Provider"`
		Model                 string  `yaml:"Model"`
		BaseURL               string  `yaml:"BaseURL"`
		APIKey                string  `yaml:"APIKey"`
		ExtractionTemperature float64 `yaml:"ExtractionTemperature"`
		SummaryTemperature    float64 `yaml:"SummaryTemperature"`
		TimeoutSeconds        int     `yaml:"TimeoutSeconds"`
		MaxTokens             int     `yaml:"MaxTokens"`
	} `yaml:"AI"`
	Security struct {
		RateLimitEnabled   string `yaml:"RateLimitEnabled"`
		RateLimitRequests  int    `yaml:"RateLimitRequests"`
		RateLimitInterval  int    `yaml:"RateLimitInterval"`
		RateLimitBurst     int    `yaml:"RateLimitBurst"`
		AllowedOrigins     string `yaml:"AllowedOrigins"`
		MaxRequestBodySize int64  `yaml:"MaxRequestBodySize"`
	} `yaml:"Security"`
	Log struct {
		Level  string `yaml:"Level"`
		Format string `yaml:"Format"` // text or json
	} `yaml:"Log"`
}

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "mindsort"
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 27480
	}
	if c.Auth.AccessExpire == 0 {
		c.Auth.AccessExpire = 2592000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "openai"
	}
	if c.AI.ExtractionTemperature == 0 {
		c.AI.ExtractionTemperature = 0.3
	}
	if c.AI.SummaryTemperature == 0 {
		c.AI.SummaryTemperature = 0.7
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 60
	}
	if c.Security.RateLimitRequests == 0 {
		c.Security.RateLimitRequests = 100
	}
	if c.Security.RateLimitInterval == 0 {
		c.Security.RateLimitInterval = 60
	}
	if c.Security.RateLimitBurst == 0 {
		c.Security.RateLimitBurst = 20
	}
	if c.Security.MaxRequestBodySize == 0 {
		c.Security.MaxRequestBodySize = 1 << 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.AI.TimeoutSeconds < 0 {
		return fmt.Errorf("config: AI timeout must be positive")
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) IsProductionMode() bool {
	return parseBool(c.App.ProductionMode, false)
}

func (c Config) IsRateLimitEnabled() bool {
	return parseBool(c.Security.RateLimitEnabled, true)
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.Auth.AccessExpire) * time.Second
}

func (c Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

func (c Config) RateLimitWindow() time.Duration {
	return time.Duration(c.Security.RateLimitInterval) * time.Second
}

// Origins splits AllowedOrigins on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.Security.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
