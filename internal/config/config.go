// Package config loads service configuration in three layers:
// struct defaults, an optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const configPathEnvVar = "FILMORA_CONFIG"

var defaultConfigPaths = []string{"filmora.yaml", "/etc/filmora/config.yaml"}

type HTTPConfig struct {
	Addr           string   `koanf:"addr"`
	AllowedOrigins []string `koanf:"allowed_origins"`
	RateLimitRPS   float64  `koanf:"rate_limit_rps"`
	RateLimitBurst int      `koanf:"rate_limit_burst"`
}

type OMDbConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

type ImageKitConfig struct {
	PublicKey   string `koanf:"public_key"`
	PrivateKey  string `koanf:"private_key"`
	URLEndpoint string `koanf:"url_endpoint"`
}

type Config struct {
	Environment string         `koanf:"environment"` // development | test | production
	LogLevel    string         `koanf:"log_level"`
	HTTP        HTTPConfig     `koanf:"http"`
	DatabaseURL string         `koanf:"database_url"`
	JWTSecret   string         `koanf:"jwt_secret"`
	OMDb        OMDbConfig     `koanf:"omdb"`
	ImageKit    ImageKitConfig `koanf:"imagekit"`
	NATSURL     string         `koanf:"nats_url"` // empty disables event publishing
}

// Development reports whether the service runs with development diagnostics.
func (c Config) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}

func defaults() Config {
	return Config{
		Environment: "development",
		LogLevel:    "info",
		HTTP: HTTPConfig{
			Addr:           ":4000",
			RateLimitRPS:   25,
			RateLimitBurst: 50,
		},
		OMDb: OMDbConfig{
			BaseURL: "https://www.omdbapi.com",
		},
	}
}

// Load builds the Config from defaults, an optional YAML file and env vars.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// FILMORA_OMDB_API_KEY -> omdb.api_key, FILMORA_DATABASE_URL -> database_url
	if err := k.Load(env.Provider("FILMORA_", ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("database_url is required (FILMORA_DATABASE_URL)")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("jwt_secret is required (FILMORA_JWT_SECRET)")
	}
	if strings.TrimSpace(c.OMDb.APIKey) == "" {
		return errors.New("omdb.api_key is required (FILMORA_OMDB_API_KEY)")
	}
	switch strings.ToLower(c.Environment) {
	case "development", "test", "production":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(configPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform maps FILMORA_SECTION_KEY to section.key. Single-underscore
// keys that match a known top-level field stay flat.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "FILMORA_"))
	for _, section := range []string{"http", "omdb", "imagekit"} {
		if strings.HasPrefix(s, section+"_") {
			return section + "." + strings.TrimPrefix(s, section+"_")
		}
	}
	return s
}
