package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		Secret   string `yaml:"secret"`
		TokenTTL string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Users struct {
		File string `yaml:"file"`
	} `yaml:"users"`
	Trivia struct {
		Dataset string `yaml:"dataset"`
	} `yaml:"trivia"`
	Round struct {
		ChoiceLimit   string `yaml:"choice_limit"`
		TextMin       string `yaml:"text_min"`
		TextMax       string `yaml:"text_max"`
		PerChar       string `yaml:"per_char"`
		ResultDisplay string `yaml:"result_display"`
		PollInterval  string `yaml:"poll_interval"`
		Retention     string `yaml:"retention"`
		IdleTimeout   string `yaml:"idle_timeout"`
	} `yaml:"round"`
}

// Load reads YAML config from path. A missing file yields the zero config,
// which every consumer treats as defaults. AUTH_SECRET overrides auth.secret.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if secret := os.Getenv("AUTH_SECRET"); secret != "" {
		cfg.Auth.Secret = secret
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
