package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries every external setting the pipeline needs. Values load in
// layers: optional YAML file first, then environment variables on top, with
// a .env file feeding the environment when present.
type Config struct {
	// GoogleAPIKey credential for the Gemini API
	GoogleAPIKey string `yaml:"google_api_key"`
	// USDAAPIKey credential for the FoodData Central API
	USDAAPIKey string `yaml:"usda_api_key"`
	// GeminiModel model name, empty means the built-in default
	GeminiModel string `yaml:"gemini_model"`
	// USDABaseURL override for the FoodData Central endpoint, empty means the
	// public API
	USDABaseURL string `yaml:"usda_base_url"`
	// LogMode "dev" for console output, anything else for production JSON
	LogMode string `yaml:"log_mode"`
}

// Load builds the configuration. The .env file and the YAML file are both
// optional; a missing path argument skips the YAML layer entirely.
func Load(path string) (*Config, error) {
	// best effort, absence of a .env file is the common case
	godotenv.Load()

	cfg := new(Config)
	if path != "" {
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(bs, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	overrideFromEnv(cfg)
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("GOOGLE_GENERATIVE_AI_API_KEY"); v != "" {
		cfg.GoogleAPIKey = v
	}
	if v := os.Getenv("USDA_API_KEY"); v != "" {
		cfg.USDAAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("USDA_API_BASE_URL"); v != "" {
		cfg.USDABaseURL = v
	}
	if v := os.Getenv("PLATELENS_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
}
