package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every environment variable the loader
// reads, e.g. CURATOR_SERVER_PORT maps to server.port.
const envPrefix = "CURATOR"

// Load configuration from environment variables and an optional .env
// file in the working directory. Environment variables take precedence
// over .env values. Returns a populated Config struct or an error if
// loading or validation fails.
func Load() (*Config, error) {
	// A missing .env file is not an error; the environment alone may
	// carry everything.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("storage.cards_dir", "data/cards")
	v.SetDefault("storage.scraped_dir", "data/scraped")
	v.SetDefault("anki.url", "http://localhost:8765")
	v.SetDefault("anki.timeout_seconds", 10)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through
	// Unmarshal, so bind each key explicitly.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"storage.cards_dir",
		"storage.scraped_dir",
		"anki.url",
		"anki.timeout_seconds",
		"llm.gemini_api_key",
		"llm.model_name",
		"llm.prompt_template_path",
		"llm.max_retries",
		"llm.retry_delay_seconds",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
