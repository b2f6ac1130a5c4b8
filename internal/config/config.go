package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Anki    AnkiConfig    `mapstructure:"anki" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig locates the on-disk card collections.
type StorageConfig struct {
	// CardsDir is the directory holding reviewable card collection files.
	CardsDir string `mapstructure:"cards_dir" validate:"required"`
	// ScrapedDir holds raw source text dropped off for card generation.
	ScrapedDir string `mapstructure:"scraped_dir"`
}

// AnkiConfig contains settings for reaching the AnkiConnect endpoint.
type AnkiConfig struct {
	URL            string `mapstructure:"url" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// LLMConfig contains all LLM integration related settings. The API key
// may be empty, in which case card generation endpoints are disabled.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	ModelName          string `mapstructure:"model_name" validate:"required"`
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}
