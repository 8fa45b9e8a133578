package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultScrapeBaseURL = "https://recording.seminoleclerk.org/DuProcessWebInquiry/Home/CriteriaSearch"

type Config struct {
	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	LLMBatchSize    int    `yaml:"llm_batch_size"`
	LLMSampleSize   int    `yaml:"llm_sample_size"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`

	ScrapeBaseURL              string  `yaml:"scrape_base_url"`
	ScrapeDelaySeconds         float64 `yaml:"scrape_delay_seconds"`
	ScrapeMaxAttempts          int     `yaml:"scrape_max_attempts"`
	ScrapeRetryBaseSeconds     float64 `yaml:"scrape_retry_base_seconds"`
	ScrapeRetryMultiplier      float64 `yaml:"scrape_retry_multiplier"`
	ExternalHTTPTimeoutSeconds int     `yaml:"external_http_timeout_seconds"`

	DBPath         string `yaml:"db_path"`
	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`
	Timezone       string `yaml:"timezone"`

	Location *time.Location `yaml:"-"`
}

// Load reads countyscan.yaml (or CONFIG_PATH) if present, applies
// environment overrides, fills defaults, and validates. A missing config
// file is fine; everything has a default or an env var.
func Load() (Config, error) {
	var cfg Config

	configPath := "countyscan.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values.
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	if err := envOverrideInt(&cfg.LLMBatchSize, "LLM_BATCH_SIZE"); err != nil {
		return Config{}, err
	}
	if err := envOverrideInt(&cfg.LLMSampleSize, "LLM_SAMPLE_SIZE"); err != nil {
		return Config{}, err
	}
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.ScrapeBaseURL, "SCRAPE_BASE_URL")
	if err := envOverrideFloat(&cfg.ScrapeDelaySeconds, "SCRAPE_DELAY_SECONDS"); err != nil {
		return Config{}, err
	}
	if err := envOverrideInt(&cfg.ScrapeMaxAttempts, "SCRAPE_MAX_ATTEMPTS"); err != nil {
		return Config{}, err
	}
	if err := envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS"); err != nil {
		return Config{}, err
	}
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.Timezone, "TIMEZONE")

	// Defaults.
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.LLMBatchSize == 0 {
		cfg.LLMBatchSize = 50
	}
	if cfg.LLMSampleSize == 0 {
		cfg.LLMSampleSize = 200
	}
	if cfg.ScrapeBaseURL == "" {
		cfg.ScrapeBaseURL = defaultScrapeBaseURL
	}
	if cfg.ScrapeDelaySeconds == 0 {
		cfg.ScrapeDelaySeconds = 1.0
	}
	if cfg.ScrapeMaxAttempts == 0 {
		cfg.ScrapeMaxAttempts = 3
	}
	if cfg.ScrapeRetryBaseSeconds == 0 {
		cfg.ScrapeRetryBaseSeconds = 2.0
	}
	if cfg.ScrapeRetryMultiplier == 0 {
		cfg.ScrapeRetryMultiplier = 2.0
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./countyscan.db"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// Validate.
	switch cfg.LLMProvider {
	case "anthropic", "openai":
	default:
		return Config{}, fmt.Errorf("llm_provider must be 'anthropic' or 'openai', got '%s'", cfg.LLMProvider)
	}
	if cfg.LLMBatchSize < 1 {
		return Config{}, fmt.Errorf("invalid llm_batch_size '%d': must be >= 1", cfg.LLMBatchSize)
	}
	if cfg.LLMSampleSize < 1 {
		return Config{}, fmt.Errorf("invalid llm_sample_size '%d': must be >= 1", cfg.LLMSampleSize)
	}
	if cfg.ScrapeMaxAttempts < 1 {
		return Config{}, fmt.Errorf("invalid scrape_max_attempts '%d': must be >= 1", cfg.ScrapeMaxAttempts)
	}
	if cfg.ScrapeDelaySeconds < 0 {
		return Config{}, fmt.Errorf("invalid scrape_delay_seconds '%f': must be >= 0", cfg.ScrapeDelaySeconds)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return Config{}, fmt.Errorf("invalid timezone '%s': %w", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

// LLMAPIKey returns the key for the configured provider, empty when unset.
func (c Config) LLMAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.AnthropicAPIKey
}

// SlackConfigured reports whether scheduled-run notifications can be sent.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

func (c Config) ScrapeDelay() time.Duration {
	return time.Duration(c.ScrapeDelaySeconds * float64(time.Second))
}

func (c Config) ScrapeRetryBase() time.Duration {
	return time.Duration(c.ScrapeRetryBaseSeconds * float64(time.Second))
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

func envOverrideFloat(field *float64, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}
