package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Coachbot
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Override OverrideConfig `mapstructure:"override"`
	Sheet    SheetConfig    `mapstructure:"sheet"`
	Trello   TrelloConfig   `mapstructure:"trello"`
	Forward  ForwardConfig  `mapstructure:"forward"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	BaseURL      string   `mapstructure:"base_url"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LLMConfig holds completion-API configuration
type LLMConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	Temperature  float32       `mapstructure:"temperature"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// OverrideConfig holds the provider-override short circuit: questions
// containing any trigger phrase get Answer back without a model call.
type OverrideConfig struct {
	Answer   string   `mapstructure:"answer"`
	Triggers []string `mapstructure:"triggers"`
}

// SheetConfig holds the spreadsheet logging sink configuration
type SheetConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// TrelloConfig holds the card-board logging sink configuration
type TrelloConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Key     string        `mapstructure:"key"`
	Token   string        `mapstructure:"token"`
	ListID  string        `mapstructure:"list_id"`
	APIBase string        `mapstructure:"api_base"`
	Tags    []string      `mapstructure:"tags"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ForwardConfig holds the automation-webhook configuration, used both
// by the fan-out sink and by the inbound /coach/qa relay.
type ForwardConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Secret     string        `mapstructure:"secret"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("COACHBOT")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.system_prompt", defaultSystemPrompt)
	v.SetDefault("llm.timeout", 30*time.Second)

	v.SetDefault("override.answer", defaultOverrideAnswer)
	v.SetDefault("override.triggers", defaultOverrideTriggers)

	v.SetDefault("sheet.webhook_url", "")
	v.SetDefault("sheet.timeout", 15*time.Second)

	v.SetDefault("trello.enabled", true)
	v.SetDefault("trello.key", "")
	v.SetDefault("trello.token", "")
	v.SetDefault("trello.list_id", "")
	v.SetDefault("trello.api_base", "https://api.trello.com")
	v.SetDefault("trello.tags", []string{"Confined Space Coach", "Public Site"})
	v.SetDefault("trello.timeout", 15*time.Second)

	v.SetDefault("forward.webhook_url", "")
	v.SetDefault("forward.secret", "")
	v.SetDefault("forward.timeout", 15*time.Second)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// HasLLMKey reports whether a completion-API credential is configured.
func (c *Config) HasLLMKey() bool {
	return c.LLM.APIKey != ""
}

// SheetEnabled reports whether the spreadsheet sink is configured.
func (c *Config) SheetEnabled() bool {
	return c.Sheet.WebhookURL != ""
}

// TrelloEnabled reports whether the card-board sink is configured.
// The flag alone is not enough: every credential must be present.
func (c *Config) TrelloEnabled() bool {
	return c.Trello.Enabled && c.Trello.Key != "" && c.Trello.Token != "" && c.Trello.ListID != ""
}

// ForwardEnabled reports whether the automation webhook is configured.
func (c *Config) ForwardEnabled() bool {
	return c.Forward.WebhookURL != ""
}
