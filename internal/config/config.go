// Package config loads gitclawd settings from a .env file, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Discord   DiscordConfig   `yaml:"discord"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Server    ServerConfig    `yaml:"server"`
}

// GitHubConfig holds GitHub API settings. An empty token means anonymous access.
type GitHubConfig struct {
	Token          string        `yaml:"token"`
	APIURL         string        `yaml:"api_url"`
	GraphQLURL     string        `yaml:"graphql_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SleepLimit     time.Duration `yaml:"secondary_rate_limit_sleep"`
}

// DiscordConfig holds bot settings. An empty guild registers the command globally.
type DiscordConfig struct {
	Token   string `yaml:"token"`
	GuildID string `yaml:"guild_id"`
}

// AnthropicConfig holds narrative settings.
type AnthropicConfig struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
	Attempts  int           `yaml:"attempts"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			RequestTimeout: 30 * time.Second,
			SleepLimit:     time.Minute,
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-sonnet-4-5",
			MaxTokens: 150,
			Timeout:   30 * time.Second,
			Attempts:  1,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LoadEnv loads variables from envFile into the process environment without
// overriding ones already set. An empty envFile tries ".env" and ignores a
// missing file.
func LoadEnv(envFile string) error {
	if envFile == "" {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("loading env file %s: %w", envFile, err)
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Substitute environment variables
		data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
			varName := envVarPattern.FindSubmatch(match)[1]
			return []byte(os.Getenv(string(varName)))
		})

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	override(&cfg.GitHub.Token, "GITHUB_TOKEN")
	override(&cfg.Discord.Token, "DISCORD_BOT_TOKEN")
	override(&cfg.Discord.GuildID, "DISCORD_GUILD_ID")
	override(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	override(&cfg.Anthropic.Model, "ANTHROPIC_MODEL")
	override(&cfg.Server.Addr, "GITCLAWD_ADDR")
}

func override(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}

// ValidateBot checks the settings the Discord bot cannot run without.
func (c *Config) ValidateBot() error {
	if c.Discord.Token == "" {
		return errors.New("DISCORD_BOT_TOKEN is required")
	}
	return nil
}
