package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Session scopes accepted by tracking.session_scope.
const (
	ScopeGlobal = "global"
	ScopeChat   = "chat"
)

// Config holds the application's configuration.
type Config struct {
	Telegram struct {
		Token              string `yaml:"token"`
		PollTimeoutSeconds int    `yaml:"poll_timeout_seconds"`
		Debug              bool   `yaml:"debug"`
	} `yaml:"telegram"`
	Tracking struct {
		SessionScope      string   `yaml:"session_scope"`
		AdWords           []string `yaml:"ad_words"`
		SocialHosts       []string `yaml:"social_hosts"`
		ExcludedUsernames []string `yaml:"excluded_usernames"`
	} `yaml:"tracking"`
	Commands struct {
		GateAdTotal         bool   `yaml:"gate_ad_total"`
		UserlistPageSize    int    `yaml:"userlist_page_size"`
		RulesText           string `yaml:"rules_text"`
		UnauthorizedSticker string `yaml:"unauthorized_sticker"`
	} `yaml:"commands"`
	Database struct {
		Enabled        bool   `yaml:"enabled"`
		Type           string `yaml:"type"` // "sqlite" or "postgres"
		URL            string `yaml:"url"`
		MigrationsPath string `yaml:"migrations_path"`
	} `yaml:"database"`
	Server struct {
		Enabled   bool   `yaml:"enabled"`
		Port      string `yaml:"port"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"server"`
	Logging struct {
		Development bool `yaml:"development"`
	} `yaml:"logging"`
}

// DefaultAdWords is the acknowledgment vocabulary used when none is configured.
var DefaultAdWords = []string{"ad", "all done", "AD", "all dn", "alldone", "done"}

// DefaultSocialHosts are the link hosts an external handle is extracted from.
var DefaultSocialHosts = []string{"twitter.com", "x.com"}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config, err := load(configPath)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadTokenConfig reads the file for the token issuer, which only needs the server section.
func LoadTokenConfig(configPath string) (*Config, error) {
	config, err := load(configPath)
	if err != nil {
		return nil, err
	}

	if err := config.ValidateServer(); err != nil {
		return nil, err
	}

	return config, nil
}

func load(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.Telegram.Token = os.ExpandEnv(config.Telegram.Token)
	config.Database.URL = os.ExpandEnv(config.Database.URL)
	config.Server.JWTSecret = os.ExpandEnv(config.Server.JWTSecret)

	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Telegram.PollTimeoutSeconds == 0 {
		c.Telegram.PollTimeoutSeconds = 60
	}

	if c.Tracking.SessionScope == "" {
		c.Tracking.SessionScope = ScopeGlobal
	}
	if len(c.Tracking.AdWords) == 0 {
		c.Tracking.AdWords = append([]string(nil), DefaultAdWords...)
	}
	if len(c.Tracking.SocialHosts) == 0 {
		c.Tracking.SocialHosts = append([]string(nil), DefaultSocialHosts...)
	}

	if c.Commands.UserlistPageSize == 0 {
		c.Commands.UserlistPageSize = 80
	}

	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.URL == "" && c.Database.Type == "sqlite" {
		c.Database.URL = "./data/restrictions.db"
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}

	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
}

// Validate reports configuration values the bot cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram.token is required")
	}

	switch c.Tracking.SessionScope {
	case ScopeGlobal, ScopeChat:
	default:
		return fmt.Errorf("tracking.session_scope must be %q or %q, got %q", ScopeGlobal, ScopeChat, c.Tracking.SessionScope)
	}

	if c.Commands.UserlistPageSize < 0 {
		return fmt.Errorf("commands.userlist_page_size must be positive")
	}

	if c.Database.Enabled {
		switch c.Database.Type {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("database.type must be sqlite or postgres, got %q", c.Database.Type)
		}
	}

	if c.Server.Enabled && c.Server.JWTSecret == "" {
		return fmt.Errorf("server.jwt_secret is required when server.enabled is true")
	}

	return nil
}

// ValidateServer checks only what signing operator tokens needs.
func (c *Config) ValidateServer() error {
	if strings.TrimSpace(c.Server.JWTSecret) == "" {
		return fmt.Errorf("server.jwt_secret is required")
	}
	return nil
}
