package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const VERSION = "1.2"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Email       EmailConfig
	Provider    ProviderConfig
	Environment string
	LogLevel    string
	Debug       bool
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Prefix   string
	SSLMode  string
}

// EmailConfig controls the document scaffold of generated emails.
type EmailConfig struct {
	Width           int
	MaxWidth        int
	BackgroundColor string
	TextColor       string
	FontFamily      string
	FromEmail       string
	FromName        string
}

// ProviderConfig selects and configures the outbound dispatch channel.
// Kind is one of "none", "smtp" or "mailchimp".
type ProviderConfig struct {
	Kind      string
	SMTP      SMTPConfig
	Mailchimp MailchimpConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

type MailchimpConfig struct {
	APIKey   string
	Endpoint string
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	// Try to load .env file but don't require it
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_PREFIX", "campaignbridge")
	v.SetDefault("DB_NAME", "campaignbridge")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEBUG", false)
	v.SetDefault("VERSION", VERSION)

	// Email scaffold defaults
	v.SetDefault("EMAIL_WIDTH", 600)
	v.SetDefault("EMAIL_MAX_WIDTH", 800)
	v.SetDefault("EMAIL_BACKGROUND_COLOR", "#f4f4f4")
	v.SetDefault("EMAIL_TEXT_COLOR", "#333333")
	v.SetDefault("EMAIL_FONT_FAMILY", "Arial, Helvetica, sans-serif")
	v.SetDefault("EMAIL_FROM_NAME", "CampaignBridge")

	// Provider defaults
	v.SetDefault("PROVIDER_KIND", "none")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USE_TLS", true)
	v.SetDefault("MAILCHIMP_ENDPOINT", "https://mandrillapp.com/api/1.0")

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			Prefix:   v.GetString("DB_PREFIX"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Email: EmailConfig{
			Width:           v.GetInt("EMAIL_WIDTH"),
			MaxWidth:        v.GetInt("EMAIL_MAX_WIDTH"),
			BackgroundColor: v.GetString("EMAIL_BACKGROUND_COLOR"),
			TextColor:       v.GetString("EMAIL_TEXT_COLOR"),
			FontFamily:      v.GetString("EMAIL_FONT_FAMILY"),
			FromEmail:       v.GetString("EMAIL_FROM_EMAIL"),
			FromName:        v.GetString("EMAIL_FROM_NAME"),
		},
		Provider: ProviderConfig{
			Kind: v.GetString("PROVIDER_KIND"),
			SMTP: SMTPConfig{
				Host:     v.GetString("SMTP_HOST"),
				Port:     v.GetInt("SMTP_PORT"),
				Username: v.GetString("SMTP_USERNAME"),
				Password: v.GetString("SMTP_PASSWORD"),
				UseTLS:   v.GetBool("SMTP_USE_TLS"),
			},
			Mailchimp: MailchimpConfig{
				APIKey:   v.GetString("MAILCHIMP_API_KEY"),
				Endpoint: v.GetString("MAILCHIMP_ENDPOINT"),
			},
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Debug:       v.GetBool("DEBUG"),
		Version:     v.GetString("VERSION"),
	}

	switch config.Provider.Kind {
	case "none", "smtp", "mailchimp":
	default:
		return nil, fmt.Errorf("unknown PROVIDER_KIND %q", config.Provider.Kind)
	}
	if config.Provider.Kind == "mailchimp" && config.Provider.Mailchimp.APIKey == "" {
		return nil, fmt.Errorf("MAILCHIMP_API_KEY is required when PROVIDER_KIND=mailchimp")
	}

	return config, nil
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
