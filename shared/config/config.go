package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Server   ServerConfig
	Mail     MailConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// MailConfig holds ZeptoMail provider configuration
type MailConfig struct {
	APIKey        string
	BaseURL       string
	TemplateKey   string
	FromAddress   string
	RecipientsCSV string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables take precedence either way
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}

	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		Server: ServerConfig{
			Port: os.Getenv("SERVER_PORT"),
		},
		Mail: MailConfig{
			APIKey:        os.Getenv("ZEPTO_API_KEY"),
			BaseURL:       os.Getenv("ZEPTO_BASE_URL"),
			TemplateKey:   os.Getenv("ZEPTO_TEMPLATE_KEY"),
			FromAddress:   os.Getenv("MAIL_FROM_ADDRESS"),
			RecipientsCSV: os.Getenv("RECIPIENTS_CSV"),
		},
	}

	// Validate required fields
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validateConfig validates that required configuration fields are present
func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if config.Server.Port == "" {
		config.Server.Port = "8080" // Default port
	}

	if config.Mail.BaseURL == "" {
		config.Mail.BaseURL = "https://api.zeptomail.com"
	}

	if config.Mail.RecipientsCSV == "" {
		config.Mail.RecipientsCSV = "users.csv"
	}

	return nil
}
