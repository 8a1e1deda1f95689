package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Grades struct {
		// TemplatePath points at the downloadable reference sheet.
		TemplatePath string `yaml:"template_path" env:"GRADES_TEMPLATE_PATH"`
		// PreviewRowLimit caps how many rows the upload preview decodes.
		PreviewRowLimit int `yaml:"preview_row_limit" env:"GRADES_PREVIEW_ROW_LIMIT"`
	} `yaml:"grades"`

	Backup struct {
		Enabled   bool   `yaml:"enabled" env:"BACKUP_ENABLED"`
		StorePath string `yaml:"store_path" env:"BACKUP_STORE_PATH"`
		Dir       string `yaml:"dir" env:"BACKUP_DIR"`
	} `yaml:"backup"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The config file is optional; env vars can carry everything.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "outcometrics"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.Grades.TemplatePath = "assets/not_sablonu.xlsx"
	config.Grades.PreviewRowLimit = 200

	config.Backup.Enabled = false
	config.Backup.Dir = "backups"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime format: %w", err)
	}

	if config.Grades.PreviewRowLimit < 0 {
		return fmt.Errorf("preview row limit cannot be negative")
	}

	if config.Backup.Enabled && config.Backup.StorePath == "" {
		return fmt.Errorf("backup store path is required when backups are enabled")
	}

	return nil
}

// GetPostgresConnectionString returns the postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
