package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds client preferences
type Config struct {
	ServerURL   string `yaml:"server_url" json:"server_url"`     // Remote document server
	ServerToken string `yaml:"server_token" json:"server_token"` // Bearer token for the document server
	DataDir     string `yaml:"data_dir" json:"data_dir"`         // Where the local snapshot lives

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	dataDir := ""
	logPath := ""
	if home != "" {
		dataDir = filepath.Join(home, ".controlcentre")
		logPath = filepath.Join(dataDir, "logs", "controlcentre.log")
	}

	return &Config{
		ServerURL:   getEnv("CONTROLCENTRE_SERVER_URL", "http://localhost:8080"),
		ServerToken: getEnv("CONTROLCENTRE_SERVER_TOKEN", ""),
		DataDir:     getEnv("CONTROLCENTRE_DATA_DIR", dataDir),
		LogLevel:    getEnv("CONTROLCENTRE_LOG_LEVEL", "INFO"),
		LogFile:     getEnv("CONTROLCENTRE_LOG_FILE", logPath),
		LogConsole:  getEnv("CONTROLCENTRE_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Path returns the config file location (~/.controlcentre/config.yaml).
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".controlcentre", "config.yaml"), nil
}

// Load loads config from ~/.controlcentre/config.yaml
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Return defaults if no config
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.controlcentre/config.yaml
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
