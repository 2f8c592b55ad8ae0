// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like OPENAI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or any parent holding go.mod,
// so the binary and the tests resolve the same file.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "car-sales-assistant"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o"
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = 1000
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = 0.5
	}
	if cfg.OpenAI.Timeout == 0 {
		cfg.OpenAI.Timeout = 30
	}
	if cfg.OpenAI.MaxRetries == 0 {
		cfg.OpenAI.MaxRetries = 2
	}
	if cfg.Twilio.PhoneNumber == "" {
		cfg.Twilio.PhoneNumber = "whatsapp:+14155238886"
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Chroma.Host == "" {
		cfg.Chroma.Host = "localhost"
	}
	if cfg.Chroma.Port == 0 {
		cfg.Chroma.Port = 8001
	}
	if cfg.Chroma.Collection == "" {
		cfg.Chroma.Collection = "company_knowledge"
	}
	if cfg.Chroma.Timeout == 0 {
		cfg.Chroma.Timeout = 30
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "data/catalog.csv"
	}
	if cfg.Agent.MaxConversationTurns == 0 {
		cfg.Agent.MaxConversationTurns = 10
	}
	if cfg.Agent.MaxToolRounds == 0 {
		cfg.Agent.MaxToolRounds = 3
	}
	if cfg.Agent.ResponseMaxLength == 0 {
		cfg.Agent.ResponseMaxLength = 1500
	}
	if cfg.Agent.HistoryTTLHours == 0 {
		cfg.Agent.HistoryTTLHours = 24
	}
	if cfg.Agent.AnnualInterestRate == 0 {
		cfg.Agent.AnnualInterestRate = 0.10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", cfg.Server.Port)
	}
	if cfg.Agent.ResponseMaxLength < 100 {
		return fmt.Errorf("agent response_max_length too small: %d", cfg.Agent.ResponseMaxLength)
	}
	if cfg.Agent.MaxToolRounds < 1 {
		return fmt.Errorf("agent max_tool_rounds must be at least 1")
	}
	if cfg.Agent.AnnualInterestRate <= 0 || cfg.Agent.AnnualInterestRate >= 1 {
		return fmt.Errorf("agent annual_interest_rate out of range: %f", cfg.Agent.AnnualInterestRate)
	}
	return nil
}
