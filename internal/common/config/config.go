// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Twilio  TwilioConfig  `mapstructure:"twilio"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Chroma  ChromaConfig  `mapstructure:"chroma"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// IsProduction reports whether the service runs with production settings.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // seconds
	MaxRetries  int     `mapstructure:"max_retries"`
}

// TimeoutDuration returns the model call timeout as a duration.
func (o OpenAIConfig) TimeoutDuration() time.Duration {
	return time.Duration(o.Timeout) * time.Second
}

type TwilioConfig struct {
	AccountSID  string `mapstructure:"account_sid"`
	AuthToken   string `mapstructure:"auth_token"`
	PhoneNumber string `mapstructure:"phone_number"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ChromaConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
	Timeout    int    `mapstructure:"timeout"` // seconds
}

// URL returns the base URL of the Chroma server.
func (c ChromaConfig) URL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// TimeoutDuration returns the per-query timeout as a duration.
func (c ChromaConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// AgentConfig holds the conversation pipeline settings.
type AgentConfig struct {
	MaxConversationTurns int     `mapstructure:"max_conversation_turns"`
	MaxToolRounds        int     `mapstructure:"max_tool_rounds"`
	ResponseMaxLength    int     `mapstructure:"response_max_length"`
	HistoryTTLHours      int     `mapstructure:"history_ttl_hours"`
	AnnualInterestRate   float64 `mapstructure:"annual_interest_rate"`
}

// HistoryTTL returns the conversation time-to-live as a duration.
func (a AgentConfig) HistoryTTL() time.Duration {
	return time.Duration(a.HistoryTTLHours) * time.Hour
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
