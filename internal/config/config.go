// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	FrontendURL   string
	DBPath        string
	SessionTTL    time.Duration
	Groq          GroqConfig
	ProblemAPIURL string
	PistonAPIURL  string
	TranscriptLog TranscriptLogConfig
}

// GroqConfig holds the model-completion service settings. Two model IDs are
// used: a fast one for stage classification and a larger one for interviewer
// replies and performance evaluation.
type GroqConfig struct {
	APIKey        string
	BaseURL       string
	StageModel    string
	ResponseModel string
}

// TranscriptLogConfig controls NDJSON transcript logging.
type TranscriptLogConfig struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("TRANSCRIPT_LOG_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	ttlMinutes := getEnvInt("SESSION_TTL_MINUTES", 120)
	if ttlMinutes <= 0 {
		ttlMinutes = 120
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/interviews.db"),
		SessionTTL:  time.Duration(ttlMinutes) * time.Minute,
		Groq: GroqConfig{
			APIKey:        getEnv("GROQ_API_KEY", ""),
			BaseURL:       getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			StageModel:    getEnv("GROQ_STAGE_MODEL", "llama-3.1-8b-instant"),
			ResponseModel: getEnv("GROQ_RESPONSE_MODEL", "llama-3.3-70b-versatile"),
		},
		ProblemAPIURL: getEnv("PROBLEM_API_URL", "https://leetcode-api-faisalshohag.vercel.app"),
		PistonAPIURL:  getEnv("PISTON_API_URL", "https://emkc.org/api/v2/piston"),
		TranscriptLog: TranscriptLogConfig{
			Enabled:   getEnvBool("TRANSCRIPT_LOG_ENABLED", true),
			Dir:       getEnv("TRANSCRIPT_LOG_DIR", "./data/logs/transcripts"),
			QueueSize: queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY cannot be empty")
	}
	if c.Groq.BaseURL == "" {
		return fmt.Errorf("GROQ_BASE_URL cannot be empty")
	}
	if c.Groq.StageModel == "" || c.Groq.ResponseModel == "" {
		return fmt.Errorf("GROQ_STAGE_MODEL and GROQ_RESPONSE_MODEL cannot be empty")
	}
	if c.ProblemAPIURL == "" {
		return fmt.Errorf("PROBLEM_API_URL cannot be empty")
	}
	if c.PistonAPIURL == "" {
		return fmt.Errorf("PISTON_API_URL cannot be empty")
	}
	if c.TranscriptLog.Dir == "" {
		return fmt.Errorf("TRANSCRIPT_LOG_DIR cannot be empty")
	}
	if c.TranscriptLog.QueueSize <= 0 {
		return fmt.Errorf("TRANSCRIPT_LOG_QUEUE_SIZE must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
