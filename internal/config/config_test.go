package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 120*time.Minute {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if cfg.Groq.StageModel != "llama-3.1-8b-instant" {
		t.Errorf("StageModel = %q", cfg.Groq.StageModel)
	}
	if cfg.Groq.ResponseModel != "llama-3.3-70b-versatile" {
		t.Errorf("ResponseModel = %q", cfg.Groq.ResponseModel)
	}
	if cfg.Groq.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("BaseURL = %q", cfg.Groq.BaseURL)
	}
	if cfg.PistonAPIURL != "https://emkc.org/api/v2/piston" {
		t.Errorf("PistonAPIURL = %q", cfg.PistonAPIURL)
	}
	if !cfg.TranscriptLog.Enabled || cfg.TranscriptLog.QueueSize != 1000 {
		t.Errorf("TranscriptLog = %+v", cfg.TranscriptLog)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GROQ_API_KEY is empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("GROQ_STAGE_MODEL", "fast-model")
	t.Setenv("TRANSCRIPT_LOG_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.Groq.StageModel != "fast-model" {
		t.Errorf("StageModel = %q", cfg.Groq.StageModel)
	}
	if cfg.TranscriptLog.Enabled {
		t.Error("TranscriptLog.Enabled should be false")
	}
}

func TestLoadInvalidTTLFallsBack(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("SESSION_TTL_MINUTES", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SessionTTL != 120*time.Minute {
		t.Errorf("SessionTTL = %v, want fallback 2h", cfg.SessionTTL)
	}
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"", true},
		{"http://localhost:5173", true},
		{"http://127.0.0.1:5173", true},
		{"https://interview.example.com", false},
	}

	for _, tt := range tests {
		cfg := &Config{FrontendURL: tt.url}
		if got := cfg.IsDevelopment(); got != tt.want {
			t.Errorf("IsDevelopment(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
