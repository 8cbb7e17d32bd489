package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"PORT", "ERST_PROVIDER", "ERST_MODEL", "MAX_CHARS", "MAX_WORKERS", "TARGET_LANG", "MAX_UPLOAD_BYTES", "JOB_TTL"} {
		t.Setenv(name, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Provider != "Google" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.MaxChars != 8000 {
		t.Errorf("max chars = %d", cfg.MaxChars)
	}
	if cfg.MaxWorkers != 10 {
		t.Errorf("max workers = %d", cfg.MaxWorkers)
	}
	if cfg.TargetLang != "ko" {
		t.Errorf("target lang = %q", cfg.TargetLang)
	}
	if cfg.JobTTL != 24*time.Hour {
		t.Errorf("job ttl = %v", cfg.JobTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ERST_PROVIDER", "OpenRouter")
	t.Setenv("MAX_CHARS", "5000")
	t.Setenv("TARGET_LANG", "en")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider != "OpenRouter" || cfg.MaxChars != 5000 || cfg.TargetLang != "en" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadFloorsNonPositiveTuning(t *testing.T) {
	t.Setenv("MAX_CHARS", "-1")
	t.Setenv("MAX_WORKERS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxChars != 8000 {
		t.Errorf("max chars = %d, want default", cfg.MaxChars)
	}
	if cfg.MaxWorkers != 10 {
		t.Errorf("max workers = %d, want default", cfg.MaxWorkers)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Provider: "Google", TargetLang: "ko"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.TargetLang = "!!invalid!!"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad language tag")
	}

	cfg.TargetLang = "ko"
	cfg.Provider = "Anthropic"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported provider")
	}
}
