package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.MaxScriptChars != 8000 || cfg.MaxLineChars != 2400 {
		t.Errorf("unexpected script budgets: %d/%d", cfg.MaxScriptChars, cfg.MaxLineChars)
	}
	if cfg.TTSAttempts < 1 {
		t.Errorf("TTSAttempts = %d, want >= 1", cfg.TTSAttempts)
	}
	if cfg.VoiceHost == cfg.VoiceGuest {
		t.Errorf("host and guest share a voice: %s", cfg.VoiceHost)
	}
	if cfg.OutputDir == "" {
		t.Error("OutputDir is empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gk")
	t.Setenv("APIFY_API_TOKEN", "at")
	t.Setenv("ECHOCAST_TTS_ATTEMPTS", "5")
	t.Setenv("ECHOCAST_VOICE_HOST", "en-AU-Standard-B")

	cfg := Load()
	if cfg.GeminiAPIKey != "gk" || cfg.ApifyToken != "at" {
		t.Errorf("credentials not loaded: %+v", cfg)
	}
	if cfg.TTSAttempts != 5 {
		t.Errorf("TTSAttempts = %d, want 5", cfg.TTSAttempts)
	}
	if cfg.VoiceHost != "en-AU-Standard-B" {
		t.Errorf("VoiceHost = %s", cfg.VoiceHost)
	}
	// Untouched settings keep their defaults.
	if cfg.VoiceGuest != Default().VoiceGuest {
		t.Errorf("VoiceGuest changed unexpectedly: %s", cfg.VoiceGuest)
	}
}

func TestLoadIgnoresInvalidInts(t *testing.T) {
	t.Setenv("ECHOCAST_TTS_ATTEMPTS", "not-a-number")
	t.Setenv("ECHOCAST_CRAWL_CONCURRENCY", "-2")

	cfg := Load()
	if cfg.TTSAttempts != Default().TTSAttempts {
		t.Errorf("TTSAttempts = %d, want default", cfg.TTSAttempts)
	}
	if cfg.CrawlConcurrency != Default().CrawlConcurrency {
		t.Errorf("CrawlConcurrency = %d, want default", cfg.CrawlConcurrency)
	}
}
