// Package config loads EchoCast settings from the environment into an
// explicit struct that gets passed to every constructor. There is no
// process-wide mutable state; missing credentials only surface when the
// stage that needs them runs.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// API credentials. Validated lazily by the clients that use them.
	GeminiAPIKey string
	ApifyToken   string

	// Gemini model tiers: flash plans queries, pro writes the report and
	// the script.
	FlashModel string
	ProModel   string

	// Google Cloud TTS voice per speaker role.
	VoiceHost  string
	VoiceGuest string

	// Researcher settings.
	ResultsPerQuery  int
	CrawlConcurrency int
	MaxPageChars     int
	MaxResearchChars int

	// Script budgets, sized for TTS request limits.
	MaxScriptChars int
	MaxLineChars   int

	// Producer settings.
	TTSAttempts    int
	TTSConcurrency int
	OutputDir      string

	// Server settings.
	ListenAddr    string
	AllowOrigin   string
	SessionSecret string
}

// Default returns the built-in settings. Budgets and limits mirror the
// constants the pipeline was tuned with.
func Default() Config {
	return Config{
		FlashModel:       "gemini-3-flash-preview",
		ProModel:         "gemini-3-pro-preview",
		VoiceHost:        "en-GB-Standard-B",
		VoiceGuest:       "en-US-Standard-C",
		ResultsPerQuery:  3,
		CrawlConcurrency: 4,
		MaxPageChars:     15000,
		MaxResearchChars: 120000,
		MaxScriptChars:   8000,
		MaxLineChars:     2400,
		TTSAttempts:      3,
		TTSConcurrency:   2,
		OutputDir:        "output",
		ListenAddr:       ":8000",
		AllowOrigin:      "http://localhost:3000",
		SessionSecret:    "secret",
	}
}

// Load reads .env (if present) and the environment on top of the defaults.
func Load() Config {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg := Default()
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.ApifyToken = os.Getenv("APIFY_API_TOKEN")

	envStr(&cfg.FlashModel, "ECHOCAST_FLASH_MODEL")
	envStr(&cfg.ProModel, "ECHOCAST_PRO_MODEL")
	envStr(&cfg.VoiceHost, "ECHOCAST_VOICE_HOST")
	envStr(&cfg.VoiceGuest, "ECHOCAST_VOICE_GUEST")
	envStr(&cfg.OutputDir, "ECHOCAST_OUTPUT_DIR")
	envStr(&cfg.ListenAddr, "ECHOCAST_LISTEN_ADDR")
	envStr(&cfg.AllowOrigin, "ECHOCAST_ALLOW_ORIGIN")
	envStr(&cfg.SessionSecret, "ECHOCAST_SESSION_SECRET")

	envInt(&cfg.ResultsPerQuery, "ECHOCAST_RESULTS_PER_QUERY")
	envInt(&cfg.CrawlConcurrency, "ECHOCAST_CRAWL_CONCURRENCY")
	envInt(&cfg.MaxPageChars, "ECHOCAST_MAX_PAGE_CHARS")
	envInt(&cfg.MaxResearchChars, "ECHOCAST_MAX_RESEARCH_CHARS")
	envInt(&cfg.MaxScriptChars, "ECHOCAST_MAX_SCRIPT_CHARS")
	envInt(&cfg.MaxLineChars, "ECHOCAST_MAX_LINE_CHARS")
	envInt(&cfg.TTSAttempts, "ECHOCAST_TTS_ATTEMPTS")
	envInt(&cfg.TTSConcurrency, "ECHOCAST_TTS_CONCURRENCY")
	return cfg
}

func envStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
