// ABOUTME: Centralized configuration for the Pacify & Defy dialogue engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Mode names. Pacify is the guarded default, Defy is unfiltered.
const (
	ModePacify = "pacify"
	ModeDefy   = "defy"
)

// Default persona per mode.
const (
	DefaultPacifyPersona = "pacificia"
	DefaultDefyPersona   = "void"
)

// Groq endpoint. The chat completion API is OpenAI-compatible.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// KeyPrefix is the expected prefix of a Groq API key.
const KeyPrefix = "gsk_"

// Config holds all configuration for the dialogue engine
type Config struct {
	// API settings
	APIKeys     []string
	PacifyModel string
	DefyModel   string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration

	// Rate limiting (per key, rolling window)
	RateLimitPerWindow int
	RateWindow         time.Duration

	// Memory settings
	DataDir          string
	RetentionDays    int
	EmotionalWindow  time.Duration
	DefaultContext   int
	MinContext       int
	MaxContext       int
	LearnedThreshold float64

	// Debug
	DebugMode bool

	// Personas
	PersonasDir string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		APIKeys:            loadKeys(),
		PacifyModel:        getEnv("PACIFY_MODEL", "llama-3.3-70b-versatile"),
		DefyModel:          getEnv("DEFY_MODEL", "llama-3.3-70b-versatile"),
		Timeout:            getEnvDuration("GROQ_TIMEOUT", 30*time.Second),
		MaxRetries:         getEnvInt("GROQ_MAX_RETRIES", 2),
		RetryDelay:         getEnvDuration("GROQ_RETRY_DELAY", 2*time.Second),
		RateLimitPerWindow: getEnvInt("GROQ_RATE_LIMIT", 30),
		RateWindow:         time.Minute,
		DataDir:            getEnv("PACIFY_DATA_DIR", DefaultDataDir()),
		RetentionDays:      getEnvInt("MEMORY_RETENTION_DAYS", 30),
		EmotionalWindow:    getEnvDuration("EMOTIONAL_WINDOW", 24*time.Hour),
		DefaultContext:     5,
		MinContext:         1,
		MaxContext:         10,
		LearnedThreshold:   getEnvFloat("LEARNED_PREF_THRESHOLD", 0.7),
		DebugMode:          getEnvBool("DEBUG_MODE", false),
		PersonasDir:        getEnv("PERSONAS_DIR", "personas"),
	}

	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if len(c.APIKeys) == 0 {
		return fmt.Errorf("GROQ_API_KEY not set; add it to your environment or .env file (format: %syour_key_here)", KeyPrefix)
	}
	for _, key := range c.APIKeys {
		if !strings.HasPrefix(key, KeyPrefix) {
			return fmt.Errorf("API key %s... does not start with %q; may be invalid", safePrefix(key), KeyPrefix)
		}
	}
	if c.RateLimitPerWindow <= 0 {
		return fmt.Errorf("GROQ_RATE_LIMIT must be positive, got %d", c.RateLimitPerWindow)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("GROQ_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.LearnedThreshold < 0 || c.LearnedThreshold > 1 {
		return fmt.Errorf("LEARNED_PREF_THRESHOLD must be 0-1, got %f", c.LearnedThreshold)
	}
	return nil
}

// DBPath returns the SQLite database file path
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "pacificia.db")
}

// ExportsDir returns the directory for export files
func (c *Config) ExportsDir() string {
	return filepath.Join(c.DataDir, "exports")
}

// DefaultDataDir returns the default data directory following the XDG spec.
// Respects an XDG_DATA_HOME override for testing.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "pacify-defy")
}

// loadKeys collects the primary key plus any numbered pool keys
// (GROQ_API_KEY_2, GROQ_API_KEY_3, ...).
func loadKeys() []string {
	var keys []string
	if k := strings.TrimSpace(os.Getenv("GROQ_API_KEY")); k != "" {
		keys = append(keys, k)
	}
	for i := 2; ; i++ {
		k := strings.TrimSpace(os.Getenv(fmt.Sprintf("GROQ_API_KEY_%d", i)))
		if k == "" {
			break
		}
		keys = append(keys, k)
	}
	return keys
}

func safePrefix(key string) string {
	if len(key) < 6 {
		return key
	}
	return key[:6]
}

// Helper functions

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
