package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	FirebaseAPIKey  string
	FirebaseDBURL   string
	CredentialsPath string
	SessionSecret   string
	SessionTTL      time.Duration
	RequestTimeout  time.Duration
	Port            string
	LogLevel        string
	Env             string // dev|prod
}

// Load reads configuration from the environment. FIREBASE_API_KEY,
// FIREBASE_DB_URL and SESSION_SECRET are required; everything else has a
// working default.
func Load() (*Config, error) {
	cfg := &Config{
		FirebaseAPIKey:  os.Getenv("FIREBASE_API_KEY"),
		FirebaseDBURL:   os.Getenv("FIREBASE_DB_URL"),
		CredentialsPath: getenv("GOOGLE_APPLICATION_CREDENTIALS", "serviceAccountKey.json"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		Port:            getenv("PORT", "5000"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		Env:             getenv("ENV", "dev"),
	}
	if cfg.FirebaseAPIKey == "" || cfg.FirebaseDBURL == "" {
		return nil, fmt.Errorf("set FIREBASE_API_KEY and FIREBASE_DB_URL in the environment or .env")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("set SESSION_SECRET in the environment or .env")
	}

	ttl, err := parseDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = ttl

	timeout, err := parseDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = timeout

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
