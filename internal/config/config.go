package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the portal the mobile app shipped against.
const DefaultBaseURL = "https://aapsuj.accevate.co/flutter-api/"

// Session store backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendDynamo = "dynamo"
	BackendMemory = "memory"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppEnv   string
	LogLevel string

	PortalBaseURL string
	HTTPTimeout   time.Duration // 0 keeps the transport default
	SplashDelay   time.Duration

	SessionBackend string
	SessionFile    string
	SessionKey     string // optional passphrase sealing the session file
	DeviceID       string

	RedisURL    string
	RedisPrefix string

	AWSRegion           string
	AWSEndpointURL      string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID      string
	AWSSecretKey        string
	DynamoSessionsTable string

	// Development stub (cmd/portalstub).
	StubPort       string
	StubJWTSecret  string
	StubJWTExpiry  time.Duration
	AllowedOrigins []string
	StubSMS        bool // deliver OTPs through SNS
	BannerBucket   string
	BannerKeys     []string
	BannerURLTTL   time.Duration
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "warn")),

		PortalBaseURL: getEnv("PORTAL_BASE_URL", DefaultBaseURL),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 0),
		SplashDelay:   getEnvDuration("SPLASH_DELAY", 2*time.Second),

		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", BackendFile)),
		SessionFile:    getEnv("SESSION_FILE", defaultSessionFile()),
		SessionKey:     os.Getenv("SESSION_KEY"),
		DeviceID:       getEnv("DEVICE_ID", defaultDeviceID()),

		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix: getEnv("REDIS_PREFIX", "feeportal:session"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:      getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:        getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoSessionsTable: getEnv("DYNAMO_TABLE_SESSIONS", "portal_sessions"),

		StubPort:       getEnv("STUB_PORT", "8089"),
		StubJWTSecret:  getEnv("STUB_JWT_SECRET", "dev-secret"),
		StubJWTExpiry:  getEnvDuration("STUB_JWT_EXPIRY", 24*time.Hour),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		StubSMS:        getEnv("STUB_SMS", "false") == "true",
		BannerBucket:   getEnv("BANNER_BUCKET", ""),
		BannerKeys:     splitList(getEnv("BANNER_KEYS", "")),
		BannerURLTTL:   getEnvDuration("BANNER_URL_TTL", 15*time.Minute),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".feeportal", "session.json")
	}
	return filepath.Join(home, ".feeportal", "session.json")
}

func defaultDeviceID() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "default"
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("1500ms") or whole seconds ("2").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n := getEnvInt(key, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
