package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Env                   string
	HTTPAddr              string
	OrdersAPIBaseURL      string
	OrdersAPITokenSecret  string
	OrdersAPITokenSubject string
	DisplayTimezone       string
	RabbitMQURL           string
	CorsAllowedOrigins    []string
	WSHeartbeatInterval   time.Duration
	SessionCookieName     string
	SessionIdleTTL        time.Duration

	ObjectStoreEndpoint        string
	ObjectStoreRegion          string
	ObjectStoreAccessKeyID     string
	ObjectStoreSecretAccessKey string
	ObjectStoreBucket          string
	ObjectStorePublicBaseURL   string
	ObjectStoreStorageClass    string
}

func Load() Config {
	cfg := Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8087"),
		OrdersAPIBaseURL:      strings.TrimRight(getEnv("ORDERS_API_BASE_URL", "http://localhost:3000/api/admin"), "/"),
		OrdersAPITokenSecret:  getEnv("ORDERS_API_TOKEN_SECRET", ""),
		OrdersAPITokenSubject: getEnv("ORDERS_API_TOKEN_SUBJECT", "admin-console"),
		DisplayTimezone:       getEnv("DISPLAY_TIMEZONE", "Asia/Jakarta"),
		RabbitMQURL:           getEnv("RABBITMQ_URL", ""),
		CorsAllowedOrigins:    splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		WSHeartbeatInterval:   getEnvDuration("WS_HEARTBEAT_INTERVAL", 30*time.Second),
		SessionCookieName:     getEnv("SESSION_COOKIE_NAME", "pesanan_session"),
		SessionIdleTTL:        getEnvDuration("SESSION_IDLE_TTL", 8*time.Hour),

		// Object store (Cloudflare R2 / S3-compatible), used for receipt archives
		ObjectStoreEndpoint:        getEnvFirst([]string{"OBJECT_STORE_ENDPOINT", "R2_S3_ENDPOINT"}, ""),
		ObjectStoreRegion:          getEnvFirst([]string{"OBJECT_STORE_REGION", "R2_REGION"}, "auto"),
		ObjectStoreAccessKeyID:     getEnvFirst([]string{"OBJECT_STORE_ACCESS_KEY_ID", "R2_ACCESS_KEY_ID"}, ""),
		ObjectStoreSecretAccessKey: getEnvFirst([]string{"OBJECT_STORE_SECRET_ACCESS_KEY", "R2_SECRET_ACCESS_KEY"}, ""),
		ObjectStoreBucket:          getEnvFirst([]string{"OBJECT_STORE_BUCKET", "R2_BUCKET"}, ""),
		ObjectStorePublicBaseURL:   getEnvFirst([]string{"OBJECT_STORE_PUBLIC_BASE_URL", "R2_PUBLIC_BASE_URL"}, ""),
		ObjectStoreStorageClass:    getEnvFirst([]string{"OBJECT_STORE_STORAGE_CLASS", "R2_STORAGE_CLASS"}, "STANDARD"),
	}

	if cfg.SessionIdleTTL <= 0 {
		cfg.SessionIdleTTL = 8 * time.Hour
	}
	if cfg.WSHeartbeatInterval <= 0 {
		cfg.WSHeartbeatInterval = 30 * time.Second
	}

	// Back-compat: allow R2_ACCOUNT_ID -> endpoint
	if strings.TrimSpace(cfg.ObjectStoreEndpoint) == "" {
		accountID := strings.TrimSpace(os.Getenv("R2_ACCOUNT_ID"))
		if accountID != "" {
			cfg.ObjectStoreEndpoint = "https://" + accountID + ".r2.cloudflarestorage.com"
		}
	}

	return cfg
}

// ObjectStoreEnabled reports whether receipt archiving has enough settings to run.
func (c Config) ObjectStoreEnabled() bool {
	return c.ObjectStoreEndpoint != "" && c.ObjectStoreBucket != "" && c.ObjectStorePublicBaseURL != ""
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvFirst(keys []string, fallback string) string {
	for _, k := range keys {
		value := strings.TrimSpace(os.Getenv(k))
		if value != "" {
			return value
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
