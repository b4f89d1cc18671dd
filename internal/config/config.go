package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DevicePort  string
	Environment string

	DatabaseURL     string
	RealtimeChannel string

	RedisURL string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	MinIOEndpoint       string
	MinIOPublicEndpoint string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOBucket         string
	MinIOUseSSL         bool
	MinIOPublicUseSSL   bool

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string
	EmailTimeout time.Duration

	OTPTTL time.Duration

	PushProvider        string
	ExpoPushURL         string
	ExpoAccessToken     string
	ExpoChannelID       string
	VAPIDPublicKey      string
	VAPIDPrivateKey     string
	VAPIDSubscriber     string
	FirebaseCredentials string
	PushTimeout         time.Duration
	PushMaxAttempts     int
	PushBackoff         time.Duration
	PushBackoffCap      time.Duration
	LocalNotifyTimeout  time.Duration
	StoreTimeout        time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DevicePort:  getEnv("DEVICE_PORT", "8081"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RealtimeChannel: getEnv("REALTIME_CHANNEL", "row_changes"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOPublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:         getEnv("MINIO_BUCKET", "msb-avatars"),
		MinIOUseSSL:         getBoolEnv("MINIO_USE_SSL", false),
		MinIOPublicUseSSL:   getBoolEnv("MINIO_PUBLIC_USE_SSL", true),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
		EmailTimeout: getDurationEnv("EMAIL_TIMEOUT", 10*time.Second),

		OTPTTL: getDurationEnv("OTP_TTL", 10*time.Minute),

		PushProvider:        getEnv("PUSH_PROVIDER", "expo"),
		ExpoPushURL:         getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		ExpoAccessToken:     getEnv("EXPO_ACCESS_TOKEN", ""),
		ExpoChannelID:       getEnv("EXPO_CHANNEL_ID", "appointments"),
		VAPIDPublicKey:      getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:     getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubscriber:     getEnv("VAPID_SUBSCRIBER", "mailto:noreply@msb.app"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		PushTimeout:         getDurationEnv("PUSH_TIMEOUT", 10*time.Second),
		PushMaxAttempts:     getIntEnv("PUSH_MAX_ATTEMPTS", 3),
		PushBackoff:         getDurationEnv("PUSH_BACKOFF", 500*time.Millisecond),
		PushBackoffCap:      getDurationEnv("PUSH_BACKOFF_CAP", 5*time.Second),
		LocalNotifyTimeout:  getDurationEnv("LOCAL_NOTIFY_TIMEOUT", 5*time.Second),
		StoreTimeout:        getDurationEnv("STORE_TIMEOUT", 5*time.Second),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
