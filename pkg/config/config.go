package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every knob the three services read. Defaults match a
// local docker-compose stack so the services start with no env at all.
type Config struct {
	ScyllaHosts    []string
	ScyllaKeyspace string

	RedisAddr string

	KafkaBrokers []string
	KafkaTopic   string

	ChatAddr string
	APIAddr  string

	JWTSecret     string
	AdminUsername string
	// AdminPasswordHash is a bcrypt hash. When unset, the API service
	// hashes AdminPassword at startup instead.
	AdminPasswordHash string
	AdminPassword     string

	ZeptoToken    string
	ZeptoEndpoint string
	EmailFrom     string
	TrackingBase  string

	GeocoderBaseURL   string
	GeocoderUserAgent string

	AllowedOrigins []string
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ScyllaHosts:    splitList(getenv("SCYLLA_HOSTS", "localhost:9042")),
		ScyllaKeyspace: getenv("SCYLLA_KEYSPACE", "fastlogix"),

		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),

		KafkaBrokers: splitList(getenv("KAFKA_BROKERS", "localhost:19092")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "order-events"),

		ChatAddr: getenv("CHAT_ADDR", ":8080"),
		APIAddr:  getenv("API_ADDR", ":8081"),

		JWTSecret:         getenv("JWT_SECRET", "mysecretkey"),
		AdminUsername:     getenv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminPassword:     getenv("ADMIN_PASSWORD", "password123"),

		ZeptoToken:    os.Getenv("ZEPTO_TOKEN"),
		ZeptoEndpoint: getenv("ZEPTO_ENDPOINT", "https://api.zeptomail.com/v1.1/email"),
		EmailFrom:     getenv("EMAIL_FROM", "FastLogix <noreply@fastlogix.org>"),
		TrackingBase:  getenv("TRACKING_BASE_URL", "https://www.fastlogix.org/track"),

		GeocoderBaseURL:   getenv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getenv("GEOCODER_USER_AGENT", "FastLogix/1.0 (support@fastlogix.org)"),

		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS",
			"https://www.fastlogix.org,http://localhost:3000")),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
