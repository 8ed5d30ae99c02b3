package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	JWTSecret               string
	JWTTTL                  time.Duration
	FirebaseCredentialsPath string
	PostgresURL             string
	MongoURI                string
	MongoDatabase           string
	RedisAddr               string
	RedisPassword           string
	TrendingCacheTTL        time.Duration
	FanoutBackend           string // "memory" or "kafka"
	FanoutWorkers           int
	FanoutQueueSize         int
	FanoutMaxAttempts       int
	KafkaBrokers            []string
	KafkaFanoutTopic        string
	KafkaGroupID            string
	OTLPEndpoint            string
	ServiceName             string
}

// Load reads .env (if present) and the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTTTL:                  getEnvDuration("JWT_TTL", 72*time.Hour),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresURL:             getEnv("POSTGRES_URL", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "newsfeed"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		TrendingCacheTTL:        getEnvDuration("TRENDING_CACHE_TTL", time.Minute),
		FanoutBackend:           strings.ToLower(getEnv("FANOUT_BACKEND", "memory")),
		FanoutWorkers:           getEnvInt("FANOUT_WORKERS", 4),
		FanoutQueueSize:         getEnvInt("FANOUT_QUEUE_SIZE", 1024),
		FanoutMaxAttempts:       getEnvInt("FANOUT_MAX_ATTEMPTS", 3),
		KafkaBrokers:            splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaFanoutTopic:        getEnv("KAFKA_FANOUT_TOPIC", "notifications.fanout"),
		KafkaGroupID:            getEnv("KAFKA_GROUP_ID", "newsfeed-fanout"),
		OTLPEndpoint:            getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:             getEnv("OTEL_SERVICE_NAME", "newsfeed-api"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
