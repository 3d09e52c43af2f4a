package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/srgjo27/house_rental/internal/platform/database"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port              string
	StoreDriver       string
	Postgres          database.Config
	MongoURI          string
	MongoDB           string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RabbitMQURL       string
	JWTSecret         string
	ReconcileSchedule string
	CacheLocalTTL     time.Duration
	LogLevel          string
}

// LoadEnv reads .env into the process environment. A missing file is not an
// error; the OS environment is used as is.
func LoadEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Printf("Warning: .env not loaded, using OS environment: %v", err)
	}
}

func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		Postgres: database.Config{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			DBName:       getEnv("DB_NAME", "house_rental"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			AutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", true),
		},
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "house_rental"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "@every 5m"),
		CacheLocalTTL:     time.Duration(getEnvInt("CACHE_LOCAL_TTL_SECONDS", 60)) * time.Second,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
