package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every tunable the service reads from the environment.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL   string
	EventExchange string

	ConsulAddress  string
	ServiceName    string
	ServiceAddress string

	AllowOrigins []string

	ReadinessCacheTTLSeconds int
	MaxRounds                int
}

var AppConfig *Config

// Load reads configuration from the environment. A .env file is loaded first
// when one is present; missing values fall back to development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:          getEnvOrDefault("PORT", "6670"),
		MongoURI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "mix_service"),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		RabbitMQURL:   getEnvOrDefault("RABBITMQ_URL", ""),
		EventExchange: getEnvOrDefault("EVENT_EXCHANGE", "mix.events"),

		ConsulAddress:  getEnvOrDefault("CONSUL_ADDRESS", ""),
		ServiceName:    getEnvOrDefault("SERVICE_NAME", "mix-service"),
		ServiceAddress: getEnvOrDefault("SERVICE_ADDRESS", "localhost"),

		AllowOrigins: strings.Split(getEnvOrDefault("CORS_ALLOW_ORIGINS", "*"), ","),

		ReadinessCacheTTLSeconds: getEnvIntOrDefault("READINESS_CACHE_TTL_SECONDS", 300),
		MaxRounds:                getEnvIntOrDefault("MIX_MAX_ROUNDS", 12),
	}

	AppConfig = cfg
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
