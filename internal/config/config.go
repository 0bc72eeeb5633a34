package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	RedisURL      string
	GeminiAPIKey  string
	KafkaBrokers  []string
	EventTopic    string
	QuizTimeLimit int // seconds
	Environment   string
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; real deployments use the process environment.
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		KafkaBrokers:  getEnvList("KAFKA_BROKERS"),
		EventTopic:    getEnv("EVENT_TOPIC", "quiz-session-events"),
		QuizTimeLimit: getEnvInt("QUIZ_TIME_LIMIT", 600),
		Environment:   getEnv("ENVIRONMENT", "development"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
