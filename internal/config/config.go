package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort          string
	DatabaseURL       string
	LogLevel          string
	GeminiAPIKey      string
	ChunkSize         int
	ChunkOverlap      int
	RetrieveTopK      int
	RetrieveThreshold float64
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "docchat.db"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		ChunkSize:         getEnvAsInt("CHUNK_SIZE", 500),
		ChunkOverlap:      getEnvAsInt("CHUNK_OVERLAP", 50),
		RetrieveTopK:      getEnvAsInt("RETRIEVE_TOP_K", 3),
		RetrieveThreshold: getEnvAsFloat("RETRIEVE_THRESHOLD", 0.1),
	}

	// GEMINI_API_KEY is optional. Without it the server answers with the
	// deterministic template composer instead of the Gemini-backed one.
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
