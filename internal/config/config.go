package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment.
type Config struct {
	GeminiAPIKey string
	ChatModel    string
	HTTPPort     string
	RegistryPath string
	IndexRoot    string
	LogLevel     string
	LogFile      string
}

// Load reads a .env file if one exists, then the environment. Missing
// values fall back to defaults; the API key is only validated by the
// commands that actually talk to the provider.
func Load() *Config {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		ChatModel:    getEnv("CHAT_MODEL", "gemini-2.0-flash"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		RegistryPath: getEnv("REGISTRY_PATH", "chat_history.json"),
		IndexRoot:    getEnv("INDEX_ROOT", "index_data"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
