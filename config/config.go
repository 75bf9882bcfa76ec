package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SupportedModels is the closed list of model identifiers the user may select.
var SupportedModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo", "gpt-4"}

// Bounds for the user-facing model configuration.
const (
	TemperatureMin = 0.0
	TemperatureMax = 1.0
	MaxTokensMin   = 100
	MaxTokensMax   = 4000
)

// Defaults applied to every fresh session.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

type Config struct {
	Port        string
	APIKey      string
	BaseURL     string // OpenAI-compatible endpoint, without the /v1 suffix
	EmbedModel  string
	DBPath      string
	ProductsDir string
	LogFilePath string
	Environment string
}

func GetConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return Config{
		Port:        getEnv("PORT", "9090"),
		APIKey:      getEnv("OPENAI_API_KEY", ""),
		BaseURL:     getEnv("OPENAI_BASE_URL", "https://twapi.openai-hk.com"),
		EmbedModel:  getEnv("EMBED_MODEL", "text-embedding-3-small"),
		DBPath:      getEnv("DB_PATH", "./data/badger"),
		ProductsDir: getEnv("PRODUCTS_DIR", "./products"),
		LogFilePath: getEnv("LOG_FILE_PATH", "./logs/superai.log"),
		Environment: getEnv("GO_ENV", "development"),
	}
}

// IsSupportedModel reports whether name is one of the selectable models.
func IsSupportedModel(name string) bool {
	for _, m := range SupportedModels {
		if m == name {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
