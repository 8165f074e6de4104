package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Stytch    StytchConfig
	OpenAI    OpenAIConfig
	Wikipedia WikipediaConfig
	Keys      TopicConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type StytchConfig struct {
	ProjectID string
	Secret    string
}

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type WikipediaConfig struct {
	APIURL string
}

type TopicConfig struct {
	QueryProcessedTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Stytch: StytchConfig{
			ProjectID: getEnv("STYTCH_PROJECT_ID", ""),
			Secret:    getEnv("STYTCH_SECRET", ""),
		},
		OpenAI: OpenAIConfig{
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Wikipedia: WikipediaConfig{
			APIURL: getEnv("WIKIPEDIA_API_URL", "https://en.wikipedia.org/w/api.php"),
		},
		Keys: TopicConfig{
			QueryProcessedTopic: getEnv("QUERY_PROCESSED_TOPIC_NAME", "QUERY_PROCESSED"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
