package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
	PineconeAPIKey  string
	Port            string
}

// Load reads the environment (plus an optional .env file) and fails fast
// when a required API key is absent; there is no degraded mode without the
// upstream services.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		OpenAIAPIKey:    mustEnv("OPENAI_API_KEY"),
		AnthropicAPIKey: mustEnv("ANTHROPIC_API_KEY"),
		PineconeAPIKey:  mustEnv("PINECONE_API_KEY"),
		Port:            getEnv("PORT", "4000"),
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required environment variable %s", key)
	}
	return v
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
