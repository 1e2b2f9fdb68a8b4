package types

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr       string
	OpenAIKey        string
	EmbeddingModel   string
	HuggingFaceToken string
	MistralURL       string
	ChunkSize        int
	ChunkOverlap     int
	TopK             int
	SessionTTL       time.Duration
}

// LoadConfig reads the service configuration from the environment.
// Sessions do not survive a restart; SESSION_TTL_MINUTES=0 keeps idle
// sessions alive for the whole process lifetime.
func LoadConfig() Config {
	return Config{
		ListenAddr:       getEnv("SERVER_ADDR", ":8000"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		HuggingFaceToken: os.Getenv("HUGGINGFACEHUB_API_TOKEN"),
		MistralURL:       os.Getenv("MISTRAL_API_URL"),
		ChunkSize:        getEnvAsInt("CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvAsInt("CHUNK_OVERLAP", 200),
		TopK:             getEnvAsInt("RETRIEVAL_TOP_K", 4),
		SessionTTL:       time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 0)) * time.Minute,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
