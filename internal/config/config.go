package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Agent    AgentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	CorpusDir          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "deepseek", "ollama"
	LLMModel          string
	LLMBaseURL        string
	LLMAPIKey         string
}

// AgentConfig holds the tunables of the question-answering pipeline.
type AgentConfig struct {
	TraceDir          string
	TopKRecall        int
	TopKFinal         int
	KeywordBonus      float64
	MaxAttempts       int
	SelectorThreshold int // total evidence characters before model-assisted compression kicks in
	AnswerCacheTTLSec int // 0 disables the redis answer cache
	EmbedTopicName    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			CorpusDir:          getEnv("CORPUS_DIR", "data/raw"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "deepseek"),
			LLMModel:          getEnv("LLM_MODEL", "deepseek-chat"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.deepseek.com"),
			LLMAPIKey:         getEnv("LLM_API_KEY", ""),
		},
		Agent: AgentConfig{
			TraceDir:          getEnv("TRACE_DIR", "train/data/traces"),
			TopKRecall:        getEnvAsInt("TOP_K_RECALL", 10),
			TopKFinal:         getEnvAsInt("TOP_K_FINAL", 5),
			KeywordBonus:      getEnvAsFloat("KEYWORD_BONUS", 0.1),
			MaxAttempts:       getEnvAsInt("MAX_ATTEMPTS", 3),
			SelectorThreshold: getEnvAsInt("SELECTIVE_READ_CHAR_THRESHOLD", 1000),
			AnswerCacheTTLSec: getEnvAsInt("ANSWER_CACHE_TTL_SECONDS", 0),
			EmbedTopicName:    getEnv("EMBED_CHUNK_TOPIC_NAME", "EMBED_CHUNK_CONTENT"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
