package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	DBPath             string

	QdrantURL         string
	ChatCollection    string
	SummaryCollection string
	ChunkCollection   string
	QdrantVectorSize  int

	// Retrieval tuning. SummaryScoreThreshold is deliberately independent of
	// the caller-supplied threshold: summaries are coarse locators and admit
	// at a lower bar than chat messages.
	SummaryScoreThreshold float64
	SummaryTopK           int
	MaxChunksPerFile      int

	// Context assembly budgets, in characters.
	PerItemCharBudget  int
	TotalCharBudget    int
	ContextHardCeiling int

	// ProviderTimeout bounds each external call (embedding, index, LLM).
	ProviderTimeout time.Duration

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for go.mod
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMModelName:       getEnv("LLM_MODEL", "gpt-4-turbo-preview"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "https://api.openai.com"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "text-embedding-3-large"),
		DBPath:             getEnv("DB_PATH", "./data/chatgenius.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		ChatCollection:     getEnv("QDRANT_CHAT_COLLECTION", "chat_messages"),
		SummaryCollection:  getEnv("QDRANT_SUMMARY_COLLECTION", "document_summaries"),
		ChunkCollection:    getEnv("QDRANT_CHUNK_COLLECTION", "documents"),
		APIPort:            getEnv("API_PORT", "8000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	// Parse QDRANT_VECTOR_SIZE
	// This must match the output vector size of the embeddings model
	// (3072 for text-embedding-3-large). If the vector size changes, the
	// Qdrant collections must be re-indexed by the ingestion pipeline.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	cfg.SummaryScoreThreshold, err = getEnvFloat("SUMMARY_SCORE_THRESHOLD", 0.2)
	if err != nil {
		return nil, err
	}
	if cfg.SummaryScoreThreshold < 0 || cfg.SummaryScoreThreshold > 1 {
		return nil, fmt.Errorf("SUMMARY_SCORE_THRESHOLD must be in [0,1]")
	}

	cfg.SummaryTopK, err = getEnvInt("SUMMARY_TOP_K", 5)
	if err != nil {
		return nil, err
	}
	cfg.MaxChunksPerFile, err = getEnvInt("MAX_CHUNKS_PER_FILE", 50)
	if err != nil {
		return nil, err
	}
	cfg.PerItemCharBudget, err = getEnvInt("PER_ITEM_CHAR_BUDGET", 2000)
	if err != nil {
		return nil, err
	}
	cfg.TotalCharBudget, err = getEnvInt("TOTAL_CHAR_BUDGET", 12000)
	if err != nil {
		return nil, err
	}
	cfg.ContextHardCeiling, err = getEnvInt("CONTEXT_HARD_CEILING", 32000)
	if err != nil {
		return nil, err
	}
	if cfg.SummaryTopK <= 0 || cfg.MaxChunksPerFile <= 0 {
		return nil, fmt.Errorf("SUMMARY_TOP_K and MAX_CHUNKS_PER_FILE must be greater than 0")
	}
	if cfg.PerItemCharBudget <= 0 || cfg.TotalCharBudget <= 0 || cfg.ContextHardCeiling <= 0 {
		return nil, fmt.Errorf("context budgets must be greater than 0")
	}

	timeoutSecs, err := getEnvInt("PROVIDER_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	if timeoutSecs <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be greater than 0")
	}
	cfg.ProviderTimeout = time.Duration(timeoutSecs) * time.Second

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\"")
	}

	// Create ./data directory if it doesn't exist (for the directory DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

// getEnvFloat gets a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return parsed, nil
}

// parseLogLevel converts a log level string to a slog.Level.
// Unknown values fall back to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
