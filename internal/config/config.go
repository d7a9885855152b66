package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string

	EmbeddingBaseURL   string
	EmbeddingModelName string

	SparseEmbeddingBaseURL   string
	SparseEmbeddingModelName string

	RerankerBaseURL   string
	RerankerModelName string

	TavilyAPIKey string

	DBPath      string
	StoragePath string

	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	SystemOwnerID int64
	JWTSecret     string

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
		LLMBaseURL:   getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName: getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:    getEnv("LLM_API_KEY", "dummy-key"),

		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),

		// Sparse embeddings are served by a text-embeddings-inference instance
		// exposing /embed_sparse (e.g. a SPLADE model). The sparse model used at
		// query time must be the same one used at ingestion time.
		SparseEmbeddingBaseURL:   getEnv("SPARSE_EMBEDDING_BASE_URL", "http://localhost:8082"),
		SparseEmbeddingModelName: getEnv("SPARSE_EMBEDDING_MODEL_NAME", "naver/splade-v3"),

		RerankerBaseURL:   getEnv("RERANKER_BASE_URL", "http://localhost:8083"),
		RerankerModelName: getEnv("RERANKER_MODEL_NAME", "BAAI/bge-reranker-base"),

		TavilyAPIKey: getEnv("TAVILY_API_KEY", ""),

		DBPath:      getEnv("DB_PATH", "./data/docuchat.db"),
		StoragePath: getEnv("STORAGE_PATH", "./storage"),

		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "documents"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		APIPort:   getEnv("API_PORT", "9000"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	// Parse QDRANT_VECTOR_SIZE
	// This must match the output dimension of the dense embedding model.
	// If the vector size changes, the Qdrant collection must be recreated.
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

	// Parse SYSTEM_OWNER_ID. Documents owned by this account are visible to
	// every caller, including anonymous ones.
	ownerStr := getEnv("SYSTEM_OWNER_ID", "1")
	systemOwnerID, err := strconv.ParseInt(ownerStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("SYSTEM_OWNER_ID must be a valid integer: %w", err)
	}
	if systemOwnerID <= 0 {
		return nil, fmt.Errorf("SYSTEM_OWNER_ID must be greater than 0")
	}
	cfg.SystemOwnerID = systemOwnerID

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	// Create data and storage directories if they don't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.StoragePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return cfg, nil
}

// parseLogLevel converts a log level string to slog.Level.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q (expected debug, info, warn, or error)", s)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
