package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docuchat/internal/auth"
	"docuchat/internal/config"
	"docuchat/internal/handlers"
	"docuchat/internal/http"
	"docuchat/internal/ingest"
	"docuchat/internal/llm"
	"docuchat/internal/rag"
	"docuchat/internal/storage"
	"docuchat/internal/vectorstore"
	"docuchat/internal/websearch"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)

	// Initialize Qdrant vector store
	ctx := context.Background()
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	sparseEmbedder := llm.NewSparseEmbeddingsClient(cfg.SparseEmbeddingBaseURL, cfg.LLMAPIKey, cfg.SparseEmbeddingModelName)
	rerankClient := llm.NewRerankClient(cfg.RerankerBaseURL, cfg.LLMAPIKey, cfg.RerankerModelName)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Web search is optional; without an API key the agent reports the tool
	// unavailable instead of failing the turn.
	var webSearcher rag.WebSearcher
	if cfg.TavilyAPIKey != "" {
		webSearcher = websearch.NewClient(cfg.TavilyAPIKey)
		slog.Info("Web search enabled")
	} else {
		slog.Warn("TAVILY_API_KEY not set, web search disabled")
	}

	// Create ingestion pipeline
	pipeline := ingest.NewPipeline(documentRepo, vectorStore, embedder, sparseEmbedder, cfg.QdrantCollection)

	// Create RAG engine
	retriever := rag.NewHybridRetriever(embedder, sparseEmbedder, vectorStore, cfg.QdrantCollection, cfg.SystemOwnerID)
	reranker := rag.NewReranker(rerankClient)
	agent := rag.NewAgent(llmClient, retriever, reranker, webSearcher, 0)
	engine := rag.NewEngine(
		rag.NewCondenser(llmClient),
		agent,
		rag.NewSynthesizer(llmClient),
		retriever,
		reranker,
		0,
	)
	slog.Info("RAG engine initialized")

	// Create router with dependencies
	deps := &http.Deps{
		Chat:      handlers.NewChatHandler(engine),
		Documents: handlers.NewDocumentsHandler(documentRepo, vectorStore, pipeline, cfg.StoragePath, cfg.QdrantCollection, cfg.SystemOwnerID),
		Health:    handlers.NewHealthHandler(),
		Identity:  auth.NewMiddleware(cfg.JWTSecret),
		Logger:    logger,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
