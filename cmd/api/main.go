package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"chatgenius-context/internal/config"
	"chatgenius-context/internal/http"
	"chatgenius-context/internal/llm"
	"chatgenius-context/internal/retrieval"
	"chatgenius-context/internal/service"
	"chatgenius-context/internal/storage"
	"chatgenius-context/internal/vectorstore"
)

// directory adapts the storage repositories to the service lookup interface.
type directory struct {
	users    *storage.UserRepo
	channels *storage.ChannelRepo
}

func (d *directory) GetUsername(ctx context.Context, userID string) (string, error) {
	return d.users.GetUsername(ctx, userID)
}

func (d *directory) GetChannel(ctx context.Context, channelID string) (storage.Channel, error) {
	return d.channels.GetByID(ctx, channelID)
}

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

	userRepo := storage.NewUserRepo(db)
	channelRepo := storage.NewChannelRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure all three namespaces exist with the correct vector size
	collections := []string{cfg.ChatCollection, cfg.SummaryCollection, cfg.ChunkCollection}
	for _, collection := range collections {
		if err := vectorStore.EnsureCollection(ctx, collection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection %s: %v", collection, err)
		}
	}
	slog.Info("Qdrant collections ready", "collections", collections, "vector_size", cfg.QdrantVectorSize)

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

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create the retrieval engine
	gateway := retrieval.NewGateway(vectorStore, embedder, cfg.ChatCollection, cfg.SummaryCollection, cfg.ChunkCollection)
	engine := retrieval.NewEngine(gateway, llmClient, userRepo, retrieval.Config{
		SummaryTopK:           cfg.SummaryTopK,
		SummaryScoreThreshold: float32(cfg.SummaryScoreThreshold),
		MaxChunksPerFile:      cfg.MaxChunksPerFile,
		CallTimeout:           cfg.ProviderTimeout,
	})
	slog.Info("Retrieval engine initialized")

	// Create the assistant service
	assembler := retrieval.NewAssembler(llmClient, cfg.PerItemCharBudget, cfg.TotalCharBudget, cfg.ContextHardCeiling)
	assistant := service.NewAssistantService(engine, assembler, llmClient, &directory{
		users:    userRepo,
		channels: channelRepo,
	})

	// Create router with dependencies
	deps := &http.Deps{
		Engine:           engine,
		Assistant:        assistant,
		HealthChecker:    vectorStore,
		HealthCollection: collections,
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
