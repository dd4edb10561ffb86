package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/handlers"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/services/embeddings"
	"github.com/ternarybob/lectio/internal/services/ingest"
	"github.com/ternarybob/lectio/internal/services/llm"
	"github.com/ternarybob/lectio/internal/services/rag"
	"github.com/ternarybob/lectio/internal/services/search"
	"github.com/ternarybob/lectio/internal/services/session"
	"github.com/ternarybob/lectio/internal/services/tools"
	"github.com/ternarybob/lectio/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	// Retrieval pipeline
	EmbeddingService interfaces.EmbeddingService
	SearchService    interfaces.SearchService

	// Query orchestration
	SessionService interfaces.SessionService
	ToolRegistry   interfaces.ToolRegistry
	ClaudeService  interfaces.AIGenerator
	RAGService     interfaces.RAGService

	// Ingestion
	IngestService *ingest.Service
	Scheduler     *ingest.Scheduler

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	QueryHandler   *handlers.QueryHandler
	CourseHandler  *handlers.CourseHandler
	SessionHandler *handlers.SessionHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	// Load course documents before serving so first queries see the corpus.
	// A load failure is logged, not fatal: the API still serves general
	// knowledge answers with an empty catalog.
	if cfg.Ingest.DocsDir != "" {
		if _, _, err := app.IngestService.AddCourseFolder(context.Background(), cfg.Ingest.DocsDir, cfg.Ingest.ClearOnRebuild); err != nil {
			logger.Warn().Err(err).Str("dir", cfg.Ingest.DocsDir).Msg("Failed to load course documents")
		}
	}

	if err := app.Scheduler.Start(cfg.Ingest.Schedule); err != nil {
		return nil, fmt.Errorf("failed to start rescan scheduler: %w", err)
	}

	logger.Info().
		Str("docs_dir", cfg.Ingest.DocsDir).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	manager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = manager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	embedder, err := embeddings.NewService(&a.Config.Gemini, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize embedding service: %w", err)
	}
	a.EmbeddingService = embedder

	a.SearchService = search.NewVectorSearchService(
		a.StorageManager.CourseStorage(),
		a.EmbeddingService,
		&a.Config.Search,
		a.Logger,
	)

	a.SessionService = session.NewService(a.Config.Search.MaxHistory, a.Logger)

	registry := tools.NewRegistry(a.Logger)
	registry.Register(tools.NewCourseSearchTool(a.SearchService, a.Logger))
	registry.Register(tools.NewCourseOutlineTool(a.SearchService, a.Logger))
	a.ToolRegistry = registry

	claude, err := llm.NewClaudeService(&a.Config.Claude, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize claude service: %w", err)
	}
	a.ClaudeService = claude

	a.RAGService = rag.NewService(
		a.ClaudeService,
		a.SearchService,
		a.SessionService,
		a.ToolRegistry,
		a.Logger,
	)

	a.IngestService = ingest.NewService(a.SearchService, &a.Config.Chunking, &a.Config.Ingest, a.Logger)
	a.Scheduler = ingest.NewScheduler(a.IngestService, a.Config.Ingest.DocsDir, a.Logger)

	return nil
}

// initHandlers initializes the HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.RAGService)
	a.QueryHandler = handlers.NewQueryHandler(a.RAGService, a.SessionService, a.Logger)
	a.CourseHandler = handlers.NewCourseHandler(a.RAGService, a.Logger)
	a.SessionHandler = handlers.NewSessionHandler(a.SessionService, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close stops background work and closes storage
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
