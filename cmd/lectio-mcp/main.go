package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/services/embeddings"
	"github.com/ternarybob/lectio/internal/services/search"
	"github.com/ternarybob/lectio/internal/services/tools"
	"github.com/ternarybob/lectio/internal/storage/badger"
)

func main() {
	// Load configuration
	configPath := os.Getenv("LECTIO_CONFIG")
	if configPath == "" {
		configPath = "lectio.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := common.InitConsoleLogger("warn")

	// Initialize storage
	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	// Initialize the retrieval pipeline
	embedder, err := embeddings.NewService(&config.Gemini, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize embedding service")
	}

	searchService := search.NewVectorSearchService(
		storageManager.CourseStorage(),
		embedder,
		&config.Search,
		logger,
	)

	// The MCP tools delegate to the same implementations the query
	// orchestrator dispatches to.
	searchTool := tools.NewCourseSearchTool(searchService, logger)
	outlineTool := tools.NewCourseOutlineTool(searchService, logger)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"lectio",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register course tools
	mcpServer.AddTool(createSearchCourseContentTool(), handleSearchCourseContent(searchTool, logger))
	mcpServer.AddTool(createGetCourseOutlineTool(), handleGetCourseOutline(outlineTool, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
