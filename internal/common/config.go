package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Logging  LoggingConfig  `toml:"logging"`
	Claude   ClaudeConfig   `toml:"claude"`
	Gemini   GeminiConfig   `toml:"gemini"`
	Search   SearchConfig   `toml:"search"`
	Chunking ChunkingConfig `toml:"chunking"`
	Ingest   IngestConfig   `toml:"ingest"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"` // "debug", "info", "warn", "error"
	Format string   `toml:"format"`                                             // "json" or "text"
	Output []string `toml:"output"`                                             // "stdout", "file"
}

// ClaudeConfig contains Anthropic Claude API configuration for answer generation
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`                            // Anthropic API key (ANTHROPIC_API_KEY or config)
	Model       string  `toml:"model" validate:"required"`          // Model for answer generation (default: "claude-sonnet-4-20250514")
	MaxTokens   int     `toml:"max_tokens" validate:"min=1"`        // Maximum tokens in response (default: 800)
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=1"` // Completion temperature (default: 0)
	Timeout     string  `toml:"timeout"`                            // Operation timeout as duration string (default: "2m")
}

// GeminiConfig contains Google Gemini API configuration for embeddings
type GeminiConfig struct {
	APIKey             string `toml:"api_key"`                             // Google Gemini API key (GEMINI_API_KEY or config)
	EmbeddingModel     string `toml:"embedding_model" validate:"required"` // Embedding model (default: "gemini-embedding-001")
	EmbeddingDimension int    `toml:"embedding_dimension" validate:"min=1"`
	RateLimit          string `toml:"rate_limit"` // Minimum interval between embedding calls (default: "1s" for free tier)
	Timeout            string `toml:"timeout"`    // Operation timeout as duration string (default: "1m")
}

// SearchConfig contains configuration for retrieval behavior
type SearchConfig struct {
	MaxResults int `toml:"max_results" validate:"min=1"` // Similarity search result cap (default: 5)
	MaxHistory int `toml:"max_history" validate:"min=0"` // Conversation exchanges retained per session (default: 2)
}

// ChunkingConfig controls how course documents are split for embedding
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size" validate:"min=1"`    // Maximum chunk size in characters (default: 800)
	ChunkOverlap int `toml:"chunk_overlap" validate:"min=0"` // Trailing characters carried into the next chunk (default: 100)
}

// IngestConfig contains configuration for course document loading
type IngestConfig struct {
	DocsDir        string   `toml:"docs_dir"`         // Directory containing course documents (default: "./docs")
	Extensions     []string `toml:"extensions"`       // File extensions to scan (default: [".txt", ".pdf", ".md"])
	ClearOnRebuild bool     `toml:"clear_on_rebuild"` // Clear existing course data before a folder rescan
	Schedule       string   `toml:"schedule"`         // Cron schedule (with seconds) for folder rescans; empty = disabled
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in lectio.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",                     // Info level for production (debug|info|warn|error)
			Format: "text",                     // Human-readable text format (text|json)
			Output: []string{"stdout", "file"}, // Log to both console and file
		},
		Claude: ClaudeConfig{
			APIKey:      "",                          // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-sonnet-4-20250514", // Model for answer generation
			MaxTokens:   800,                         // Answers are short; keeps latency and cost down
			Temperature: 0,                           // Deterministic answers over course material
			Timeout:     "2m",                        // Covers both calls of a tool round
		},
		Gemini: GeminiConfig{
			APIKey:             "",                     // User must provide API key (GEMINI_API_KEY or config)
			EmbeddingModel:     "gemini-embedding-001", // Embedding model for catalog and content vectors
			EmbeddingDimension: 768,
			RateLimit:          "1s", // 1 request per second for free tier quotas
			Timeout:            "1m",
		},
		Search: SearchConfig{
			MaxResults: 5,
			MaxHistory: 2, // Keep the last 2 exchanges per session
		},
		Chunking: ChunkingConfig{
			ChunkSize:    800,
			ChunkOverlap: 100,
		},
		Ingest: IngestConfig{
			DocsDir:        "./docs",
			Extensions:     []string{".txt", ".pdf", ".md"},
			ClearOnRebuild: false,
			Schedule:       "", // Rescans disabled unless a schedule is configured
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
// Priority system: CLI flags > Environment variables > Config file > Defaults
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env -> CLI
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Server configuration
	if port := os.Getenv("LECTIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LECTIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("LECTIO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("LECTIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LECTIO_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("LECTIO_LOG_OUTPUT"); output != "" {
		// Split comma-separated output types
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("LECTIO_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // LECTIO_ prefix takes priority
	}
	if model := os.Getenv("LECTIO_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("LECTIO_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("LECTIO_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}
	if temperature := os.Getenv("LECTIO_CLAUDE_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Claude.Temperature = float32(t)
		}
	}

	// Gemini configuration
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("LECTIO_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey // LECTIO_ prefix takes priority
	}
	if model := os.Getenv("LECTIO_GEMINI_EMBEDDING_MODEL"); model != "" {
		config.Gemini.EmbeddingModel = model
	}
	if dimension := os.Getenv("LECTIO_GEMINI_EMBEDDING_DIMENSION"); dimension != "" {
		if d, err := strconv.Atoi(dimension); err == nil {
			config.Gemini.EmbeddingDimension = d
		}
	}
	if rateLimit := os.Getenv("LECTIO_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.Gemini.RateLimit = rateLimit
	}
	if timeout := os.Getenv("LECTIO_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}

	// Search configuration
	if maxResults := os.Getenv("LECTIO_SEARCH_MAX_RESULTS"); maxResults != "" {
		if mr, err := strconv.Atoi(maxResults); err == nil {
			config.Search.MaxResults = mr
		}
	}
	if maxHistory := os.Getenv("LECTIO_SEARCH_MAX_HISTORY"); maxHistory != "" {
		if mh, err := strconv.Atoi(maxHistory); err == nil {
			config.Search.MaxHistory = mh
		}
	}

	// Chunking configuration
	if chunkSize := os.Getenv("LECTIO_CHUNK_SIZE"); chunkSize != "" {
		if cs, err := strconv.Atoi(chunkSize); err == nil {
			config.Chunking.ChunkSize = cs
		}
	}
	if chunkOverlap := os.Getenv("LECTIO_CHUNK_OVERLAP"); chunkOverlap != "" {
		if co, err := strconv.Atoi(chunkOverlap); err == nil {
			config.Chunking.ChunkOverlap = co
		}
	}

	// Ingest configuration
	if docsDir := os.Getenv("LECTIO_DOCS_DIR"); docsDir != "" {
		config.Ingest.DocsDir = docsDir
	}
	if schedule := os.Getenv("LECTIO_INGEST_SCHEDULE"); schedule != "" {
		config.Ingest.Schedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string, docsDir string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if docsDir != "" {
		config.Ingest.DocsDir = docsDir
	}
}

// Validate checks the configuration using go-playground/validator plus the
// cross-field constraints struct tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", c.Chunking.ChunkOverlap, c.Chunking.ChunkSize)
	}

	if _, err := time.ParseDuration(c.Claude.Timeout); err != nil {
		return fmt.Errorf("invalid claude.timeout '%s': %w", c.Claude.Timeout, err)
	}
	if _, err := time.ParseDuration(c.Gemini.Timeout); err != nil {
		return fmt.Errorf("invalid gemini.timeout '%s': %w", c.Gemini.Timeout, err)
	}
	if _, err := time.ParseDuration(c.Gemini.RateLimit); err != nil {
		return fmt.Errorf("invalid gemini.rate_limit '%s': %w", c.Gemini.RateLimit, err)
	}

	if c.Ingest.Schedule != "" {
		if err := ValidateIngestSchedule(c.Ingest.Schedule); err != nil {
			return fmt.Errorf("invalid ingest.schedule: %w", err)
		}
	}

	return nil
}

// ValidateIngestSchedule validates a cron schedule expression (seconds field included)
func ValidateIngestSchedule(schedule string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
