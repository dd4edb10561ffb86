package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// maxBatchSize caps how many texts go into one EmbedContent call
const maxBatchSize = 100

// Service implements EmbeddingService using the Gemini embedding API.
// A shared rate limiter spaces out calls so bulk ingestion stays inside
// free-tier quotas.
type Service struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewService creates a new Gemini embedding service
func NewService(config *common.GeminiConfig, logger arbor.ILogger) (interfaces.EmbeddingService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required for embeddings (set via GEMINI_API_KEY, LECTIO_GEMINI_API_KEY, or gemini.api_key in config)")
	}

	if config.EmbeddingModel == "" {
		config.EmbeddingModel = "gemini-embedding-001"
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	rateInterval, err := time.ParseDuration(config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", config.RateLimit, err)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &Service{
		config:  config,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(rateInterval), 1),
		timeout: timeout,
	}

	logger.Debug().
		Str("model", config.EmbeddingModel).
		Int("dimension", config.EmbeddingDimension).
		Str("rate_limit", config.RateLimit).
		Msg("Gemini embedding service initialized")

	return service, nil
}

// GenerateEmbedding creates a vector embedding for text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	vectors, err := s.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// GenerateEmbeddings embeds a batch of texts, preserving input order.
// Texts are sent in batches of at most maxBatchSize per API call.
func (s *Service) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty for embedding generation")
	}
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("text at index %d cannot be empty", i)
		}
	}

	startTime := time.Now()
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := s.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	s.logger.Debug().
		Int("texts", len(texts)).
		Int("dimension", s.config.EmbeddingDimension).
		Dur("duration", time.Since(startTime)).
		Msg("Generated embeddings")

	return vectors, nil
}

func (s *Service) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limiter interrupted: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	outputDim := int32(s.config.EmbeddingDimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := s.client.Models.EmbedContent(timeoutCtx, s.config.EmbeddingModel, contents, embeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), got)
	}

	vectors := make([][]float32, 0, len(texts))
	for i, embedding := range result.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, fmt.Errorf("no embedding returned for text at index %d", i)
		}
		if len(embedding.Values) != s.config.EmbeddingDimension {
			return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.config.EmbeddingDimension, len(embedding.Values))
		}
		vectors = append(vectors, embedding.Values)
	}

	return vectors, nil
}

// Dimension returns the configured embedding dimension
func (s *Service) Dimension() int {
	return s.config.EmbeddingDimension
}

// IsAvailable checks if the embedding service is available
func (s *Service) IsAvailable() bool {
	return s.client != nil
}
