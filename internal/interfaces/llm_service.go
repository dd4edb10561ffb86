package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// AIGenerator produces one assistant answer per call. When tools are
// supplied the generation may perform a single tool round: at most two
// model calls, with tool results folded into the second. conversationHistory
// is pre-rendered text or empty.
type AIGenerator interface {
	GenerateResponse(ctx context.Context, query string, conversationHistory string, tools []models.ToolDefinition, executor ToolExecutor) (string, error)
}
