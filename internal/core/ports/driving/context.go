package driving

import (
	"context"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// BuildContextInput carries everything needed to assemble a folder context.
type BuildContextInput struct {
	// Scope is the folder the conversation belongs to.
	Scope domain.Scope

	// Messages is the ordered conversation history.
	Messages []domain.Message

	// Query is the latest user query used for retrieval.
	Query string

	// BasePrompt is the system prompt before augmentation.
	BasePrompt string

	// Limits bound the assembled window. Zero value selects the
	// default preset.
	Limits domain.ContextLimits
}

// ContextService assembles token-bounded prompt contexts augmented with
// retrieved folder content.
type ContextService interface {
	// BuildFolderContext retrieves scope content relevant to the query,
	// splices it into the system prompt and delegates to the assembler.
	BuildFolderContext(ctx context.Context, in BuildContextInput) (*domain.MessageContext, error)
}
