package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driving"
	"github.com/arbor-labs/folderctx/internal/logger"
)

// Ensure ContextService implements the interface.
var _ driving.ContextService = (*ContextService)(nil)

// retrievalCandidates is how many chunks are requested from the index
// before threshold and token-budget filtering.
const retrievalCandidates = 10

// isolationInstruction is spliced into every augmented system prompt so the
// model stays inside the folder it was asked about.
const isolationInstruction = "Use only the folder resources provided between the markers below. " +
	"Do not draw on material from any other folder. If the resources do not " +
	"contain the answer, say so instead of guessing."

// noResourcesText replaces the resource block when a scope has nothing
// retrievable, keeping the conversation going instead of failing it.
const noResourcesText = "No folder resources available."

// ScopeConfigSource resolves per-scope retrieval configuration.
type ScopeConfigSource interface {
	ScopeConfig(scope domain.Scope) domain.ScopeConfig
}

// ContextService combines scoped retrieval with context assembly. Every
// retrieval call carries the exact scope the service was invoked with;
// nothing here may substitute another.
type ContextService struct {
	search    driving.SearchService
	assembler *Assembler
	configs   ScopeConfigSource
	estimate  domain.TokenEstimator
}

// NewContextService creates a new context service. configs may be nil, in
// which case every scope uses the defaults.
func NewContextService(
	search driving.SearchService,
	assembler *Assembler,
	configs ScopeConfigSource,
) *ContextService {
	return &ContextService{
		search:    search,
		assembler: assembler,
		configs:   configs,
		estimate:  domain.EstimateTokens,
	}
}

// BuildFolderContext retrieves scope content relevant to the query, splices
// it into the system prompt and delegates to the assembler.
func (s *ContextService) BuildFolderContext(ctx context.Context, in driving.BuildContextInput) (*domain.MessageContext, error) {
	if err := in.Scope.Validate(); err != nil {
		return nil, err
	}

	limits := in.Limits
	if limits == (domain.ContextLimits{}) {
		limits = domain.DefaultContextPreset.Limits()
	}

	cfg := domain.DefaultScopeConfig()
	if s.configs != nil {
		cfg = s.configs.ScopeConfig(in.Scope)
	}

	logger.Section("Folder Context")
	logger.Debug("Scope: %s, rag=%t, ragTokens=%d, threshold=%.2f",
		in.Scope, cfg.IncludeRAGData, cfg.MaxRAGTokens, cfg.SimilarityThreshold)

	// Cap the history share of the window by raising the reserve.
	if over := limits.MaxTokens - limits.ReserveTokens - cfg.MaxConversationTokens; over > 0 {
		limits.ReserveTokens += over
	}

	prompt := in.BasePrompt
	if cfg.IncludeRAGData && strings.TrimSpace(in.Query) != "" {
		block := s.retrieve(ctx, in.Scope, in.Query, cfg)
		prompt = augmentPrompt(in.BasePrompt, in.Scope, block)

		// Retrieved content takes priority over conversation history.
		limits.ReserveTokens += cfg.MaxRAGTokens
	}

	return s.assembler.Build(in.Messages, prompt, limits), nil
}

// retrieve collects scope content for the query: ranked chunks above the
// similarity threshold, accumulated until the next one would exceed the
// token budget. Failures degrade to the no-resources text.
func (s *ContextService) retrieve(ctx context.Context, scope domain.Scope, query string, cfg domain.ScopeConfig) string {
	results, err := s.search.SearchSimilarContent(ctx, scope, query, retrievalCandidates)
	if err != nil {
		logger.Warn("Retrieval for %s failed: %v", scope, err)
		return noResourcesText
	}

	var parts []string
	used := 0
	for _, result := range results {
		if result.Similarity < cfg.SimilarityThreshold {
			// Results are ranked descending; everything after is lower.
			break
		}
		tokens := result.Chunk.TokenCount
		if tokens == 0 {
			tokens = s.estimate(result.Chunk.Content)
		}
		if used+tokens > cfg.MaxRAGTokens {
			break
		}
		parts = append(parts, result.Chunk.Content)
		used += tokens
	}

	logger.Debug("Retrieved %d chunks (%d tokens) for %s", len(parts), used, scope)

	if len(parts) == 0 {
		return noResourcesText
	}
	return strings.Join(parts, "\n\n")
}

// augmentPrompt wraps the retrieved block in scope-identifying delimiters
// and appends it, with the isolation instruction, to the base prompt.
func augmentPrompt(basePrompt string, scope domain.Scope, block string) string {
	var b strings.Builder
	if basePrompt != "" {
		b.WriteString(basePrompt)
		b.WriteString("\n\n")
	}
	b.WriteString(isolationInstruction)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "--- BEGIN FOLDER RESOURCES (%s) ---\n", scope)
	b.WriteString(block)
	b.WriteString("\n--- END FOLDER RESOURCES ---")
	return b.String()
}
