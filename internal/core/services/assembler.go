package services

import (
	"fmt"
	"strings"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// truncationRatio is the share of the character budget kept when the latest
// user message alone overflows the window.
const truncationRatio = 0.8

// Assembler builds token-bounded message windows from conversation history.
// Assembly is deterministic: the same inputs always produce the same window.
type Assembler struct {
	estimate domain.TokenEstimator
}

// NewAssembler creates an assembler. A nil estimator falls back to the
// default character-ratio estimate.
func NewAssembler(estimator domain.TokenEstimator) *Assembler {
	if estimator == nil {
		estimator = domain.EstimateTokens
	}
	return &Assembler{estimate: estimator}
}

// Build assembles a message window from history and a system prompt.
//
// The system message always comes first. The most recent message, when it is
// a user message, is always included, truncated at a word boundary if it
// alone overflows the budget. Older history is admitted backwards in
// assistant+user pairs; a pair that would break the token or message budget
// stops the walk, and partial pairs are never admitted. The returned
// messages are in chronological order.
func (a *Assembler) Build(history []domain.Message, systemPrompt string, limits domain.ContextLimits) *domain.MessageContext {
	if limits == (domain.ContextLimits{}) {
		limits = domain.DefaultContextPreset.Limits()
	}

	system := domain.Message{Role: domain.RoleSystem, Content: systemPrompt}
	systemTokens := a.estimate(systemPrompt)
	available := limits.MaxTokens - limits.ReserveTokens - systemTokens

	if len(history) == 0 {
		return &domain.MessageContext{
			Messages:    []domain.Message{system},
			TotalTokens: systemTokens,
		}
	}

	// selected accumulates history newest-first; reversed before returning.
	var selected []domain.Message
	var historyTokens int
	truncated := false

	rest := history
	latest := history[len(history)-1]
	if latest.Role == domain.RoleUser {
		tokens := a.estimate(latest.Content)
		if tokens > available {
			latest.Content = truncateAtWordBoundary(latest.Content, available)
			tokens = a.estimate(latest.Content)
			truncated = true
		}
		selected = append(selected, latest)
		historyTokens += tokens
		rest = history[:len(history)-1]
	}

	// Walk backwards two messages at a time to preserve turn structure.
	for i := len(rest) - 1; i >= 1; i -= 2 {
		pair := []domain.Message{rest[i-1], rest[i]}
		pairTokens := a.estimate(pair[0].Content) + a.estimate(pair[1].Content)

		if historyTokens+pairTokens > available ||
			1+len(selected)+2 > limits.MaxMessages {
			truncated = true
			break
		}

		selected = append(selected, pair[1], pair[0])
		historyTokens += pairTokens
	}

	// An unpaired leading message is never admitted.
	if !truncated && len(selected) < len(history) {
		truncated = true
	}

	messages := make([]domain.Message, 0, len(selected)+1)
	messages = append(messages, system)
	for i := len(selected) - 1; i >= 0; i-- {
		messages = append(messages, selected[i])
	}

	return &domain.MessageContext{
		Messages:    messages,
		TotalTokens: systemTokens + historyTokens,
		Truncated:   truncated,
	}
}

// Validate checks an assembled context against a chat model's limits. It is
// independent of assembly: a context that passed Build with the wrong limits
// still fails here.
func (a *Assembler) Validate(mc *domain.MessageContext, model string) error {
	preset := domain.PresetFor(model)

	if mc.TotalTokens > preset.MaxTokens {
		return fmt.Errorf("context of %d tokens exceeds %d for model %q: %w",
			mc.TotalTokens, preset.MaxTokens, model, domain.ErrInvalidInput)
	}
	if len(mc.Messages) > preset.MaxMessages {
		return fmt.Errorf("context of %d messages exceeds %d for model %q: %w",
			len(mc.Messages), preset.MaxMessages, model, domain.ErrInvalidInput)
	}
	return nil
}

// truncateAtWordBoundary cuts content to fit a token budget, preferring the
// last word boundary before the target length and appending an ellipsis.
func truncateAtWordBoundary(content string, budgetTokens int) string {
	if budgetTokens < 0 {
		budgetTokens = 0
	}

	// The estimator counts roughly four characters per token.
	target := int(float64(budgetTokens*4) * truncationRatio)
	if target >= len(content) {
		return content
	}

	cut := content[:target]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ") + "..."
}
