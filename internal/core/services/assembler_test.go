package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// padded returns a message whose content starts with label and is exactly
// 20 characters, estimating to 5 tokens.
func padded(role domain.Role, label string) domain.Message {
	return domain.Message{
		Role:    role,
		Content: label + strings.Repeat(".", 20-len(label)),
	}
}

func TestAssembler_Build_EmptyHistory(t *testing.T) {
	a := NewAssembler(nil)

	mc := a.Build(nil, "You are helpful.", domain.ContextLimits{
		MaxTokens: 100, MaxMessages: 10, ReserveTokens: 10,
	})

	require.Len(t, mc.Messages, 1)
	assert.Equal(t, domain.RoleSystem, mc.Messages[0].Role)
	assert.Equal(t, "You are helpful.", mc.Messages[0].Content)
	assert.Equal(t, domain.EstimateTokens("You are helpful."), mc.TotalTokens)
	assert.False(t, mc.Truncated)
}

func TestAssembler_Build_ZeroLimitsUseDefaultPreset(t *testing.T) {
	a := NewAssembler(nil)

	history := []domain.Message{padded(domain.RoleUser, "u1")}
	mc := a.Build(history, "sys", domain.ContextLimits{})

	require.Len(t, mc.Messages, 2)
	assert.False(t, mc.Truncated)
}

func TestAssembler_Build_LatestUserTruncated(t *testing.T) {
	a := NewAssembler(nil)

	long := strings.Repeat("alpha beta gamma del ", 10) // 210 chars, 53 tokens
	history := []domain.Message{{Role: domain.RoleUser, Content: long}}

	mc := a.Build(history, "", domain.ContextLimits{
		MaxTokens: 20, MaxMessages: 10, ReserveTokens: 0,
	})

	require.Len(t, mc.Messages, 2)
	got := mc.Messages[1].Content
	assert.True(t, mc.Truncated)
	assert.True(t, strings.HasSuffix(got, "..."), "expected ellipsis, got %q", got)
	assert.Less(t, len(got), len(long))
	// Cut lands on a word boundary, not inside a word.
	trimmed := strings.TrimSuffix(got, "...")
	assert.False(t, strings.HasSuffix(trimmed, " "))
	assert.Contains(t, long, trimmed)
}

func TestAssembler_Build_PairwiseWalkStopsOnBudget(t *testing.T) {
	a := NewAssembler(nil)

	history := []domain.Message{
		padded(domain.RoleUser, "u1"),
		padded(domain.RoleAssistant, "a1"),
		padded(domain.RoleUser, "u2"),
		padded(domain.RoleAssistant, "a2"),
		padded(domain.RoleUser, "u3"),
	}

	// System "sys." estimates to 1 token, each history message to 5.
	// available = 17 - 0 - 1 = 16: admits u3 (5) and the a2+u2 pair (10),
	// but not the a1+u1 pair.
	mc := a.Build(history, "sys.", domain.ContextLimits{
		MaxTokens: 17, MaxMessages: 10, ReserveTokens: 0,
	})

	require.Len(t, mc.Messages, 4)
	assert.Equal(t, domain.RoleSystem, mc.Messages[0].Role)
	assert.True(t, strings.HasPrefix(mc.Messages[1].Content, "u2"))
	assert.True(t, strings.HasPrefix(mc.Messages[2].Content, "a2"))
	assert.True(t, strings.HasPrefix(mc.Messages[3].Content, "u3"))
	assert.True(t, mc.Truncated)
	assert.Equal(t, 16, mc.TotalTokens)
}

func TestAssembler_Build_MaxMessagesCapsWindow(t *testing.T) {
	a := NewAssembler(nil)

	var history []domain.Message
	for i := 0; i < 10; i++ {
		history = append(history,
			padded(domain.RoleUser, "u"),
			padded(domain.RoleAssistant, "a"),
		)
	}
	history = append(history, padded(domain.RoleUser, "u"))

	mc := a.Build(history, "sys.", domain.ContextLimits{
		MaxTokens: 10000, MaxMessages: 4, ReserveTokens: 0,
	})

	assert.Len(t, mc.Messages, 4)
	assert.True(t, mc.Truncated)
}

func TestAssembler_Build_NoPartialPairs(t *testing.T) {
	a := NewAssembler(nil)

	// A lone assistant message leads the history; it can never form a
	// pair and must not be admitted on its own.
	history := []domain.Message{
		padded(domain.RoleAssistant, "a0"),
		padded(domain.RoleUser, "u1"),
		padded(domain.RoleAssistant, "a1"),
		padded(domain.RoleUser, "u2"),
	}

	mc := a.Build(history, "sys.", domain.ContextLimits{
		MaxTokens: 10000, MaxMessages: 50, ReserveTokens: 0,
	})

	require.Len(t, mc.Messages, 4)
	for _, m := range mc.Messages[1:] {
		assert.False(t, strings.HasPrefix(m.Content, "a0"))
	}
	assert.True(t, mc.Truncated)
}

func TestAssembler_Build_FullHistoryFits(t *testing.T) {
	a := NewAssembler(nil)

	history := []domain.Message{
		padded(domain.RoleUser, "u1"),
		padded(domain.RoleAssistant, "a1"),
		padded(domain.RoleUser, "u2"),
	}

	mc := a.Build(history, "sys.", domain.ContextLimits{
		MaxTokens: 10000, MaxMessages: 50, ReserveTokens: 0,
	})

	require.Len(t, mc.Messages, 4)
	assert.False(t, mc.Truncated)
	assert.True(t, strings.HasPrefix(mc.Messages[1].Content, "u1"))
	assert.True(t, strings.HasPrefix(mc.Messages[3].Content, "u2"))
}

func TestAssembler_Validate(t *testing.T) {
	a := NewAssembler(nil)

	ok := &domain.MessageContext{
		Messages:    []domain.Message{{Role: domain.RoleSystem}},
		TotalTokens: 100,
	}
	require.NoError(t, a.Validate(ok, "unknown-model"))

	tooManyTokens := &domain.MessageContext{
		Messages:    []domain.Message{{Role: domain.RoleSystem}},
		TotalTokens: 9000,
	}
	assert.ErrorIs(t, a.Validate(tooManyTokens, "unknown-model"), domain.ErrInvalidInput)

	tooManyMessages := &domain.MessageContext{
		Messages:    make([]domain.Message, 21),
		TotalTokens: 100,
	}
	assert.ErrorIs(t, a.Validate(tooManyMessages, "unknown-model"), domain.ErrInvalidInput)
}
