package domain

// Role identifies the author of a conversation message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation message.
type Message struct {
	Role    Role
	Content string
}

// ContextLimits bound the assembled message window.
type ContextLimits struct {
	// MaxTokens is the total estimated token budget.
	MaxTokens int

	// MaxMessages caps the number of messages including the system message.
	MaxMessages int

	// ReserveTokens is held back from MaxTokens for the model's response.
	ReserveTokens int
}

// MessageContext is the assembled, token-bounded message window.
// It is produced per call and never persisted.
type MessageContext struct {
	// Messages is ordered: system message first, then conversation
	// history in chronological order.
	Messages []Message

	// TotalTokens is the estimated token sum of all messages.
	TotalTokens int

	// Truncated reports whether any history was cut to fit the limits.
	Truncated bool
}

// ContextPreset holds per-model assembly limits.
type ContextPreset struct {
	MaxTokens     int
	ReserveTokens int
	MaxMessages   int
}

// contextPresets maps known chat model identifiers to their limits.
var contextPresets = map[string]ContextPreset{
	"gpt-4o":            {MaxTokens: 128000, ReserveTokens: 4096, MaxMessages: 50},
	"gpt-4o-mini":       {MaxTokens: 128000, ReserveTokens: 4096, MaxMessages: 50},
	"gpt-4-turbo":       {MaxTokens: 128000, ReserveTokens: 4096, MaxMessages: 50},
	"gpt-3.5-turbo":     {MaxTokens: 16385, ReserveTokens: 2048, MaxMessages: 30},
	"claude-3-5-sonnet": {MaxTokens: 200000, ReserveTokens: 8192, MaxMessages: 50},
	"claude-3-haiku":    {MaxTokens: 200000, ReserveTokens: 4096, MaxMessages: 50},
}

// DefaultContextPreset is used for unknown models.
var DefaultContextPreset = ContextPreset{MaxTokens: 8000, ReserveTokens: 1500, MaxMessages: 20}

// PresetFor returns the assembly limits for a chat model, falling back to
// DefaultContextPreset for unknown identifiers.
func PresetFor(model string) ContextPreset {
	if p, ok := contextPresets[model]; ok {
		return p
	}
	return DefaultContextPreset
}

// Limits converts a preset into ContextLimits.
func (p ContextPreset) Limits() ContextLimits {
	return ContextLimits{
		MaxTokens:     p.MaxTokens,
		MaxMessages:   p.MaxMessages,
		ReserveTokens: p.ReserveTokens,
	}
}
