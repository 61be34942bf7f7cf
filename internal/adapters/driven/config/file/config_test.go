package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

func TestNewStore_Defaults(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "hash", cfg.Embedding.Provider)
	assert.Equal(t, "hash-256", cfg.Embedding.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedding.APIKeyEnv)
}

func TestStore_LoadExistingFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[storage]
backend = "memory"

[embedding]
provider = "openai"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(content), 0600))

	store, err := NewStore(dir)
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	// Model default follows the provider.
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
}

func TestStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("not = [valid"), 0600))

	_, err := NewStore(dir)
	assert.Error(t, err)
}

func TestStore_ScopeConfigDefaults(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := store.ScopeConfig(domain.NewScope("folder-1", "owner-1"))
	assert.Equal(t, domain.DefaultScopeConfig(), cfg)
}

func TestStore_ScopeConfigOverrideRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	scope := domain.NewScope("folder-1", "owner-1")
	want := domain.ScopeConfig{
		IncludeRAGData:        false,
		MaxRAGTokens:          500,
		SimilarityThreshold:   0.5,
		MaxConversationTokens: 1000,
	}
	require.NoError(t, store.SetScopeConfig(scope, want))

	// Reload from disk and resolve again.
	reloaded, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, want, reloaded.ScopeConfig(scope))

	// Other scopes keep the defaults.
	other := reloaded.ScopeConfig(domain.NewScope("folder-2", "owner-1"))
	assert.Equal(t, domain.DefaultScopeConfig(), other)
}

func TestStore_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	content := `
[scopes."folder-1/owner-1"]
max_rag_tokens = 750
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(content), 0600))

	store, err := NewStore(dir)
	require.NoError(t, err)

	cfg := store.ScopeConfig(domain.NewScope("folder-1", "owner-1"))
	assert.Equal(t, 750, cfg.MaxRAGTokens)
	// Unset fields keep the defaults.
	assert.True(t, cfg.IncludeRAGData)
	assert.InDelta(t, 0.7, cfg.SimilarityThreshold, 1e-9)
	assert.Equal(t, 4000, cfg.MaxConversationTokens)
}
