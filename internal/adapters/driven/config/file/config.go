// Package file provides TOML-backed application configuration.
// Configuration lives in ~/.folderctx/config.toml by default and holds the
// storage backend, embedding provider and per-scope retrieval overrides.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// Default file locations.
const (
	DefaultDirName  = ".folderctx"
	DefaultFileName = "config.toml"
)

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is "sqlite" or "memory" (default: sqlite).
	Backend string `toml:"backend"`

	// DataDir is where the SQLite database lives
	// (default: ~/.folderctx/data).
	DataDir string `toml:"data_dir"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" or "hash" (default: hash).
	Provider string `toml:"provider"`

	// Model is the embedding model name. Defaults depend on the provider.
	Model string `toml:"model"`

	// BaseURL overrides the provider API endpoint.
	BaseURL string `toml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key
	// (default: OPENAI_API_KEY). The key itself never goes in the file.
	APIKeyEnv string `toml:"api_key_env"`
}

// ScopeOverride holds per-scope retrieval settings. Pointer fields
// distinguish "unset" from an explicit zero.
type ScopeOverride struct {
	IncludeRAGData        *bool    `toml:"include_rag_data"`
	MaxRAGTokens          *int     `toml:"max_rag_tokens"`
	SimilarityThreshold   *float64 `toml:"similarity_threshold"`
	MaxConversationTokens *int     `toml:"max_conversation_tokens"`
}

// Config is the full application configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Embedding EmbeddingConfig `toml:"embedding"`

	// Scopes maps "folderID/ownerID" keys to retrieval overrides.
	Scopes map[string]ScopeOverride `toml:"scopes"`
}

// Store loads and persists the configuration file.
type Store struct {
	mu       sync.RWMutex
	filePath string
	config   Config
}

// NewStore creates a config store rooted at configDir.
// If configDir is empty, defaults to ~/.folderctx.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, DefaultDirName)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &Store{
		filePath: filepath.Join(configDir, DefaultFileName),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Load reads the configuration from disk. A missing file yields defaults.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = defaultConfig()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := toml.Unmarshal(data, &s.config); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	applyDefaults(&s.config)
	return nil
}

// Save persists the current configuration to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(s.config)
	if err != nil {
		return err
	}

	// Restricted permissions; the file may name key env vars and paths.
	return os.WriteFile(s.filePath, data, 0600)
}

// Config returns a copy of the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// ScopeConfig resolves the retrieval settings for a scope, applying any
// override on top of the defaults.
func (s *Store) ScopeConfig(scope domain.Scope) domain.ScopeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := domain.DefaultScopeConfig()
	override, ok := s.config.Scopes[scopeKey(scope)]
	if !ok {
		return cfg
	}

	if override.IncludeRAGData != nil {
		cfg.IncludeRAGData = *override.IncludeRAGData
	}
	if override.MaxRAGTokens != nil {
		cfg.MaxRAGTokens = *override.MaxRAGTokens
	}
	if override.SimilarityThreshold != nil {
		cfg.SimilarityThreshold = *override.SimilarityThreshold
	}
	if override.MaxConversationTokens != nil {
		cfg.MaxConversationTokens = *override.MaxConversationTokens
	}
	return cfg
}

// SetScopeConfig stores an override for a scope and persists immediately.
func (s *Store) SetScopeConfig(scope domain.Scope, cfg domain.ScopeConfig) error {
	s.mu.Lock()
	if s.config.Scopes == nil {
		s.config.Scopes = make(map[string]ScopeOverride)
	}
	s.config.Scopes[scopeKey(scope)] = ScopeOverride{
		IncludeRAGData:        &cfg.IncludeRAGData,
		MaxRAGTokens:          &cfg.MaxRAGTokens,
		SimilarityThreshold:   &cfg.SimilarityThreshold,
		MaxConversationTokens: &cfg.MaxConversationTokens,
	}
	s.mu.Unlock()

	return s.Save()
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}

func scopeKey(scope domain.Scope) string {
	return scope.FolderID + "/" + scope.OwnerID
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Embedding: EmbeddingConfig{
			Provider:  "hash",
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "hash"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.Model == "" {
		switch cfg.Embedding.Provider {
		case "openai":
			cfg.Embedding.Model = "text-embedding-3-small"
		default:
			cfg.Embedding.Model = "hash-256"
		}
	}
}
