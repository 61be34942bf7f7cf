// Package cli implements the folderctx command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	configfile "github.com/arbor-labs/folderctx/internal/adapters/driven/config/file"
	"github.com/arbor-labs/folderctx/internal/adapters/driven/embedding/hash"
	"github.com/arbor-labs/folderctx/internal/adapters/driven/embedding/openai"
	"github.com/arbor-labs/folderctx/internal/adapters/driven/storage/memory"
	"github.com/arbor-labs/folderctx/internal/adapters/driven/storage/sqlite"
	"github.com/arbor-labs/folderctx/internal/adapters/driven/vector/bruteforce"
	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
	"github.com/arbor-labs/folderctx/internal/core/ports/driving"
	"github.com/arbor-labs/folderctx/internal/core/services"
	"github.com/arbor-labs/folderctx/internal/logger"
	"github.com/arbor-labs/folderctx/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagFolder  string
	flagOwner   string
	flagVerbose bool
	flagConfig  string
)

// Wired services, populated by initServices.
var (
	configStore     *configfile.Store
	docStore        driven.DocumentStore
	vectorIndex     driven.VectorIndex
	documentService driving.DocumentService
	searchService   driving.SearchService
	contextService  driving.ContextService

	initOnce sync.Once
	initErr  error
)

var rootCmd = &cobra.Command{
	Use:   "folderctx",
	Short: "Per-folder retrieval-augmented context engine",
	Long: `folderctx ingests documents into isolated folder scopes, indexes them
for similarity search, and assembles token-bounded prompt contexts
augmented with each folder's own content.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFolder, "folder", "f", "", "Folder ID (scope)")
	rootCmd.PersistentFlags().StringVarP(&flagOwner, "owner", "o", "local", "Owner ID (scope)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config-dir", "", "Config directory (default ~/.folderctx)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// currentScope builds the scope from the persistent flags.
func currentScope() (domain.Scope, error) {
	scope := domain.NewScope(flagFolder, flagOwner)
	if err := scope.Validate(); err != nil {
		return domain.Scope{}, fmt.Errorf("a folder is required (use --folder): %w", err)
	}
	return scope, nil
}

// initServices wires stores, embedder, index and services from the config
// file. Safe to call from every command; the work happens once.
func initServices() error {
	initOnce.Do(func() {
		initErr = wireServices()
	})
	return initErr
}

func wireServices() error {
	var err error
	configStore, err = configfile.NewStore(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := configStore.Config()

	var graphStore driven.GraphStore
	switch cfg.Storage.Backend {
	case "memory":
		docStore = memory.NewDocumentStore()
		graphStore = memory.NewGraphStore()
	case "sqlite", "":
		store, err := sqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		docStore = store
		graphStore = store
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	var embedder driven.EmbeddingService
	switch cfg.Embedding.Provider {
	case "openai":
		embedder, err = openai.NewEmbeddingService(openai.Config{
			APIKey:  os.Getenv(cfg.Embedding.APIKeyEnv),
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			return fmt.Errorf("init embedder: %w", err)
		}
	case "hash", "":
		embedder, err = hash.NewService(cfg.Embedding.Model)
		if err != nil {
			return fmt.Errorf("init embedder: %w", err)
		}
	default:
		return fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	index := bruteforce.NewIndex()
	vectorIndex = index

	// Make previously ingested content searchable in this run.
	if flagFolder != "" {
		scope := domain.NewScope(flagFolder, flagOwner)
		if err := index.Load(context.Background(), scope, docStore); err != nil {
			logger.Warn("Warming index for %s failed: %v", scope, err)
		}
	}

	pipeline := postprocessors.DefaultPipeline()
	documentService = services.NewDocumentService(docStore, graphStore, embedder, index, pipeline)
	searchService = services.NewSearchService(docStore, index, embedder)
	contextService = services.NewContextService(searchService, services.NewAssembler(nil), configStore)

	logger.Debug("Wired storage=%s embedder=%s model=%s",
		cfg.Storage.Backend, cfg.Embedding.Provider, embedder.ModelName())
	return nil
}
