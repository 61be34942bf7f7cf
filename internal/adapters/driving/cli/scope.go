package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Inspect and manage folder scopes",
}

var scopeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the folder scope holds",
	Args:  cobra.NoArgs,
	RunE:  runScopeStats,
}

var scopeCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove everything the folder scope holds",
	Args:  cobra.NoArgs,
	RunE:  runScopeCleanup,
}

var scopeConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change per-scope retrieval settings",
	Args:  cobra.NoArgs,
	RunE:  runScopeConfig,
}

var (
	scopeCleanupYes    bool
	scopeSetRAG        string
	scopeSetRAGTokens  int
	scopeSetThreshold  float64
	scopeSetConvTokens int
)

func init() {
	scopeCleanupCmd.Flags().BoolVarP(&scopeCleanupYes, "yes", "y", false, "Skip the confirmation prompt")
	scopeConfigCmd.Flags().StringVar(&scopeSetRAG, "rag", "", "Enable or disable retrieval augmentation (true/false)")
	scopeConfigCmd.Flags().IntVar(&scopeSetRAGTokens, "max-rag-tokens", 0, "Token cap for retrieved content")
	scopeConfigCmd.Flags().Float64Var(&scopeSetThreshold, "similarity-threshold", 0, "Minimum similarity for retrieved chunks")
	scopeConfigCmd.Flags().IntVar(&scopeSetConvTokens, "max-conversation-tokens", 0, "Token cap for the history portion")
	scopeCmd.AddCommand(scopeStatsCmd)
	scopeCmd.AddCommand(scopeCleanupCmd)
	scopeCmd.AddCommand(scopeConfigCmd)
	rootCmd.AddCommand(scopeCmd)
}

func runScopeStats(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	stats, err := documentService.Stats(context.Background(), scope)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	cmd.Printf("Scope %s:\n", scope)
	cmd.Printf("  Documents:   %d\n", stats.Documents)
	cmd.Printf("  Chunks:      %d\n", stats.Chunks)
	cmd.Printf("  Embeddings:  %d\n", stats.Embeddings)
	cmd.Printf("  Graph nodes: %d\n", stats.GraphNodes)
	cmd.Printf("  Graph edges: %d\n", stats.GraphEdges)
	return nil
}

func runScopeCleanup(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	if !scopeCleanupYes {
		cmd.Printf("This removes all documents, chunks, embeddings and graph data for %s.\n", scope)
		cmd.Print("Continue? [y/N]: ")
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := documentService.CleanupScope(context.Background(), scope); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	cmd.Printf("Scope %s cleaned up.\n", scope)
	return nil
}

func runScopeConfig(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	cfg := configStore.ScopeConfig(scope)

	changed := false
	switch scopeSetRAG {
	case "true":
		cfg.IncludeRAGData = true
		changed = true
	case "false":
		cfg.IncludeRAGData = false
		changed = true
	case "":
	default:
		return fmt.Errorf("invalid --rag value %q (want true or false)", scopeSetRAG)
	}
	if cmd.Flags().Changed("max-rag-tokens") {
		cfg.MaxRAGTokens = scopeSetRAGTokens
		changed = true
	}
	if cmd.Flags().Changed("similarity-threshold") {
		cfg.SimilarityThreshold = scopeSetThreshold
		changed = true
	}
	if cmd.Flags().Changed("max-conversation-tokens") {
		cfg.MaxConversationTokens = scopeSetConvTokens
		changed = true
	}

	if changed {
		if err := configStore.SetScopeConfig(scope, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		cmd.Printf("Updated config for %s (%s)\n\n", scope, configStore.Path())
	}

	cmd.Printf("Config for %s:\n", scope)
	cmd.Printf("  Include RAG data:        %t\n", cfg.IncludeRAGData)
	cmd.Printf("  Max RAG tokens:          %d\n", cfg.MaxRAGTokens)
	cmd.Printf("  Similarity threshold:    %.2f\n", cfg.SimilarityThreshold)
	cmd.Printf("  Max conversation tokens: %d\n", cfg.MaxConversationTokens)
	return nil
}
