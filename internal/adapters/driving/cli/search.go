package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arbor-labs/folderctx/internal/adapters/driving/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the folder scope by similarity",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSearch,
}

var (
	searchLimit       int
	searchInteractive bool
)

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 5, "Maximum number of results")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "Open the interactive search screen")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	if searchInteractive {
		program := tea.NewProgram(tui.New(searchService, scope), tea.WithAltScreen())
		_, err := program.Run()
		return err
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("a query is required (or use --interactive)")
	}

	results, err := searchService.SearchSimilarContent(context.Background(), scope, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		cmd.Printf("No results for %q in %s\n", query, scope)
		return nil
	}

	cmd.Printf("Results for %q in %s:\n\n", query, scope)
	for i, r := range results {
		cmd.Printf("%d. [%.3f] %s (chunk %d)\n", i+1, r.Similarity,
			r.Chunk.Metadata.DocumentName, r.Chunk.Index)
		cmd.Printf("   %s\n\n", snippet(r.Chunk.Content, 200))
	}
	return nil
}

// snippet shortens content for terminal display.
func snippet(content string, limit int) string {
	content = strings.Join(strings.Fields(content), " ")
	if len(content) <= limit {
		return content
	}
	return content[:limit] + "..."
}
