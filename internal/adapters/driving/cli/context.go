package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driving"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Assemble prompt contexts for a folder scope",
}

var contextBuildCmd = &cobra.Command{
	Use:   "build [query]",
	Short: "Build an augmented message context for a query",
	Long: `Retrieves folder content relevant to the query, splices it into the
system prompt and assembles a token-bounded message window. History can
be supplied as a JSON file of {"role", "content"} objects.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runContextBuild,
}

var (
	contextPrompt  string
	contextModel   string
	contextHistory string
)

func init() {
	contextBuildCmd.Flags().StringVarP(&contextPrompt, "prompt", "p", "You are a helpful assistant.", "Base system prompt")
	contextBuildCmd.Flags().StringVarP(&contextModel, "model", "m", "", "Chat model whose limits to use")
	contextBuildCmd.Flags().StringVar(&contextHistory, "history", "", "JSON file with prior conversation messages")
	contextCmd.AddCommand(contextBuildCmd)
	rootCmd.AddCommand(contextCmd)
}

func runContextBuild(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")

	messages, err := loadHistory(contextHistory)
	if err != nil {
		return err
	}
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: query})

	var limits domain.ContextLimits
	if contextModel != "" {
		limits = domain.PresetFor(contextModel).Limits()
	}

	mc, err := contextService.BuildFolderContext(context.Background(), driving.BuildContextInput{
		Scope:      scope,
		Messages:   messages,
		Query:      query,
		BasePrompt: contextPrompt,
		Limits:     limits,
	})
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	for i := range mc.Messages {
		cmd.Printf("--- %s ---\n%s\n\n", mc.Messages[i].Role, mc.Messages[i].Content)
	}
	cmd.Printf("Messages: %d  Tokens: %d  Truncated: %t\n",
		len(mc.Messages), mc.TotalTokens, mc.Truncated)
	return nil
}

// loadHistory reads prior messages from a JSON file, if one was given.
func loadHistory(path string) ([]domain.Message, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var raw []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}

	messages := make([]domain.Message, 0, len(raw))
	for _, m := range raw {
		messages = append(messages, domain.Message{
			Role:    domain.Role(m.Role),
			Content: m.Content,
		})
	}
	return messages, nil
}
