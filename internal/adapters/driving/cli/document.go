package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents in a folder scope",
	Long:  `List, view, or delete the documents a folder scope holds.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the folder scope",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its derived data",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the folder's knowledge graph summary",
	Args:  cobra.NoArgs,
	RunE:  runDocumentGraph,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentGraphCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	docs, err := documentService.GetDocuments(context.Background(), scope)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents in %s\n", scope)
		return nil
	}

	cmd.Printf("Documents in %s:\n\n", scope)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name: %s (%s, %d bytes)\n", docs[i].Name, docs[i].Type, docs[i].Size)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	doc, err := documentService.GetDocument(context.Background(), scope, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:     %s\n", doc.Name)
	cmd.Printf("  Type:     %s\n", doc.Type)
	cmd.Printf("  Size:     %d bytes\n", doc.Size)
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if doc.Metadata.Source != "" {
		cmd.Printf("  Source:   %s\n", doc.Metadata.Source)
	}
	if len(doc.Metadata.Extra) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range doc.Metadata.Extra {
			cmd.Printf("    %s: %s\n", k, v)
		}
	}

	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	if err := documentService.DeleteDocument(context.Background(), scope, args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted from %s.\n", args[0], scope)
	return nil
}

func runDocumentGraph(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	stats, err := documentService.Stats(context.Background(), scope)
	if err != nil {
		return fmt.Errorf("failed to get graph stats: %w", err)
	}

	cmd.Printf("Knowledge graph for %s:\n", scope)
	cmd.Printf("  Nodes: %d\n", stats.GraphNodes)
	cmd.Printf("  Edges: %d\n", stats.GraphEdges)
	return nil
}
