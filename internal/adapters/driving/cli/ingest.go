package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest files into the folder scope",
	Long: `Reads each file, stores it in the folder scope, and runs the
chunk/embed/index pipeline so the content becomes searchable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var ingestType string

func init() {
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "", "Document type (text, code, markdown, json, url, pdf); inferred from extension when empty")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		docType := domain.DocumentType(ingestType)
		if ingestType == "" {
			docType = inferDocumentType(path)
		}

		doc, err := documentService.AddDocument(ctx, driving.AddDocumentInput{
			Scope:   scope,
			Name:    filepath.Base(path),
			Type:    docType,
			Content: string(data),
			Metadata: domain.DocumentMeta{
				Source: path,
			},
		})
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		cmd.Printf("Ingested %s as %s (%d bytes)\n", path, doc.ID, doc.Size)
	}

	// Let the background pipelines finish before the process exits.
	documentService.Wait()
	cmd.Printf("Done. %d file(s) ingested into %s.\n", len(args), scope)
	return nil
}

// inferDocumentType maps a file extension to a document type.
func inferDocumentType(path string) domain.DocumentType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return domain.DocumentTypeMarkdown
	case ".json":
		return domain.DocumentTypeJSON
	case ".pdf":
		return domain.DocumentTypePDF
	case ".go", ".py", ".js", ".ts", ".rs", ".java", ".c", ".h", ".sh":
		return domain.DocumentTypeCode
	default:
		return domain.DocumentTypeText
	}
}
