package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arbor-labs/folderctx/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest changed files",
	Long: `Watches a directory and ingests files into the folder scope as they
are created or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	scope, err := currentScope()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(documentService, scope, inferDocumentType)

	cmd.Printf("Watching %s for %s (Ctrl+C to stop)\n", args[0], scope)
	if err := watcher.Run(ctx, args[0]); err != nil && ctx.Err() == nil {
		return err
	}

	// Let in-flight pipelines finish before exit.
	documentService.Wait()
	return nil
}
