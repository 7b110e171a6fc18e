package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and corpus statistics",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureStores(); err != nil {
		return err
	}
	defer closeServices()

	ctx := cmd.Context()
	docStore := sqliteStore.DocumentStore()

	docs, err := docStore.ListDocuments(ctx)
	if err != nil {
		return err
	}
	categories, err := docStore.ListCategories(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Documents:  %d\n", len(docs))
	cmd.Printf("Chunks:     %d\n", vectorIndex.Count())
	cmd.Printf("Dimensions: %d\n", vectorIndex.Dimension())
	cmd.Printf("Embedder:   %s\n", embedSvc.ModelName())
	if len(categories) > 0 {
		cmd.Printf("Categories: %s\n", strings.Join(categories, ", "))
	}
	return nil
}
