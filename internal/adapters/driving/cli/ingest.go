package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Ingest a corpus directory into the index",
	Long: `Reads every supported document under the directory, chunks and
embeds the text and stores the results in the local vector index.
The first folder level below the directory becomes each document's
category. Re-running ingest updates changed documents in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureIngestor(); err != nil {
		return err
	}
	defer closeServices()

	report, err := ingestService.IngestDir(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d documents (%d chunks)\n", report.Documents, report.Chunks)
	if report.Failed > 0 {
		cmd.Printf("Failed: %d (run with --verbose for details)\n", report.Failed)
	}
	if report.Skipped > 0 {
		cmd.Printf("Skipped %d unsupported files\n", report.Skipped)
	}
	return nil
}
