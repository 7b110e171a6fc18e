// Package cli implements the lexrag command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/blugen-labs/lexrag/internal/core/ports/driving"
	"github.com/blugen-labs/lexrag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose bool
	dataDir string
)

// Services wired on demand by ensureServices. Package-level so tests
// can substitute mocks.
var (
	askService    driving.AskService
	ingestService driving.Ingestor
)

var rootCmd = &cobra.Command{
	Use:   "lexrag",
	Short: "Question answering over a local legal document corpus",
	Long: `Lexrag ingests a directory of legal documents, builds a local
vector index over their chunks and answers questions against it with
source citations down to the page.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.lexrag)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	version = v
}
