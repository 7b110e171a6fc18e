package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driving"
)

var (
	askCategory string
	askK        int
	askExpand   bool
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the indexed corpus",
	Long: `Retrieves the most relevant chunks for the question, composes an
answer from them and prints it with citations back to the source
documents, including the pages to highlight.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCategory, "category", "c", "", "restrict retrieval to one category")
	askCmd.Flags().IntVarP(&askK, "top", "k", 0, "number of chunks to retrieve (default 4)")
	askCmd.Flags().BoolVar(&askExpand, "expand", false, "expand the question into multiple search queries")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		if err := ensureAsk(); err != nil {
			return err
		}
		defer closeServices()
	}

	answer, err := askService.Ask(cmd.Context(), args[0], driving.AskOptions{
		Category: askCategory,
		K:        askK,
		Expand:   askExpand,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Println("Sources:")
	for i, c := range answer.Citations {
		location := c.Filename
		if c.Folder != "" {
			location = c.Folder + "/" + c.Filename
		}
		cmd.Printf("  [%d] %s", i+1, location)
		if len(c.Regions) > 0 {
			cmd.Printf(" (page %s)", pageList(c.Regions))
		}
		cmd.Println()
		if c.Snippet != "" {
			cmd.Printf("      %s\n", c.Snippet)
		}
	}
	return nil
}

// pageList renders the distinct pages of the regions, e.g. "3" or "3-4".
func pageList(regions []domain.HighlightRegion) string {
	first := regions[0].Page
	last := regions[len(regions)-1].Page
	if first == last {
		return fmt.Sprintf("%d", first)
	}
	return fmt.Sprintf("%d-%d", first, last)
}
