package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/blugen-labs/lexrag/internal/core/services"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage API credentials",
	Long: `Store and inspect the API key used for the embedding and generation
services.

Keys set via environment variables take precedence over the stored one:
LEXRAG_API_KEY first, then the provider's own variable (GEMINI_API_KEY,
OPENAI_API_KEY).

Examples:
  # Store the key for the configured provider (prompts without echo)
  lexrag auth set

  # Store the key for a specific provider
  lexrag auth set openai

  # Show where the active key comes from
  lexrag auth status`,
}

var authSetCmd = &cobra.Command{
	Use:   "set [provider]",
	Short: "Store the API key for a provider",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential status for the configured provider",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	p := provider()
	if len(args) == 1 {
		p = args[0]
	}

	cmd.Printf("API key for %s (input hidden): ", p)
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("read API key: %w", err)
	}

	if err := credResolver.Store(p, string(key)); err != nil {
		return err
	}

	cmd.Printf("Stored API key for %s in %s\n", p, configStore.Path())
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	p := provider()
	cmd.Printf("Provider: %s\n", p)

	if key := os.Getenv(services.EnvAPIKey); key != "" {
		cmd.Printf("API key: set via %s\n", services.EnvAPIKey)
		return nil
	}

	_, err := credResolver.Resolve(p)
	if err != nil {
		cmd.Println("API key: not configured")
		cmd.Printf("Set %s or run 'lexrag auth set'\n", services.EnvAPIKey)
		return nil
	}

	cmd.Println("API key: configured")
	return nil
}
