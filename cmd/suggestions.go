package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FeuRenard/mygpo-go/internal/config"
)

var suggestionsMax int

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Show podcast suggestions for your account",
	Long: `Show podcasts gpodder.net suggests based on your subscriptions.

The server computes the suggestions from your current subscriptions, so
they change as your subscription list does.`,
	RunE: runSuggestions,
}

func init() {
	suggestionsCmd.Flags().IntVar(&suggestionsMax, "max", 10, "maximum number of suggestions")

	rootCmd.AddCommand(suggestionsCmd)
}

func runSuggestions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	suggestions, err := client.Suggestions().Retrieve(context.Background(), suggestionsMax)
	if err != nil {
		return fmt.Errorf("failed to fetch suggestions: %w", err)
	}

	if len(suggestions) == 0 {
		fmt.Println("No suggestions. Subscribe to some podcasts first.")
		return nil
	}

	for _, suggestion := range suggestions {
		fmt.Printf("%s  %s  %s\n",
			padToWidth(suggestion.Title, 40),
			padToWidth(fmt.Sprintf("%d subscribers", suggestion.Subscribers), 18),
			suggestion.URL)
	}

	return nil
}
