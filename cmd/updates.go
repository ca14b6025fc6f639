package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FeuRenard/mygpo-go/internal/config"
	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

var (
	updatesDevice   string
	updatesSince    int64
	updatesEpisodes bool
)

var updatesCmd = &cobra.Command{
	Use:   "updates",
	Short: "Show new, changed and removed podcasts for a device",
	Long: `Show the combined device updates gpodder.net computed since a given
timestamp: newly subscribed podcasts with their metadata, unsubscribed
feed URLs and, with --episodes, updated episodes.

Pass the timestamp printed by the previous run as --since to only see
what changed in between.`,
	RunE: runUpdates,
}

func init() {
	updatesCmd.Flags().StringVar(&updatesDevice, "device", "", "device id (defaults to the configured device)")
	updatesCmd.Flags().Int64Var(&updatesSince, "since", 0, "timestamp of the previous run")
	updatesCmd.Flags().BoolVar(&updatesEpisodes, "episodes", false, "include updated episodes")

	rootCmd.AddCommand(updatesCmd)
}

func runUpdates(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dev, err := newDeviceClient(cfg, updatesDevice)
	if err != nil {
		return err
	}

	updates, err := dev.Updates(context.Background(), gpodder.Timestamp(updatesSince), updatesEpisodes)
	if err != nil {
		return fmt.Errorf("failed to fetch device updates: %w", err)
	}

	for _, podcast := range updates.Add {
		fmt.Printf("+ %s  %s\n", padToWidth(podcast.Title, 40), podcast.URL)
	}
	for _, u := range updates.Remove {
		fmt.Printf("- %s\n", u)
	}
	for _, episode := range updates.Updates {
		status := episode.Status.String()
		if status == "" {
			status = "updated"
		}
		fmt.Printf("  %s  %s  %s\n",
			padToWidth(status, 10),
			padToWidth(episode.Title, 40),
			episode.URL)
	}

	fmt.Printf("\nTimestamp: %s (pass as --since next time)\n", updates.Timestamp)
	return nil
}
