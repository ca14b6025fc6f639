package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FeuRenard/mygpo-go/internal/config"
	"github.com/FeuRenard/mygpo-go/internal/store"
	"github.com/FeuRenard/mygpo-go/internal/syncer"
	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

var (
	syncDevice    string
	syncAdd       []string
	syncRemove    []string
	syncFullFetch bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize subscriptions with gpodder.net",
	Long: `Synchronize the configured device with gpodder.net.

Without flags, sync pulls the subscription changes made elsewhere since
the last run and applies them to the local list. With --add/--remove it
first pushes your delta, letting the server rewrite feed URLs into their
canonical form, then pulls.

The server-issued timestamps are stored locally, so each run only
exchanges what changed since the previous one. Use --full to discard the
local list and re-download the device's subscriptions instead.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncDevice, "device", "", "device id (defaults to the configured device)")
	syncCmd.Flags().StringArrayVar(&syncAdd, "add", nil, "feed URL to subscribe (repeatable)")
	syncCmd.Flags().StringArrayVar(&syncRemove, "remove", nil, "feed URL to unsubscribe (repeatable)")
	syncCmd.Flags().BoolVar(&syncFullFetch, "full", false, "re-download the device subscription list")

	rootCmd.AddCommand(syncCmd)
}

// newSyncer wires a Syncer from the stored configuration. The returned
// cleanup closes the local database.
func newSyncer(cfg *config.Config, deviceOverride string) (*syncer.Syncer, func(), error) {
	dev, err := newDeviceClient(cfg, deviceOverride)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(config.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local database: %w", err)
	}

	logger := setupLogger(cfg.LogLevel)
	return syncer.New(dev, st, logger), func() { st.Close() }, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sync, cleanup, err := newSyncer(cfg, syncDevice)
	if err != nil {
		return err
	}
	defer cleanup()

	if syncFullFetch {
		urls, err := sync.Refresh(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Downloaded %d subscriptions.\n", len(urls))
		return nil
	}

	if len(syncAdd) > 0 || len(syncRemove) > 0 {
		add, err := gpodder.ParseURLs(syncAdd)
		if err != nil {
			return err
		}
		remove, err := gpodder.ParseURLs(syncRemove)
		if err != nil {
			return err
		}

		result, err := sync.Push(ctx, add, remove)
		if err != nil {
			return err
		}
		for _, rewrite := range result.UpdateURLs {
			fmt.Printf("Rewritten: %s\n", rewrite)
		}
	}

	changes, err := sync.Pull(ctx)
	if err != nil {
		return err
	}

	for _, u := range changes.Add {
		fmt.Printf("+ %s\n", u)
	}
	for _, u := range changes.Remove {
		fmt.Printf("- %s\n", u)
	}
	if len(changes.Add) == 0 && len(changes.Remove) == 0 {
		fmt.Println("Already up to date.")
	}

	return nil
}
