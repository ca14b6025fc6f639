package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FeuRenard/mygpo-go/internal/config"
	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mygpo",
	Short: "Synchronize podcast subscriptions with gpodder.net",
	Long: `mygpo is a command line client for the gpodder.net podcast
subscription synchronization service.

It manages devices, subscription lists, subscription deltas and podcast
suggestions for a gpodder.net account. Sync state (the server-issued
timestamps and the local subscription list) is kept in a local database
so successive syncs only exchange deltas.

Run 'mygpo login' first to store your account credentials and pick a
device identifier for this machine.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newClient builds an SDK client from the stored configuration.
func newClient(cfg *config.Config) (*gpodder.Client, error) {
	if cfg.Account.Username == "" || cfg.Account.Password == "" {
		return nil, fmt.Errorf("no credentials configured, run 'mygpo login' first")
	}
	return gpodder.NewClient(gpodder.Config{
		Username: cfg.Account.Username,
		Password: cfg.Account.Password,
		BaseURL:  cfg.Server,
		Logger:   sdkLogger{logger: setupLogger(cfg.LogLevel)},
	})
}

// newDeviceClient builds a device-scoped SDK client from the stored
// configuration, preferring an explicit override over the configured
// device id.
func newDeviceClient(cfg *config.Config, override string) (*gpodder.DeviceClient, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	deviceID := cfg.Account.DeviceID
	if override != "" {
		deviceID = override
	}
	if deviceID == "" {
		return nil, fmt.Errorf("no device configured, run 'mygpo login' or pass --device")
	}
	return client.Device(deviceID)
}
