package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FeuRenard/mygpo-go/internal/config"
	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with gpodder.net",
	Long: `Authenticate with gpodder.net and register this client as a device.

This command will guide you through the setup:
1. You'll be prompted for your gpodder.net username and password
2. The credentials are verified against the service
3. You'll pick a device identifier for this machine
4. Everything is saved to your config file

You can create an account at: https://gpodder.net/register/`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	// Load existing config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("gpodder.net Authentication")
	fmt.Println("==========================")
	fmt.Println()

	// Check if we already have credentials
	if cfg.Account.Username != "" && cfg.Account.Password != "" {
		fmt.Printf("Found existing credentials for %s.\n", cfg.Account.Username)
		fmt.Print("\nUse existing credentials? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			cfg.Account.Username = ""
			cfg.Account.Password = ""
		}
	}

	// Prompt for username if not set
	if cfg.Account.Username == "" {
		fmt.Print("Enter your gpodder.net username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		cfg.Account.Username = strings.TrimSpace(username)
	}

	// Prompt for password if not set
	if cfg.Account.Password == "" {
		fmt.Print("Enter your gpodder.net password: ")
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		cfg.Account.Password = strings.TrimSpace(password)
	}

	// Validate inputs
	if cfg.Account.Username == "" || cfg.Account.Password == "" {
		return fmt.Errorf("username and password are required")
	}

	// Verify the credentials with a real request
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	fmt.Println("\nVerifying credentials...")
	devices, err := client.Devices().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify credentials: %w", err)
	}

	if len(devices) > 0 {
		fmt.Println("\nDevices already registered on this account:")
		for _, device := range devices {
			fmt.Printf("  %s\n", device)
		}
		fmt.Println("\nDo not reuse an existing device id unless this is the same client;")
		fmt.Println("shared ids overwrite each other's subscriptions.")
	}

	// Pick a device identifier for this machine
	if cfg.Account.DeviceID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		suggested := fmt.Sprintf("mygpo.%s", hostname)

		fmt.Printf("\nEnter a device id for this machine [%s]: ", suggested)
		deviceID, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read device id: %w", err)
		}
		deviceID = strings.TrimSpace(deviceID)
		if deviceID == "" {
			deviceID = suggested
		}
		cfg.Account.DeviceID = deviceID
	}

	// Make sure the id is acceptable before storing it
	dev, err := client.Device(cfg.Account.DeviceID)
	if err != nil {
		return err
	}

	// Register the device with a caption so it shows up named on the site
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "this machine"
	}
	data := gpodder.DeviceData{
		Caption: gpodder.Ptr(fmt.Sprintf("mygpo on %s", hostname)),
		Type:    gpodder.Ptr(gpodder.DeviceTypeDesktop),
	}
	if err := dev.UpdateData(ctx, data); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}

	// Save everything
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath := config.GetConfigDir()
	fmt.Printf("\n✓ Authentication successful!\n")
	fmt.Printf("✓ Device %q registered\n", cfg.Account.DeviceID)
	fmt.Printf("✓ Configuration saved to %s/config.yaml\n", configPath)
	fmt.Println("\nYou can now use 'mygpo sync' to synchronize subscriptions.")

	return nil
}
