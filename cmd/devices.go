package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FeuRenard/mygpo-go/internal/config"
	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

var (
	devicesUpdateCaption string
	devicesUpdateType    string
	devicesUpdateDevice  string
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the devices of your account",
	Long: `List all devices registered on your gpodder.net account, with their
captions, types and subscription counts.`,
	RunE: runDevicesList,
}

var devicesUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the caption or type of a device",
	Long: `Update the display metadata of a device.

Only the fields you pass are sent to the server; anything left out keeps
its current value. Valid types are desktop, laptop, mobile, server and
other.`,
	RunE: runDevicesUpdate,
}

func init() {
	devicesUpdateCmd.Flags().StringVar(&devicesUpdateCaption, "caption", "", "new human readable label")
	devicesUpdateCmd.Flags().StringVar(&devicesUpdateType, "type", "", "new device type (desktop|laptop|mobile|server|other)")
	devicesUpdateCmd.Flags().StringVar(&devicesUpdateDevice, "device", "", "device id (defaults to the configured device)")

	devicesCmd.AddCommand(devicesUpdateCmd)
	rootCmd.AddCommand(devicesCmd)
}

func runDevicesList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	devices, err := client.Devices().List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices registered.")
		return nil
	}

	for _, device := range devices {
		marker := " "
		if device.ID == cfg.Account.DeviceID {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s  %d subscriptions\n",
			marker,
			padToWidth(device.ID, 28),
			padToWidth(device.Type.String(), 7),
			padToWidth(device.Caption, 32),
			device.Subscriptions)
	}

	return nil
}

func runDevicesUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dev, err := newDeviceClient(cfg, devicesUpdateDevice)
	if err != nil {
		return err
	}

	var data gpodder.DeviceData
	if devicesUpdateCaption != "" {
		data.Caption = gpodder.Ptr(devicesUpdateCaption)
	}
	if devicesUpdateType != "" {
		deviceType := gpodder.DeviceType(devicesUpdateType)
		if !deviceType.Valid() {
			return fmt.Errorf("invalid device type %q", devicesUpdateType)
		}
		data.Type = gpodder.Ptr(deviceType)
	}
	if data.Caption == nil && data.Type == nil {
		return fmt.Errorf("nothing to update, pass --caption or --type")
	}

	if err := dev.UpdateData(context.Background(), data); err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}

	fmt.Printf("Device %q updated.\n", dev.ID())
	return nil
}
