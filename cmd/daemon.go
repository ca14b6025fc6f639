package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/FeuRenard/mygpo-go/internal/config"
	"github.com/FeuRenard/mygpo-go/internal/daemon"
)

var daemonInterval time.Duration

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background sync daemon",
	Long: `Run the sync daemon in the foreground.

The daemon pulls subscription changes for the configured device on an
interval, so the local list stays current without running 'mygpo sync'
by hand. Use 'mygpo daemon install' to set it up as a systemd user
service.`,
	RunE: runDaemon,
}

var daemonInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the daemon as a systemd user service",
	RunE:  runDaemonInstall,
}

var daemonUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the systemd user service",
	RunE:  runDaemonUninstall,
}

func init() {
	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 30*time.Minute, "time between syncs")

	daemonCmd.AddCommand(daemonInstallCmd)
	daemonCmd.AddCommand(daemonUninstallCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sync, cleanup, err := newSyncer(cfg, "")
	if err != nil {
		return err
	}
	defer cleanup()

	d := daemon.New(sync, daemonInterval, setupLogger(cfg.LogLevel))
	return d.Run()
}

func runDaemonInstall(cmd *cobra.Command, args []string) error {
	binaryPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine binary path: %w", err)
	}
	binaryPath, err = filepath.EvalSymlinks(binaryPath)
	if err != nil {
		return fmt.Errorf("failed to resolve binary path: %w", err)
	}

	unit, err := daemon.GenerateUnit(daemon.UnitConfig{
		BinaryPath: binaryPath,
		Interval:   daemonInterval.String(),
	})
	if err != nil {
		return err
	}

	unitPath, err := daemon.GetUnitPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(unitPath), 0o755); err != nil {
		return fmt.Errorf("failed to create unit directory: %w", err)
	}
	if err := os.WriteFile(unitPath, []byte(unit), 0o644); err != nil {
		return fmt.Errorf("failed to write unit file: %w", err)
	}

	fmt.Printf("Installed %s\n", unitPath)
	fmt.Println("Enable it with:")
	fmt.Println("  systemctl --user enable --now mygpo.service")
	return nil
}

func runDaemonUninstall(cmd *cobra.Command, args []string) error {
	unitPath, err := daemon.GetUnitPath()
	if err != nil {
		return err
	}

	if err := os.Remove(unitPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No service installed.")
			return nil
		}
		return fmt.Errorf("failed to remove unit file: %w", err)
	}

	fmt.Printf("Removed %s\n", unitPath)
	fmt.Println("If the service was enabled, also run:")
	fmt.Println("  systemctl --user disable --now mygpo.service")
	return nil
}
