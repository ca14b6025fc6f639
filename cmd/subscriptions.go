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

var (
	subscriptionsDevice      string
	subscriptionsReplaceFile string
)

var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Show the subscriptions of your account",
	Long: `Show all podcasts you are subscribed to, across all devices of your
gpodder.net account.`,
	RunE: runSubscriptionsAll,
}

var subscriptionsDeviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Show the subscriptions of one device",
	RunE:  runSubscriptionsDevice,
}

var subscriptionsReplaceCmd = &cobra.Command{
	Use:   "replace [url]...",
	Short: "Replace the subscription list of a device",
	Long: `Upload a full subscription snapshot for a device.

The feed URLs are taken from the arguments, or line by line from the
file given with --file (use "-" for stdin). Any feed missing from the
list is unsubscribed; an empty list empties the device.`,
	RunE: runSubscriptionsReplace,
}

func init() {
	subscriptionsDeviceCmd.Flags().StringVar(&subscriptionsDevice, "device", "", "device id (defaults to the configured device)")
	subscriptionsReplaceCmd.Flags().StringVar(&subscriptionsDevice, "device", "", "device id (defaults to the configured device)")
	subscriptionsReplaceCmd.Flags().StringVar(&subscriptionsReplaceFile, "file", "", "read feed URLs from file, one per line (\"-\" for stdin)")

	subscriptionsCmd.AddCommand(subscriptionsDeviceCmd)
	subscriptionsCmd.AddCommand(subscriptionsReplaceCmd)
	rootCmd.AddCommand(subscriptionsCmd)
}

func runSubscriptionsAll(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	podcasts, err := client.Subscriptions().All(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	if len(podcasts) == 0 {
		fmt.Println("No subscriptions.")
		return nil
	}

	for _, podcast := range podcasts {
		fmt.Printf("%s  %s  %s\n",
			padToWidth(podcast.Title, 40),
			padToWidth(fmt.Sprintf("%d subscribers", podcast.Subscribers), 18),
			podcast.URL)
	}

	return nil
}

func runSubscriptionsDevice(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dev, err := newDeviceClient(cfg, subscriptionsDevice)
	if err != nil {
		return err
	}

	urls, err := dev.Subscriptions(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	if len(urls) == 0 {
		fmt.Println("No subscriptions on this device.")
		return nil
	}
	for _, u := range urls {
		fmt.Println(u)
	}

	return nil
}

func runSubscriptionsReplace(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	raws := args
	if subscriptionsReplaceFile != "" {
		fileURLs, err := readURLLines(subscriptionsReplaceFile)
		if err != nil {
			return err
		}
		raws = append(raws, fileURLs...)
	}

	urls, err := gpodder.ParseURLs(raws)
	if err != nil {
		return err
	}

	sync, cleanup, err := newSyncer(cfg, subscriptionsDevice)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := sync.Replace(context.Background(), urls); err != nil {
		return err
	}

	fmt.Printf("Uploaded %d subscriptions.\n", len(urls))
	return nil
}

// readURLLines reads one URL per line, skipping blanks and # comments.
func readURLLines(path string) ([]string, error) {
	var file *os.File
	if path == "-" {
		file = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		file = f
	}

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return urls, nil
}
