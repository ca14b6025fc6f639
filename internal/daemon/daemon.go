// Package daemon runs the periodic background sync: it pulls the
// subscription changes for the configured device on an interval so the
// local list stays current without the user running sync by hand.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

// Puller pulls one round of subscription changes and applies them
// locally. Satisfied by syncer.Syncer.
type Puller interface {
	Pull(ctx context.Context) (*gpodder.SubscriptionChanges, error)
}

// Daemon pulls subscription changes at regular intervals
type Daemon struct {
	sync     Puller
	interval time.Duration
	logger   zerolog.Logger
}

// New creates a new Daemon instance
func New(sync Puller, interval time.Duration, logger zerolog.Logger) *Daemon {
	return &Daemon{
		sync:     sync,
		interval: interval,
		logger:   logger.With().Str("component", "daemon").Logger(),
	}
}

// Run starts the daemon and blocks until a shutdown signal is received
func (d *Daemon) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Handle first signal gracefully, second signal forces exit
	go func() {
		<-sigChan
		d.logger.Info().Msg("Shutdown signal received, initiating graceful shutdown")
		cancel()

		// Second signal forces exit
		<-sigChan
		d.logger.Warn().Msg("Second shutdown signal received, forcing exit")
		os.Exit(1)
	}()

	if err := d.run(ctx); err != nil && err != context.Canceled {
		return err
	}

	return nil
}

// run is the main daemon loop. It syncs immediately on start and then
// once per interval. Sync errors are logged and retried on the next
// tick; the service may simply be unreachable for a while.
func (d *Daemon) run(ctx context.Context) error {
	d.logger.Info().Dur("interval", d.interval).Msg("Starting daemon")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.pull(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("Daemon stopped")
			return ctx.Err()
		case <-ticker.C:
			d.pull(ctx)
		}
	}
}

// pull runs a single sync round
func (d *Daemon) pull(ctx context.Context) {
	changes, err := d.sync.Pull(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		d.logger.Warn().Err(err).Msg("Sync failed")
		return
	}

	if len(changes.Add) > 0 || len(changes.Remove) > 0 {
		d.logger.Info().
			Int("added", len(changes.Add)).
			Int("removed", len(changes.Remove)).
			Msg("Applied subscription changes")
	}
}
