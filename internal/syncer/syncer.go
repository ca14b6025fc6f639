// Package syncer drives subscription synchronization for one device:
// it pairs the gpodder.net client with the local store, so the opaque
// timestamps and URL rewrites the server issues are persisted and
// replayed the way the protocol requires.
package syncer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/FeuRenard/mygpo-go/internal/store"
	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

// Syncer synchronizes one device's subscription list
type Syncer struct {
	dev    *gpodder.DeviceClient
	store  *store.Store
	logger zerolog.Logger
}

// New creates a Syncer for the given device
func New(dev *gpodder.DeviceClient, st *store.Store, logger zerolog.Logger) *Syncer {
	return &Syncer{
		dev:    dev,
		store:  st,
		logger: logger.With().Str("component", "syncer").Str("device", dev.ID()).Logger(),
	}
}

// Pull fetches the subscription delta since the last stored timestamp,
// applies it to the local list and persists the new timestamp for the
// next call.
func (s *Syncer) Pull(ctx context.Context) (*gpodder.SubscriptionChanges, error) {
	since, err := s.store.Since(ctx, s.dev.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load sync state: %w", err)
	}

	s.logger.Debug().Int64("since", int64(since)).Msg("Pulling subscription changes")

	changes, err := s.dev.Changes(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription changes: %w", err)
	}

	err = s.store.Apply(ctx, s.dev.ID(),
		gpodder.URLStrings(changes.Add), gpodder.URLStrings(changes.Remove))
	if err != nil {
		return nil, fmt.Errorf("failed to apply subscription changes: %w", err)
	}

	if err := s.store.SetSince(ctx, s.dev.ID(), changes.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to store sync state: %w", err)
	}

	s.logger.Info().
		Int("added", len(changes.Add)).
		Int("removed", len(changes.Remove)).
		Int64("timestamp", int64(changes.Timestamp)).
		Msg("Pulled subscription changes")

	return changes, nil
}

// Push uploads a local subscription delta, applies the server's URL
// rewrites to the local list and persists the returned timestamp.
func (s *Syncer) Push(ctx context.Context, add, remove []gpodder.URL) (*gpodder.UploadChangesResult, error) {
	result, err := s.dev.UploadChanges(ctx, add, remove)
	if err != nil {
		return nil, fmt.Errorf("failed to upload subscription changes: %w", err)
	}

	err = s.store.Apply(ctx, s.dev.ID(),
		gpodder.URLStrings(add), gpodder.URLStrings(remove))
	if err != nil {
		return nil, fmt.Errorf("failed to apply subscription changes: %w", err)
	}

	// The server only sanitizes rewritten URLs; the feed stays the same,
	// so the local copy is updated in place.
	for _, rewrite := range result.UpdateURLs {
		s.logger.Debug().
			Str("old", rewrite.Old.String()).
			Str("new", rewrite.New.String()).
			Msg("Applying URL rewrite")
		if err := s.store.Rewrite(ctx, s.dev.ID(), rewrite.Old.String(), rewrite.New.String()); err != nil {
			return nil, fmt.Errorf("failed to apply URL rewrite: %w", err)
		}
	}

	if err := s.store.SetSince(ctx, s.dev.ID(), result.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to store sync state: %w", err)
	}

	s.logger.Info().
		Int("added", len(add)).
		Int("removed", len(remove)).
		Int("rewritten", len(result.UpdateURLs)).
		Int64("timestamp", int64(result.Timestamp)).
		Msg("Pushed subscription changes")

	return result, nil
}

// Replace uploads urls as the device's full subscription snapshot and
// mirrors it locally. Any feed missing from urls is unsubscribed.
func (s *Syncer) Replace(ctx context.Context, urls []gpodder.URL) error {
	if err := s.dev.ReplaceSubscriptions(ctx, urls); err != nil {
		return fmt.Errorf("failed to replace subscriptions: %w", err)
	}

	if err := s.store.Replace(ctx, s.dev.ID(), gpodder.URLStrings(urls)); err != nil {
		return fmt.Errorf("failed to store subscriptions: %w", err)
	}

	s.logger.Info().Int("count", len(urls)).Msg("Replaced device subscriptions")
	return nil
}

// Refresh downloads the device's subscription list from the server and
// replaces the local copy with it.
func (s *Syncer) Refresh(ctx context.Context) ([]gpodder.URL, error) {
	urls, err := s.dev.Subscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	if err := s.store.Replace(ctx, s.dev.ID(), gpodder.URLStrings(urls)); err != nil {
		return nil, fmt.Errorf("failed to store subscriptions: %w", err)
	}

	s.logger.Info().Int("count", len(urls)).Msg("Refreshed device subscriptions")
	return urls, nil
}

// Local returns the locally stored subscription list of the device.
func (s *Syncer) Local(ctx context.Context) ([]string, error) {
	return s.store.Subscriptions(ctx, s.dev.ID())
}
