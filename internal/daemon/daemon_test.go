package daemon

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

type fakePuller struct {
	calls atomic.Int64
	err   error
}

func (f *fakePuller) Pull(ctx context.Context) (*gpodder.SubscriptionChanges, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &gpodder.SubscriptionChanges{Timestamp: gpodder.Timestamp(f.calls.Load())}, nil
}

func TestDaemonPullsOnStartAndInterval(t *testing.T) {
	puller := &fakePuller{}
	d := New(puller, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.run(ctx)
	}()

	deadline := time.After(time.Second)
	for puller.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 pulls, got %d", puller.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDaemonKeepsRunningOnPullError(t *testing.T) {
	puller := &fakePuller{err: errors.New("service unavailable")}
	d := New(puller, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.run(ctx)
	}()

	deadline := time.After(time.Second)
	for puller.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected retries after error, got %d pulls", puller.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestGenerateUnit(t *testing.T) {
	unit, err := GenerateUnit(UnitConfig{
		BinaryPath: "/usr/local/bin/mygpo",
		Interval:   "30m",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"ExecStart=/usr/local/bin/mygpo daemon --interval 30m",
		"Restart=on-failure",
		"WantedBy=default.target",
	} {
		if !strings.Contains(unit, want) {
			t.Errorf("unit file missing %q:\n%s", want, unit)
		}
	}
}
