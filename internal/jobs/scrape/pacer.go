package scrape

import (
	"context"
	"time"
)

// DefaultDelay is the pause between consecutive catalog entries.
const DefaultDelay = 2 * time.Second

// Pacer paces consecutive entries of a batch.
type Pacer interface {
	Wait(ctx context.Context) error
}

type fixedDelay struct{ d time.Duration }

// FixedDelay waits d between entries. A non-positive d disables pacing.
func FixedDelay(d time.Duration) Pacer {
	if d <= 0 {
		return NoDelay()
	}
	return fixedDelay{d: d}
}

func (p fixedDelay) Wait(ctx context.Context) error {
	t := time.NewTimer(p.d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type noDelay struct{}

func NoDelay() Pacer { return noDelay{} }

func (noDelay) Wait(ctx context.Context) error { return ctx.Err() }
