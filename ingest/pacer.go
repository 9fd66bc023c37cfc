package ingest

import (
	"context"
	"math/rand"
	"time"
)

// Pacer spaces network requests with a randomized delay so a run never hits
// a shop at a fixed rhythm.
type Pacer struct {
	min time.Duration
	max time.Duration
	rng *rand.Rand
}

// NewPacer creates a pacer sleeping between minMs and maxMs milliseconds.
func NewPacer(minMs, maxMs int) *Pacer {
	if minMs < 0 {
		minMs = 0
	}
	if maxMs < minMs {
		maxMs = minMs
	}
	return &Pacer{
		min: time.Duration(minMs) * time.Millisecond,
		max: time.Duration(maxMs) * time.Millisecond,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404
	}
}

// Wait sleeps for a random duration in the pacer's range, returning early
// when the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.min
	if span := p.max - p.min; span > 0 {
		d += time.Duration(p.rng.Int63n(int64(span) + 1))
	}
	return sleepCtx(ctx, d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
