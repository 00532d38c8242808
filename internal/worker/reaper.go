// Package worker hosts background processes that keep the booking
// tables healthy.  The expiry reaper is the mechanism that releases
// slots held by abandoned checkouts: neither the hold nor the
// confirmation transaction expires stale rows it merely observes.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/clientxce/Pick-a-Padel/internal/clock"
)

// ExpirerStore releases stale holds due at the given instant and
// reports how many rows were flipped.  *repository.BookingRepo is
// the MySQL implementation.
type ExpirerStore interface {
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// ExpiryReaper periodically transitions HOLD bookings whose expiry
// timestamp has passed into EXPIRED, releasing their slots.
type ExpiryReaper struct {
	bookings ExpirerStore
	clock    clock.Clock
	interval time.Duration
}

// NewExpiryReaper builds a reaper sweeping at the given interval.
func NewExpiryReaper(bookings ExpirerStore, clk clock.Clock, interval time.Duration) *ExpiryReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpiryReaper{bookings: bookings, clock: clk, interval: interval}
}

// Run sweeps until ctx is cancelled.  Errors are logged and the
// loop continues; a failed sweep is retried at the next tick.
func (r *ExpiryReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Println("expiry reaper started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.sweep(ctx); err != nil {
				log.Printf("expiry reaper sweep failed: %v", err)
			}
		}
	}
}

func (r *ExpiryReaper) sweep(ctx context.Context) error {
	n, err := r.bookings.ExpireDue(ctx, r.clock.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("expiry reaper released %d stale holds", n)
	}
	return nil
}
