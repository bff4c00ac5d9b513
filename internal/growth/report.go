package growth

import (
	"context"
	"time"
)

// TickReport summarises one simulated day. Users and Signins are the totals
// read at the start of the tick, before NewUsers and NewSignins were added.
type TickReport struct {
	Date       time.Time
	Users      int64
	Signins    int64
	NewUsers   int
	NewSignins int
	Elapsed    time.Duration
}

// TickObserver is notified after every successful tick. Implementations must
// not block the loop for long and handle their own errors.
type TickObserver interface {
	ObserveTick(ctx context.Context, r TickReport)
}

// ObserverFunc adapts a function to TickObserver.
type ObserverFunc func(ctx context.Context, r TickReport)

func (f ObserverFunc) ObserveTick(ctx context.Context, r TickReport) {
	f(ctx, r)
}
