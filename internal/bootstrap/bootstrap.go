// Package bootstrap establishes the store connection, retrying for as long
// as it takes.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/datafaker/internal/logging"
	"github.com/dmitrijs2005/datafaker/internal/store"
)

const DefaultDelay = time.Second

// Opener opens and pings a store. On failure it must not leave anything open.
type Opener func(ctx context.Context) (store.Store, error)

type Bootstrapper struct {
	open      Opener
	delay     time.Duration
	logger    logging.Logger
	wrap      func(retry.Backoff) retry.Backoff
	onFailure func(attempt int, err error)
}

type Option func(*Bootstrapper)

// WithBackoffMiddleware decorates the constant backoff, e.g. to observe or
// shorten the waits.
func WithBackoffMiddleware(fn func(retry.Backoff) retry.Backoff) Option {
	return func(b *Bootstrapper) { b.wrap = fn }
}

// WithFailureHook is called after every failed attempt.
func WithFailureHook(fn func(attempt int, err error)) Option {
	return func(b *Bootstrapper) { b.onFailure = fn }
}

func New(open Opener, delay time.Duration, logger logging.Logger, opts ...Option) *Bootstrapper {
	if delay <= 0 {
		delay = DefaultDelay
	}
	b := &Bootstrapper{
		open:   open,
		delay:  delay,
		logger: logger.With("module", "bootstrap"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Connect calls the opener until it succeeds, waiting the fixed delay between
// attempts. It only gives up when ctx is done.
func (b *Bootstrapper) Connect(ctx context.Context) (store.Store, error) {
	var backoff retry.Backoff = retry.NewConstant(b.delay)
	if b.wrap != nil {
		backoff = b.wrap(backoff)
	}

	var (
		st      store.Store
		attempt int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		s, err := b.open(ctx)
		if err != nil {
			b.logger.Warn(ctx, fmt.Sprintf("%v Trying to reconnect", err), "attempt", attempt, "delay", b.delay)
			if b.onFailure != nil {
				b.onFailure(attempt, err)
			}
			return retry.RetryableError(err)
		}
		st = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.logger.Info(ctx, "connected to store", "attempts", attempt)
	return st, nil
}
