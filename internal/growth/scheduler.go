// Package growth drives the simulated-time loop: it seeds an initial
// population once and then, every tick, adds a proportional batch of new
// users and sign-ins before advancing the virtual clock by a day.
package growth

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/dmitrijs2005/datafaker/internal/logging"
	"github.com/dmitrijs2005/datafaker/internal/models"
	"github.com/dmitrijs2005/datafaker/internal/repositories/logs"
	"github.com/dmitrijs2005/datafaker/internal/repositories/users"
)

// Store is the part of store.Store the scheduler needs.
type Store interface {
	Users() users.Repository
	Logs() logs.Repository
	Reset(ctx context.Context) error
}

type Inserter interface {
	InsertUsers(ctx context.Context, n int) ([]string, error)
	InsertOneLog(ctx context.Context, userID string, event models.Event, success bool) (*models.Log, error)
}

// VirtualClock is the simulated calendar, see simclock.Clock.
type VirtualClock interface {
	Init()
	Increment()
	Now() time.Time
	Format() string
}

type Config struct {
	InitialUsers           int
	SignupGrowthPercentage float64
	SigninPercentage       float64
	TickInterval           time.Duration
	// MaxTicks stops Run after that many ticks; 0 means no limit.
	MaxTicks    int
	Concurrency int
}

type Scheduler struct {
	store    Store
	inserter Inserter
	vclock   VirtualClock
	cfg      Config
	logger   logging.Logger

	// clock measures real elapsed time; injected so tests can fake it.
	clock     clock.Clock
	sleep     func(ctx context.Context, d time.Duration) error
	rnd       *rand.Rand
	out       io.Writer
	observers []TickObserver
	onReady   func()
}

type Option func(*Scheduler)

func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithSleep replaces the wait between ticks.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Scheduler) { s.sleep = fn }
}

// WithRand sets the source used to pick sign-in targets.
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) { s.rnd = r }
}

// WithOutput sets where the per-tick summary line is printed.
func WithOutput(w io.Writer) Option {
	return func(s *Scheduler) { s.out = w }
}

func WithObservers(obs ...TickObserver) Option {
	return func(s *Scheduler) { s.observers = append(s.observers, obs...) }
}

// WithReadyHook registers fn to run once the initial population is in place.
func WithReadyHook(fn func()) Option {
	return func(s *Scheduler) { s.onReady = fn }
}

func New(st Store, ins Inserter, vclock VirtualClock, cfg Config, logger logging.Logger, opts ...Option) *Scheduler {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	s := &Scheduler{
		store:    st,
		inserter: ins,
		vclock:   vclock,
		cfg:      cfg,
		logger:   logger.With("module", "growth"),
		clock:    clock.RealClock{},
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sleep == nil {
		s.sleep = s.timerSleep
	}
	return s
}

// Bootstrap starts the virtual clock, wipes the store and inserts the
// initial population.
func (s *Scheduler) Bootstrap(ctx context.Context) error {
	s.vclock.Init()

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}

	if _, err := s.inserter.InsertUsers(ctx, s.cfg.InitialUsers); err != nil {
		return fmt.Errorf("insert initial users: %w", err)
	}

	s.logger.Info(ctx, "initial population created",
		"users", s.cfg.InitialUsers, "date", s.vclock.Format())
	return nil
}

// Run bootstraps and then ticks until ctx is done, MaxTicks is reached or a
// tick fails. A cancelled context is reported as ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if s.onReady != nil {
		s.onReady()
	}

	for tick := 1; ; tick++ {
		started := s.clock.Now()

		report, err := s.Tick(ctx)
		if err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
		report.Elapsed = s.clock.Since(started)

		for _, o := range s.observers {
			o.ObserveTick(ctx, *report)
		}

		if s.cfg.MaxTicks > 0 && tick >= s.cfg.MaxTicks {
			s.logger.Info(ctx, "tick limit reached", "ticks", tick)
			return nil
		}

		// observers run on the loop, so their time counts against the interval
		if err := s.sleep(ctx, NextDelay(s.cfg.TickInterval, s.clock.Since(started))); err != nil {
			return err
		}
	}
}

// Tick simulates one day. Sign-in targets are chosen among the users that
// existed when the tick started, so users created in this tick are never
// picked.
func (s *Scheduler) Tick(ctx context.Context) (*TickReport, error) {
	u, err := s.store.Users().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	l, err := s.store.Logs().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}

	report := &TickReport{Date: s.vclock.Now(), Users: u, Signins: l}
	fmt.Fprintf(s.out, "%s Users: %d, Signins: %d\n", s.vclock.Format(), u, l)

	targets, err := s.pickSigninTargets(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("pick sign-in targets: %w", err)
	}

	report.NewUsers = NewUsersCount(u, s.cfg.SignupGrowthPercentage)
	if _, err := s.inserter.InsertUsers(ctx, report.NewUsers); err != nil {
		return nil, fmt.Errorf("insert new users: %w", err)
	}

	if err := s.insertSignins(ctx, targets); err != nil {
		return nil, fmt.Errorf("insert sign-ins: %w", err)
	}
	report.NewSignins = len(targets)

	s.vclock.Increment()

	s.logger.Debug(ctx, "tick done",
		"date", report.Date, "users", u, "signins", l,
		"new_users", report.NewUsers, "new_signins", report.NewSignins)
	return report, nil
}

// pickSigninTargets draws uniform offsets in [0, u) and resolves them to ids.
// Offsets are drawn up front so the random source stays on this goroutine.
func (s *Scheduler) pickSigninTargets(ctx context.Context, u int64) ([]string, error) {
	n := SigninsCount(u, s.cfg.SigninPercentage)
	if n == 0 {
		return nil, nil
	}

	offsets := make([]int64, n)
	for k := range offsets {
		offsets[k] = s.rnd.Int64N(u)
	}

	repo := s.store.Users()
	ids := make([]string, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for k, off := range offsets {
		g.Go(func() error {
			id, err := repo.FindIDAt(gctx, off)
			if err != nil {
				return fmt.Errorf("user at offset %d: %w", off, err)
			}
			ids[k] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Scheduler) insertSignins(ctx context.Context, ids []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, id := range ids {
		g.Go(func() error {
			_, err := s.inserter.InsertOneLog(gctx, id, models.EventSignIn, true)
			return err
		})
	}
	return g.Wait()
}

func (s *Scheduler) timerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := s.clock.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C():
		return nil
	}
}
