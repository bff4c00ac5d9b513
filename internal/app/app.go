// Package app wires configuration, the store connection, the virtual clock,
// the inserter and the growth scheduler into one runnable process, together
// with the optional health, metrics and report sinks.
package app

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"k8s.io/utils/clock"

	"github.com/dmitrijs2005/datafaker/internal/bootstrap"
	"github.com/dmitrijs2005/datafaker/internal/config"
	"github.com/dmitrijs2005/datafaker/internal/growth"
	"github.com/dmitrijs2005/datafaker/internal/health"
	"github.com/dmitrijs2005/datafaker/internal/logging"
	"github.com/dmitrijs2005/datafaker/internal/metrics"
	"github.com/dmitrijs2005/datafaker/internal/reports"
	"github.com/dmitrijs2005/datafaker/internal/seeder"
	"github.com/dmitrijs2005/datafaker/internal/simclock"
	"github.com/dmitrijs2005/datafaker/internal/store"
)

type App struct {
	config *config.Config
	logger logging.Logger
	runID  string

	// seams, replaced in tests
	out     io.Writer
	clock   clock.Clock
	open    bootstrap.Opener
	sleep   func(ctx context.Context, d time.Duration) error
	backoff func(retry.Backoff) retry.Backoff
}

func NewApp(c *config.Config) (*App, error) {
	l, err := logging.New(os.Stderr, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()

	return &App{
		config: c,
		logger: l.With("run_id", runID),
		runID:  runID,
		out:    os.Stdout,
		clock:  clock.RealClock{},
		open: func(ctx context.Context) (store.Store, error) {
			return store.Open(ctx, c)
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run blocks until the scheduler stops. It returns nil on a signal or when
// the tick limit is reached, and the scheduler error otherwise.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stopSignals := app.initSignalHandler(cancelFunc)
	defer stopSignals()

	app.logger.Info(ctx, "Starting datafaker...",
		"backend", app.config.Backend, "tick_interval", app.config.TickInterval.String())

	var wg sync.WaitGroup

	var recorder *metrics.Recorder
	if app.config.MetricsAddr != "" {
		recorder = metrics.NewRecorder()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := recorder.Serve(ctx, app.config.MetricsAddr, app.logger); err != nil {
				app.logger.Error(ctx, "metrics server failed", "error", err)
			}
		}()
	}

	var hs *health.Server
	if app.config.HealthAddr != "" {
		hs = health.New(app.config.HealthAddr, app.logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := hs.Run(ctx); err != nil {
				app.logger.Error(ctx, "health server failed", "error", err)
			}
		}()
	}

	err := app.generate(ctx, recorder, hs)
	if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
		err = nil
	}

	cancelFunc()
	wg.Wait()

	if err != nil {
		app.logger.Error(ctx, "generator stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "datafaker stopped")
	return nil
}

func (app *App) generate(ctx context.Context, recorder *metrics.Recorder, hs *health.Server) error {
	cfg := app.config

	var bootOpts []bootstrap.Option
	if recorder != nil {
		bootOpts = append(bootOpts, bootstrap.WithFailureHook(recorder.ObserveReconnect))
	}
	if app.backoff != nil {
		bootOpts = append(bootOpts, bootstrap.WithBackoffMiddleware(app.backoff))
	}

	st, err := bootstrap.New(app.open, cfg.ReconnectDelay, app.logger, bootOpts...).Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			app.logger.Warn(ctx, "failed to close store", "error", err)
		}
	}()

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	app.logger.Debug(ctx, "random seed", "seed", seed)

	vclock := simclock.New(app.clock)
	ins := seeder.NewInserter(st.Users(), st.Logs(), vclock,
		seeder.WithFaker(gofakeit.New(seed)),
		seeder.WithConcurrency(cfg.Concurrency),
		seeder.WithPasswordHashing(cfg.HashPasswords))

	opts := []growth.Option{
		growth.WithClock(app.clock),
		growth.WithRand(rand.New(rand.NewPCG(seed, seed>>1|1))),
		growth.WithOutput(app.out),
		growth.WithObservers(app.observers(ctx, recorder)...),
		growth.WithReadyHook(func() {
			if hs != nil {
				hs.SetReady()
			}
			app.logger.Info(ctx, "initial population ready")
		}),
	}
	if app.sleep != nil {
		opts = append(opts, growth.WithSleep(app.sleep))
	}

	scheduler := growth.New(st, ins, vclock, growth.Config{
		InitialUsers:           cfg.InitialUsers,
		SignupGrowthPercentage: cfg.SignupGrowthPercentage,
		SigninPercentage:       cfg.SigninPercentage,
		TickInterval:           cfg.TickInterval,
		MaxTicks:               cfg.MaxTicks,
		Concurrency:            cfg.Concurrency,
	}, app.logger, opts...)

	return scheduler.Run(ctx)
}

func (app *App) observers(ctx context.Context, recorder *metrics.Recorder) []growth.TickObserver {
	var obs []growth.TickObserver
	if recorder != nil {
		obs = append(obs, recorder)
	}

	if app.config.S3Enabled() {
		client, err := reports.NewS3Client(ctx, reports.S3Settings{
			Region:       app.config.S3Region,
			BaseEndpoint: app.config.S3BaseEndpoint,
			AccessKey:    app.config.S3RootUser,
			SecretKey:    app.config.S3RootPassword,
		})
		if err != nil {
			app.logger.Warn(ctx, "report archiving disabled", "error", err)
		} else {
			obs = append(obs, reports.NewArchiver(client, app.config.S3Bucket, app.runID, app.logger))
		}
	}

	return obs
}
