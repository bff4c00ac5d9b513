// Package metrics publishes generator progress as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/datafaker/internal/growth"
	"github.com/dmitrijs2005/datafaker/internal/logging"
)

const namespace = "datafaker"

// Recorder owns a private registry so several instances can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	users           prometheus.Gauge
	signins         prometheus.Gauge
	ticks           prometheus.Counter
	tickDuration    prometheus.Histogram
	insertedUsers   prometheus.Counter
	insertedSignins prometheus.Counter
	reconnects      prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "users",
			Help:      "Users in the store at the start of the last tick.",
		}),
		signins: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "signins",
			Help:      "Sign-in logs in the store at the start of the last tick.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulated days processed.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock time spent processing one tick.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		insertedUsers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inserted_users_total",
			Help:      "Users inserted by ticks.",
		}),
		insertedSignins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inserted_signins_total",
			Help:      "Sampled sign-in logs inserted by ticks.",
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnect_attempts_total",
			Help:      "Failed attempts to connect to the store.",
		}),
	}

	r.registry.MustRegister(
		r.users, r.signins, r.ticks, r.tickDuration,
		r.insertedUsers, r.insertedSignins, r.reconnects,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveTick(_ context.Context, rep growth.TickReport) {
	r.users.Set(float64(rep.Users))
	r.signins.Set(float64(rep.Signins))
	r.ticks.Inc()
	r.tickDuration.Observe(rep.Elapsed.Seconds())
	r.insertedUsers.Add(float64(rep.NewUsers))
	r.insertedSignins.Add(float64(rep.NewSignins))
}

// ObserveReconnect matches bootstrap.WithFailureHook.
func (r *Recorder) ObserveReconnect(_ int, _ error) {
	r.reconnects.Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string, l logging.Logger) error {
	logger := l.With("module", "metrics_server")

	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Stopping metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Starting metrics server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
