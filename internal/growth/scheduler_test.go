package growth

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/dmitrijs2005/datafaker/internal/logging"
	"github.com/dmitrijs2005/datafaker/internal/models"
	"github.com/dmitrijs2005/datafaker/internal/repositories/users"
	"github.com/dmitrijs2005/datafaker/internal/seeder"
	"github.com/dmitrijs2005/datafaker/internal/simclock"
	"github.com/dmitrijs2005/datafaker/internal/store"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger             { return n }

var start = time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC)

// slowInserter advances the fake clock on every user batch to simulate
// processing time.
type slowInserter struct {
	Inserter
	clk  *testingclock.FakeClock
	cost time.Duration
}

func (s slowInserter) InsertUsers(ctx context.Context, n int) ([]string, error) {
	s.clk.Step(s.cost)
	return s.Inserter.InsertUsers(ctx, n)
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

type fixture struct {
	store  *store.MemoryStore
	vclock *simclock.Clock
	clk    *testingclock.FakeClock
	out    *bytes.Buffer
	sleeps *sleepRecorder
	ins    *seeder.Inserter
}

func newFixture() *fixture {
	clk := testingclock.NewFakeClock(start)
	st := store.NewMemoryStore()
	vclock := simclock.New(clk)
	return &fixture{
		store:  st,
		vclock: vclock,
		clk:    clk,
		out:    &bytes.Buffer{},
		sleeps: &sleepRecorder{},
		ins:    seeder.NewInserter(st.Users(), st.Logs(), vclock, seeder.WithConcurrency(4)),
	}
}

func (f *fixture) scheduler(cfg Config, ins Inserter, opts ...Option) *Scheduler {
	if ins == nil {
		ins = f.ins
	}
	base := []Option{
		WithClock(f.clk),
		WithSleep(f.sleeps.sleep),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithOutput(f.out),
	}
	return New(f.store, ins, f.vclock, cfg, nopLogger{}, append(base, opts...)...)
}

func defaultConfig() Config {
	return Config{
		InitialUsers:           10,
		SignupGrowthPercentage: 2,
		SigninPercentage:       10,
		TickInterval:           time.Second,
		Concurrency:            4,
	}
}

func TestBootstrap_ClearsAndSeedsInitialPopulation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// leftovers from a previous run
	f.vclock.Init()
	_, err := f.ins.InsertUsers(ctx, 7)
	require.NoError(t, err)

	s := f.scheduler(defaultConfig(), nil)
	require.NoError(t, s.Bootstrap(ctx))

	us := f.store.UserRecords().All()
	ls := f.store.LogRecords().All()
	require.Len(t, us, 10)
	require.Len(t, ls, 10)

	ids := map[string]bool{}
	for _, u := range us {
		ids[u.ID] = true
	}
	for _, l := range ls {
		assert.Equal(t, models.EventSignIn, l.Event)
		assert.True(t, l.Success)
		assert.True(t, ids[l.UserID], "log for unknown user %s", l.UserID)
		assert.True(t, l.Date.Equal(start))
	}
}

func TestTick_SmallPopulationAddsOneUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	s := f.scheduler(defaultConfig(), nil)
	require.NoError(t, s.Bootstrap(ctx))

	report, err := s.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(10), report.Users)
	assert.Equal(t, int64(10), report.Signins)
	assert.Equal(t, 1, report.NewUsers)
	assert.Equal(t, 1, report.NewSignins)
	assert.Len(t, f.store.UserRecords().All(), 11)
	// 10 initial + 1 for the new user + 1 sampled sign-in
	assert.Len(t, f.store.LogRecords().All(), 12)
	assert.Equal(t, "30/01/2024 Users: 10, Signins: 10\n", f.out.String())
}

func TestTick_SigninsTargetOnlyPreexistingUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	cfg := defaultConfig()
	cfg.InitialUsers = 50
	s := f.scheduler(cfg, nil)
	require.NoError(t, s.Bootstrap(ctx))

	before := map[string]bool{}
	for _, u := range f.store.UserRecords().All() {
		before[u.ID] = true
	}

	report, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.NewUsers)
	assert.Equal(t, 5, report.NewSignins)

	logs := f.store.LogRecords().All()
	require.Len(t, logs, 50+1+5)

	var fresh []string
	for _, u := range f.store.UserRecords().All() {
		if !before[u.ID] {
			fresh = append(fresh, u.ID)
		}
	}
	require.Len(t, fresh, 1)

	newLogs := logs[50:]
	freshCount := 0
	for _, l := range newLogs {
		if l.UserID == fresh[0] {
			freshCount++
			continue
		}
		assert.True(t, before[l.UserID], "sign-in for user %s created this tick", l.UserID)
	}
	assert.Equal(t, 1, freshCount, "new user gets only its own sign-up log")
}

func TestTick_AdvancesVirtualClockByOneDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	s := f.scheduler(defaultConfig(), nil)
	require.NoError(t, s.Bootstrap(ctx))

	for k := 1; k <= 3; k++ {
		report, err := s.Tick(ctx)
		require.NoError(t, err)
		assert.True(t, report.Date.Equal(start.AddDate(0, 0, k-1)))
		assert.True(t, f.vclock.Now().Equal(start.AddDate(0, 0, k)))
	}

	// records of the third tick carry the third simulated day
	last := f.store.LogRecords().All()
	assert.True(t, last[len(last)-1].Date.Equal(start.AddDate(0, 0, 2)))
}

type countErrStore struct {
	*store.MemoryStore
}

type brokenUsers struct {
	*users.MemoryRepository
}

func (b brokenUsers) Count(ctx context.Context) (int64, error) {
	return 0, errors.New("connection reset")
}

func (s countErrStore) Users() users.Repository {
	return brokenUsers{s.MemoryStore.UserRecords()}
}

func TestTick_CountErrorIsReturned(t *testing.T) {
	f := newFixture()
	s := New(countErrStore{f.store}, f.ins, f.vclock, defaultConfig(), nopLogger{},
		WithClock(f.clk), WithSleep(f.sleeps.sleep), WithOutput(f.out))

	_, err := s.Tick(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count users")
	assert.Empty(t, f.out.String())
}

func TestRun_ReArmsAfterRemainingInterval(t *testing.T) {
	f := newFixture()
	cfg := defaultConfig()
	cfg.MaxTicks = 3

	ins := slowInserter{Inserter: f.ins, clk: f.clk, cost: 300 * time.Millisecond}

	var reports []TickReport
	obs := ObserverFunc(func(ctx context.Context, r TickReport) { reports = append(reports, r) })

	ready := false
	s := f.scheduler(cfg, ins, WithObservers(obs), WithReadyHook(func() { ready = true }))

	require.NoError(t, s.Run(context.Background()))
	assert.True(t, ready)
	require.Len(t, reports, 3)
	for _, r := range reports {
		assert.Equal(t, 300*time.Millisecond, r.Elapsed)
	}
	assert.Equal(t, []time.Duration{700 * time.Millisecond, 700 * time.Millisecond}, f.sleeps.delays)
}

func TestRun_SlowTickFiresImmediately(t *testing.T) {
	f := newFixture()
	cfg := defaultConfig()
	cfg.MaxTicks = 2

	ins := slowInserter{Inserter: f.ins, clk: f.clk, cost: 1500 * time.Millisecond}
	s := f.scheduler(cfg, ins)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []time.Duration{0}, f.sleeps.delays)
}

func TestRun_TickErrorStopsLoop(t *testing.T) {
	f := newFixture()
	ins := failingInserter{Inserter: f.ins, failAfter: 1}
	s := f.scheduler(defaultConfig(), &ins)

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick 1")
	assert.Contains(t, err.Error(), "insert new users")
	assert.Empty(t, f.sleeps.delays)
}

func TestRun_BootstrapError(t *testing.T) {
	f := newFixture()
	ins := failingInserter{Inserter: f.ins, failAfter: 0}
	s := f.scheduler(defaultConfig(), &ins)

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap")
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())

	obs := ObserverFunc(func(context.Context, TickReport) { cancel() })
	s := f.scheduler(defaultConfig(), nil, WithObservers(obs))

	err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, f.sleeps.delays, 1)
}

type failingInserter struct {
	Inserter
	calls     int
	failAfter int
}

func (f *failingInserter) InsertUsers(ctx context.Context, n int) ([]string, error) {
	if f.calls >= f.failAfter {
		return nil, errors.New("disk full")
	}
	f.calls++
	return f.Inserter.InsertUsers(ctx, n)
}

func TestTimerSleep(t *testing.T) {
	clk := testingclock.NewFakeClock(start)
	s := New(store.NewMemoryStore(), nil, simclock.New(clk), defaultConfig(), nopLogger{}, WithClock(clk))

	done := make(chan error, 1)
	go func() { done <- s.sleep(context.Background(), time.Second) }()

	require.Eventually(t, clk.HasWaiters, time.Second, time.Millisecond)
	clk.Step(time.Second)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sleep did not return after the clock advanced")
	}
}

func TestTimerSleep_Cancelled(t *testing.T) {
	clk := testingclock.NewFakeClock(start)
	s := New(store.NewMemoryStore(), nil, simclock.New(clk), defaultConfig(), nopLogger{}, WithClock(clk))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.sleep(ctx, time.Hour), context.Canceled)
	require.ErrorIs(t, s.sleep(ctx, 0), context.Canceled)
}

func TestRun_ObserverTimeCountsAgainstInterval(t *testing.T) {
	f := newFixture()
	cfg := defaultConfig()
	cfg.MaxTicks = 2

	ins := slowInserter{Inserter: f.ins, clk: f.clk, cost: 300 * time.Millisecond}
	upload := ObserverFunc(func(context.Context, TickReport) { f.clk.Step(200 * time.Millisecond) })

	var reports []TickReport
	record := ObserverFunc(func(ctx context.Context, r TickReport) { reports = append(reports, r) })

	s := f.scheduler(cfg, ins, WithObservers(upload, record))
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, reports, 2)
	assert.Equal(t, 300*time.Millisecond, reports[0].Elapsed)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, f.sleeps.delays)
}
