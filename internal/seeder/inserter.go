// Package seeder generates fake users and their activity logs and writes
// them through the repositories.
package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/datafaker/internal/common"
	"github.com/dmitrijs2005/datafaker/internal/cryptox"
	"github.com/dmitrijs2005/datafaker/internal/models"
	"github.com/dmitrijs2005/datafaker/internal/repositories/logs"
	"github.com/dmitrijs2005/datafaker/internal/repositories/users"
)

const (
	defaultConcurrency = 16
	passwordLength     = 12
)

// Clock supplies the timestamp for every record written in one step.
type Clock interface {
	Now() time.Time
}

type Inserter struct {
	users       users.Repository
	logs        logs.Repository
	clock       Clock
	faker       *gofakeit.Faker
	concurrency int
	hash        func(string) (string, error)
}

type Option func(*Inserter)

// WithFaker sets the fake-data source, typically a seeded one.
func WithFaker(f *gofakeit.Faker) Option {
	return func(i *Inserter) {
		i.faker = f
	}
}

// WithConcurrency bounds the number of log inserts in flight.
func WithConcurrency(n int) Option {
	return func(i *Inserter) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// WithPasswordHashing stores argon2id hashes instead of the plain generated
// passwords.
func WithPasswordHashing(enabled bool) Option {
	return func(i *Inserter) {
		if enabled {
			i.hash = cryptox.HashPassword
		} else {
			i.hash = nil
		}
	}
}

func NewInserter(u users.Repository, l logs.Repository, clock Clock, opts ...Option) *Inserter {
	i := &Inserter{
		users:       u,
		logs:        l,
		clock:       clock,
		faker:       gofakeit.New(0),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// InsertUsers creates n users stamped with the current simulated time and a
// successful sign-in log for each of them. It returns the ids assigned by
// the store, in insertion order.
func (i *Inserter) InsertUsers(ctx context.Context, n int) ([]string, error) {
	if n < 1 {
		return nil, common.ErrEmptyBatch
	}

	now := i.clock.Now()
	batch := make([]*models.User, n)
	for k := range batch {
		u, err := i.newUser(now)
		if err != nil {
			return nil, err
		}
		batch[k] = u
	}

	var created []*models.User
	if n == 1 {
		u, err := i.users.Create(ctx, batch[0])
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		created = []*models.User{u}
	} else {
		var err error
		created, err = i.users.CreateMany(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("insert users: %w", err)
		}
	}

	ids := make([]string, len(created))
	for k, u := range created {
		ids[k] = u.ID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			_, err := i.InsertOneLog(gctx, id, models.EventSignIn, true)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return ids, fmt.Errorf("insert sign-in logs: %w", err)
	}

	return ids, nil
}

// InsertOneLog records a single event for userID at the current simulated time.
func (i *Inserter) InsertOneLog(ctx context.Context, userID string, event models.Event, success bool) (*models.Log, error) {
	log := &models.Log{
		UserID:  userID,
		Event:   event,
		Success: success,
		Date:    i.clock.Now(),
	}

	created, err := i.logs.Create(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("insert log for user %s: %w", userID, err)
	}
	return created, nil
}

func (i *Inserter) newUser(now time.Time) (*models.User, error) {
	password := i.faker.Password(true, true, true, false, false, passwordLength)
	if i.hash != nil {
		hashed, err := i.hash(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		password = hashed
	}

	return &models.User{
		Name:      i.faker.Name(),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
