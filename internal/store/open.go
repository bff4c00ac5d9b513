package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/datafaker/internal/common"
	"github.com/dmitrijs2005/datafaker/internal/config"
	"github.com/dmitrijs2005/datafaker/internal/filex"
	"github.com/dmitrijs2005/datafaker/internal/migrations"
)

// migrate is a seam for tests.
var migrate = migrations.Up

// Open connects to the backend selected in cfg, verifies the connection and
// brings the schema up to date. Nothing is left open when it fails.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := openSQL(ctx, "pgx", cfg.DatabaseDSN, migrations.DialectPostgres)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil

	case config.BackendSQLite:
		if err := filex.EnsureParentDir(filex.SQLitePath(cfg.DatabaseDSN)); err != nil {
			return nil, err
		}
		db, err := openSQL(ctx, "sqlite", cfg.DatabaseDSN, migrations.DialectSQLite)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil

	case config.BackendMongo:
		return openMongo(ctx, cfg)

	case config.BackendMemory:
		return NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, cfg.Backend)
}

func openSQL(ctx context.Context, driver, dsn, dialect string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if dialect == migrations.DialectSQLite {
		// an in-memory database lives only as long as its connection, and
		// the foreign_keys pragma is per connection too
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping %s: %w", driver, err), db.Close())
	}

	if dialect == migrations.DialectSQLite {
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			return nil, errors.Join(fmt.Errorf("enable foreign keys: %w", err), db.Close())
		}
	}

	if err := migrate(ctx, db, dialect); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return db, nil
}

func mongoClientOptions(cfg *config.Config) *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.DatabaseDSN)
	if cfg.ReplicaSet != "" {
		opts.SetReplicaSet(cfg.ReplicaSet)
	}
	return opts
}

func openMongo(ctx context.Context, cfg *config.Config) (Store, error) {
	client, err := mongo.Connect(ctx, mongoClientOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, errors.Join(fmt.Errorf("ping mongo: %w", err), client.Disconnect(ctx))
	}

	return NewMongoStore(client, cfg.DatabaseName), nil
}
