package store

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/datafaker/internal/dbx"
	"github.com/dmitrijs2005/datafaker/internal/repositories/logs"
	"github.com/dmitrijs2005/datafaker/internal/repositories/users"
)

// SQLStore serves the PostgreSQL and SQLite backends. Repositories are built
// per call so they can be bound to either the pool or a transaction.
type SQLStore struct {
	db       *sql.DB
	newUsers func(db dbx.DBTX) users.Repository
	newLogs  func(db dbx.DBTX) logs.Repository
}

func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:       db,
		newUsers: func(db dbx.DBTX) users.Repository { return users.NewPostgresRepository(db) },
		newLogs:  func(db dbx.DBTX) logs.Repository { return logs.NewPostgresRepository(db) },
	}
}

func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:       db,
		newUsers: func(db dbx.DBTX) users.Repository { return users.NewSQLiteRepository(db) },
		newLogs:  func(db dbx.DBTX) logs.Repository { return logs.NewSQLiteRepository(db) },
	}
}

func (s *SQLStore) Users() users.Repository {
	return s.newUsers(s.db)
}

func (s *SQLStore) Logs() logs.Repository {
	return s.newLogs(s.db)
}

// Reset clears logs before users so the foreign key is never violated.
func (s *SQLStore) Reset(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.newLogs(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return s.newUsers(tx).DeleteAll(ctx)
	})
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close(ctx context.Context) error {
	return s.db.Close()
}
