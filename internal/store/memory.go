package store

import (
	"context"

	"github.com/dmitrijs2005/datafaker/internal/repositories/logs"
	"github.com/dmitrijs2005/datafaker/internal/repositories/users"
)

// MemoryStore keeps everything in process memory. It is used for dry runs
// and tests.
type MemoryStore struct {
	users *users.MemoryRepository
	logs  *logs.MemoryRepository
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: users.NewMemoryRepository(),
		logs:  logs.NewMemoryRepository(),
	}
}

func (s *MemoryStore) Users() users.Repository {
	return s.users
}

func (s *MemoryStore) Logs() logs.Repository {
	return s.logs
}

// UserRecords exposes the concrete users repository for inspection.
func (s *MemoryStore) UserRecords() *users.MemoryRepository {
	return s.users
}

// LogRecords exposes the concrete logs repository for inspection.
func (s *MemoryStore) LogRecords() *logs.MemoryRepository {
	return s.logs
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	if err := s.logs.DeleteAll(ctx); err != nil {
		return err
	}
	return s.users.DeleteAll(ctx)
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
