package logs

import (
	"context"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/datafaker/internal/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	logs   []models.Log
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.logs)), nil
}

func (r *MemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = nil
	return nil
}

func (r *MemoryRepository) Create(ctx context.Context, log *models.Log) (*models.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	log.ID = strconv.FormatInt(r.nextID, 10)
	r.logs = append(r.logs, *log)
	return log, nil
}

// All returns a copy of the stored logs in insertion order.
func (r *MemoryRepository) All() []models.Log {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Log, len(r.logs))
	copy(out, r.logs)
	return out
}
