package users

import (
	"context"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/datafaker/internal/common"
	"github.com/dmitrijs2005/datafaker/internal/models"
)

// MemoryRepository keeps users in process memory. Ids are increasing
// decimal strings, so slice order equals id order.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  []models.User
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *MemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = nil
	return nil
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(user)
	return user, nil
}

func (r *MemoryRepository) CreateMany(ctx context.Context, users []*models.User) ([]*models.User, error) {
	if len(users) == 0 {
		return nil, common.ErrEmptyBatch
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range users {
		r.insert(u)
	}
	return users, nil
}

func (r *MemoryRepository) insert(u *models.User) {
	r.nextID++
	u.ID = strconv.FormatInt(r.nextID, 10)
	r.users = append(r.users, *u)
}

func (r *MemoryRepository) FindIDAt(ctx context.Context, offset int64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if offset < 0 || offset >= int64(len(r.users)) {
		return "", common.ErrorNotFound
	}
	return r.users[offset].ID, nil
}

// All returns a copy of the stored users in insertion order.
func (r *MemoryRepository) All() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.User, len(r.users))
	copy(out, r.users)
	return out
}
