// Package users persists synthetic user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/datafaker/internal/models"
)

// Repository is the storage contract for the users collection.
//
// FindIDAt returns the id of the user at the given zero-based offset in
// id order, or common.ErrorNotFound when the offset is past the end.
type Repository interface {
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
	Create(ctx context.Context, user *models.User) (*models.User, error)
	CreateMany(ctx context.Context, users []*models.User) ([]*models.User, error)
	FindIDAt(ctx context.Context, offset int64) (string, error)
}
