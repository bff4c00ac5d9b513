// Package logs persists user activity records such as sign-ins.
package logs

import (
	"context"

	"github.com/dmitrijs2005/datafaker/internal/models"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
	Create(ctx context.Context, log *models.Log) (*models.Log, error)
}
