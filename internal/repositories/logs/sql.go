package logs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/datafaker/internal/dbx"
	"github.com/dmitrijs2005/datafaker/internal/models"
)

type sqlRepository struct {
	db          dbx.DBTX
	placeholder string
}

func (r *sqlRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *sqlRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM logs`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *sqlRepository) Create(ctx context.Context, log *models.Log) (*models.Log, error) {
	query := fmt.Sprintf(
		`INSERT INTO logs (user_id, event, success, date)
		 VALUES %s
		 RETURNING id`, dbx.ValuesList(1, 4, r.placeholder))

	err := r.db.QueryRowContext(ctx, query,
		log.UserID, string(log.Event), log.Success, log.Date).Scan(&log.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return log, nil
}
