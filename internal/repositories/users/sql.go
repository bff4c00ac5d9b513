package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datafaker/internal/common"
	"github.com/dmitrijs2005/datafaker/internal/dbx"
	"github.com/dmitrijs2005/datafaker/internal/models"
)

// maxRowsPerInsert bounds a single multi-row INSERT so the bind parameter
// count stays under the PostgreSQL and SQLite limits.
const maxRowsPerInsert = 1000

const userColumns = 4

// sqlRepository holds the queries shared by the PostgreSQL and SQLite
// flavours; they differ only in placeholder style.
type sqlRepository struct {
	db          dbx.DBTX
	placeholder string
}

func (r *sqlRepository) bind(n int) string {
	if r.placeholder == dbx.Dollar {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (r *sqlRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *sqlRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *sqlRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := fmt.Sprintf(
		`INSERT INTO users (name, password, created_at, updated_at)
		 VALUES %s
		 RETURNING id`, dbx.ValuesList(1, userColumns, r.placeholder))

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Password, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *sqlRepository) CreateMany(ctx context.Context, users []*models.User) ([]*models.User, error) {
	if len(users) == 0 {
		return nil, common.ErrEmptyBatch
	}

	for start := 0; start < len(users); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(users))
		if err := r.insertChunk(ctx, users[start:end]); err != nil {
			return nil, err
		}
	}

	return users, nil
}

func (r *sqlRepository) insertChunk(ctx context.Context, chunk []*models.User) error {
	query := fmt.Sprintf(
		`INSERT INTO users (name, password, created_at, updated_at)
		 VALUES %s
		 RETURNING id`, dbx.ValuesList(len(chunk), userColumns, r.placeholder))

	args := make([]any, 0, len(chunk)*userColumns)
	for _, u := range chunk {
		args = append(args, u.Name, u.Password, u.CreatedAt, u.UpdatedAt)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(chunk) {
			return fmt.Errorf("db error: insert returned more than %d ids", len(chunk))
		}
		if err := rows.Scan(&chunk[i].ID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if i != len(chunk) {
		return fmt.Errorf("db error: insert returned %d ids, want %d", i, len(chunk))
	}

	return nil
}

func (r *sqlRepository) FindIDAt(ctx context.Context, offset int64) (string, error) {
	query := fmt.Sprintf(`SELECT id FROM users ORDER BY id LIMIT 1 OFFSET %s`, r.bind(1))

	var id string
	err := r.db.QueryRowContext(ctx, query, offset).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return id, nil
}
