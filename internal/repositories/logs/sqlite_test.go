package logs

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/datafaker/internal/models"
)

func TestSQLiteRepository(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			event TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			date TIMESTAMP NOT NULL
		);`)
	require.NoError(t, err)

	ctx := context.Background()
	repo := NewSQLiteRepository(db)

	for i := 0; i < 3; i++ {
		l, err := repo.Create(ctx, &models.Log{UserID: "7", Event: models.EventSignIn, Success: true, Date: testDate})
		require.NoError(t, err)
		assert.NotEmpty(t, l.ID)
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, repo.DeleteAll(ctx))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
