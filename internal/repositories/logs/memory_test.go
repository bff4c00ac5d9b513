package logs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/datafaker/internal/models"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	l, err := repo.Create(ctx, &models.Log{UserID: "1", Event: models.EventSignIn, Success: true, Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, "1", l.ID)

	all := repo.All()
	require.Len(t, all, 1)
	assert.Equal(t, models.EventSignIn, all[0].Event)
	assert.True(t, all[0].Date.Equal(testDate))

	require.NoError(t, repo.DeleteAll(ctx))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
