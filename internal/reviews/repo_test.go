package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/moviereview-backend/pkg/db/dbtest"
	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
)

func TestRepositoryLifecycle(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	first := &models.RatingReview{MovieID: 1, UserID: 10, Rating: 4, Review: "solid"}
	second := &models.RatingReview{MovieID: 1, UserID: 11, Rating: 2, Review: "meh"}
	other := &models.RatingReview{MovieID: 2, UserID: 10, Rating: 5}
	for _, r := range []*models.RatingReview{first, second, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	rows, err := repo.ListByMovie(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.RRID, rows[0].RRID)

	found, err := repo.FindByID(ctx, second.RRID)
	require.NoError(t, err)
	assert.Equal(t, "meh", found.Review)

	require.NoError(t, repo.Delete(ctx, second.RRID))
	_, err = repo.FindByID(ctx, second.RRID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(ctx, 9999))

	require.NoError(t, repo.DeleteByMovie(ctx, 1))
	rows, err = repo.ListByMovie(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.ListByMovie(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAverageRating(t *testing.T) {
	assert.Nil(t, AverageRating(nil))

	avg := AverageRating([]models.RatingReview{{Rating: 4}, {Rating: 2}})
	require.NotNil(t, avg)
	assert.InDelta(t, 3.0, *avg, 1e-9)

	avg = AverageRating([]models.RatingReview{{Rating: 0}})
	require.NotNil(t, avg)
	assert.Zero(t, *avg)
}
