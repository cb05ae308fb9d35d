package genres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/moviereview-backend/pkg/db/dbtest"
	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
)

func TestFindOrCreateIsIdempotent(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "Drama")
	require.NoError(t, err)
	require.NotZero(t, first.GenreID)

	second, err := repo.FindOrCreate(ctx, "Drama")
	require.NoError(t, err)
	assert.Equal(t, first.GenreID, second.GenreID)

	var count int64
	require.NoError(t, conn.Model(&models.Genre{}).Where("genre = ?", "Drama").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFindOrCreateReloadsWhenAnotherWriterWins(t *testing.T) {
	conn := dbtest.Open(t)
	raced := false
	require.NoError(t, conn.Callback().Query().After("gorm:query").Register("test:concurrent_genre", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "genres" {
			return
		}
		raced = true
		require.NoError(t, conn.Exec("INSERT INTO genres (genre) VALUES (?)", "Noir").Error)
	}))
	repo := NewRepository(conn)

	genre, err := repo.FindOrCreate(context.Background(), "Noir")
	require.NoError(t, err)
	assert.True(t, raced)
	assert.NotZero(t, genre.GenreID)
	assert.Equal(t, "Noir", genre.Genre)

	var count int64
	require.NoError(t, conn.Model(&models.Genre{}).Where("genre = ?", "Noir").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFindOrCreateInsideTransaction(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		first, err := repo.WithTx(tx).FindOrCreate(ctx, "Western")
		if err != nil {
			return err
		}
		again, err := repo.WithTx(tx).FindOrCreate(ctx, "Western")
		if err != nil {
			return err
		}
		assert.Equal(t, first.GenreID, again.GenreID)
		return nil
	}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Western", list[0].Genre)
}

func TestFindOrCreateManyKeepsOrder(t *testing.T) {
	conn := dbtest.Open(t)
	dbtest.MustCreate(t, conn, &models.Genre{Genre: "Action"})
	repo := NewRepository(conn)

	rows, err := repo.FindOrCreateMany(context.Background(), []string{"Sci-Fi", "Action"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sci-Fi", rows[0].Genre)
	assert.Equal(t, "Action", rows[1].Genre)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Action", list[0].Genre)
}

func TestNormalizeNames(t *testing.T) {
	got := NormalizeNames([]string{" Drama", "Action", "", "Drama", "  ", "Action ", "Comedy"})
	assert.Equal(t, []string{"Drama", "Action", "Comedy"}, got)
	assert.Empty(t, NormalizeNames(nil))
}
