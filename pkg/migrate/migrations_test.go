package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no migration file matching %s", suffix)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMoviesMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "create_users_and_movies")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS movies",
		`"desc" TEXT`,
		"CREATE INDEX IF NOT EXISTS movies_user_id_idx",
		"DROP TABLE IF EXISTS movies",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub)
	}
}

func TestGenresMigrationEnforcesUniqueness(t *testing.T) {
	content := readMigration(t, "create_genres")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS genres",
		"CONSTRAINT genres_genre_key UNIQUE (genre)",
		"CREATE TABLE IF NOT EXISTS movie_genres",
		"PRIMARY KEY (movie_id, genre_id)",
		"REFERENCES movies(movie_id)",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub)
	}
}

func TestRatingsMigrationBoundsRating(t *testing.T) {
	content := readMigration(t, "create_ratings_reviews")
	assert.Contains(t, content, "CREATE TABLE IF NOT EXISTS ratings_reviews")
	assert.Contains(t, content, "CHECK (rating >= 0 AND rating <= 5)")
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("20250101000000_ok.sql", "-- +goose Up\n-- +goose Down\n")
	write("20250101000000_dupe.sql", "-- +goose Up\n-- +goose Down\n")
	write("bad-name.sql", "")
	write("20250102000000_no_down.sql", "-- +goose Up\n")

	err := ValidateDir(dir)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "duplicate migration version 20250101000000")
	assert.Contains(t, msg, `invalid migration filename "bad-name.sql"`)
	assert.Contains(t, msg, `missing "-- +goose Down"`)
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	path, err := createSQLMigrationAt(dir, "Add Movie Trailers!", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20250301123000_add_movie_trailers.sql"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"))
	require.NoError(t, ValidateDir(dir))

	_, err = createSQLMigrationAt(dir, "add movie trailers", now)
	assert.ErrorContains(t, err, "already exists")

	_, err = createSQLMigrationAt(dir, "!!!", now)
	assert.Error(t, err)
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, "sqlite3", DialectFor("sqlite"))
	assert.Equal(t, "postgres", DialectFor("postgres"))
	assert.Equal(t, "postgres", DialectFor(""))
}
