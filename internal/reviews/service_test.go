package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/moviereview-backend/pkg/errors"
)

type stubRepo struct {
	rows   map[int64]models.RatingReview
	nextID int64
	err    error
}

func newStubRepo() *stubRepo {
	return &stubRepo{rows: map[int64]models.RatingReview{}}
}

func (s *stubRepo) Create(ctx context.Context, review *models.RatingReview) error {
	if s.err != nil {
		return s.err
	}
	s.nextID++
	review.RRID = s.nextID
	s.rows[review.RRID] = *review
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*models.RatingReview, error) {
	if s.err != nil {
		return nil, s.err
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (s *stubRepo) ListByMovie(ctx context.Context, movieID int64) ([]models.RatingReview, error) {
	var out []models.RatingReview
	for _, row := range s.rows {
		if row.MovieID == movieID {
			out = append(out, row)
		}
	}
	return out, s.err
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	delete(s.rows, id)
	return s.err
}

type stubMovies map[int64]bool

func (m stubMovies) Exists(ctx context.Context, id int64) (bool, error) {
	return m[id], nil
}

func rating(v float64) *float64 { return &v }

func newTestService(t *testing.T) (Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	svc, err := NewService(ServiceParams{Repo: repo, Movies: stubMovies{1: true}})
	require.NoError(t, err)
	return svc, repo
}

func TestCreateStoresReview(t *testing.T) {
	svc, repo := newTestService(t)

	dto, err := svc.Create(context.Background(), CreateReviewRequest{MovieID: 1, UserID: 3, Rating: rating(4.5), Review: "great"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), dto.RRID)
	assert.Equal(t, 4.5, dto.Rating)
	assert.Equal(t, "great", repo.rows[1].Review)
}

func TestCreateRejectsUnknownMovieAndBadRating(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateReviewRequest{MovieID: 2, UserID: 3, Rating: rating(3)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Create(ctx, CreateReviewRequest{MovieID: 1, UserID: 3, Rating: rating(5.5)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, CreateReviewRequest{MovieID: 1, UserID: 3})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	assert.Empty(t, repo.rows)
}

func TestGetAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateReviewRequest{MovieID: 1, UserID: 3, Rating: rating(2)})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.RRID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	list, err := svc.ListByMovie(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.RRID))
	_, err = svc.Get(ctx, created.RRID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, 404))
}

func TestRepositoryFailuresAreInternal(t *testing.T) {
	repo := newStubRepo()
	repo.err = errors.New("db down")
	svc, err := NewService(ServiceParams{Repo: repo, Movies: stubMovies{1: true}})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateReviewRequest{MovieID: 1, UserID: 1, Rating: rating(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
	_, err = svc.Get(context.Background(), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
	assert.True(t, pkgerrors.IsCode(svc.Delete(context.Background(), 1), pkgerrors.CodeInternal))
}
