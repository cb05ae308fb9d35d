package movies

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/moviereview-backend/pkg/errors"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
	"github.com/angelmondragon/moviereview-backend/pkg/metrics"
)

const movieCacheName = "movie_row"

// Service orchestrates movie operations and maps failures onto typed errors.
type Service interface {
	Create(ctx context.Context, req CreateMovieRequest) (MovieDTO, error)
	Get(ctx context.Context, id int64) (MovieDetailDTO, error)
	ListByUser(ctx context.Context, userID int64) ([]MovieSummaryDTO, error)
	Search(ctx context.Context, filters SearchFilters) ([]MovieSummaryDTO, error)
	Update(ctx context.Context, id int64, patch UpdateMovieRequest) (MovieDTO, error)
	Delete(ctx context.Context, id int64) error
}

type movieRepository interface {
	Create(ctx context.Context, movie *models.Movie, genreNames []string) (*models.Movie, error)
	FindByID(ctx context.Context, id int64) (*models.Movie, error)
	Describe(ctx context.Context, movie MovieDTO) (*MovieDetailDTO, error)
	ListByUser(ctx context.Context, userID int64) ([]MovieSummaryDTO, error)
	Search(ctx context.Context, filters SearchFilters) ([]MovieSummaryDTO, error)
	Update(ctx context.Context, id int64, patch UpdateMovieRequest) (*models.Movie, error)
	Delete(ctx context.Context, id int64) error
}

// RowCache stores serialized movie rows. Satisfied by pkg/redis.Client and pkg/memcache.Cache.
// Ratings, reviews and genres are never cached: other writers share those tables.
type RowCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	MovieKey(movieID int64) string
}

// ServiceParams groups dependencies for the movie service. Cache, CacheTTL, Metrics and Logger are optional.
type ServiceParams struct {
	Repo     movieRepository
	Cache    RowCache
	CacheTTL time.Duration
	Metrics  *metrics.CacheMetrics
	Logger   *logger.Logger
}

type service struct {
	repo     movieRepository
	cache    RowCache
	cacheTTL time.Duration
	metrics  *metrics.CacheMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movie repo is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &service{
		repo:     params.Repo,
		cache:    params.Cache,
		cacheTTL: ttl,
		metrics:  params.Metrics,
		logg:     logg,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateMovieRequest) (MovieDTO, error) {
	movie, err := s.repo.Create(ctx, req.toModel(), req.Genre)
	if err != nil {
		return MovieDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to create movie")
	}
	return FromModel(*movie), nil
}

// Get composes the detail view. Only the movie row goes through the cache; the rating,
// reviews and genres are always read from the database.
func (s *service) Get(ctx context.Context, id int64) (MovieDetailDTO, error) {
	movie, err := s.movieRow(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MovieDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Movie not found")
		}
		return MovieDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch movie")
	}

	detail, err := s.repo.Describe(ctx, movie)
	if err != nil {
		return MovieDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch movie")
	}
	return *detail, nil
}

// movieRow reads through the row cache when one is configured. Cache failures fall back to the database.
func (s *service) movieRow(ctx context.Context, id int64) (MovieDTO, error) {
	if s.cache != nil {
		var cached MovieDTO
		hit, err := s.cache.GetJSON(ctx, s.cache.MovieKey(id), &cached)
		switch {
		case err != nil:
			s.metrics.IncError(movieCacheName)
			s.warn(ctx, id, "movie cache read failed", err)
		case hit:
			s.metrics.IncHit(movieCacheName)
			return cached, nil
		default:
			s.metrics.IncMiss(movieCacheName)
		}
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return MovieDTO{}, err
	}
	movie := FromModel(*row)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, s.cache.MovieKey(id), movie, s.cacheTTL); err != nil {
			s.metrics.IncError(movieCacheName)
			s.warn(ctx, id, "movie cache write failed", err)
		}
	}
	return movie, nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]MovieSummaryDTO, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch movies with genres and ratings")
	}
	return out, nil
}

// Search returns an empty slice, not an error, when nothing matches.
func (s *service) Search(ctx context.Context, filters SearchFilters) ([]MovieSummaryDTO, error) {
	out, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to search for movies")
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id int64, patch UpdateMovieRequest) (MovieDTO, error) {
	movie, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MovieDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Movie not found")
		}
		return MovieDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to update movie")
	}
	s.invalidate(ctx, id)
	return FromModel(*movie), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to delete movie")
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *service) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.MovieKey(id)); err != nil {
		s.metrics.IncError(movieCacheName)
		s.warn(ctx, id, "movie cache invalidation failed", err)
	}
}

func (s *service) warn(ctx context.Context, id int64, msg string, err error) {
	ctx = s.logg.WithFields(ctx, map[string]any{"movie_id": id, "error": err.Error()})
	s.logg.Warn(ctx, msg)
}
