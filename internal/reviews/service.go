package reviews

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/moviereview-backend/pkg/errors"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
)

const (
	MinRating = 0
	MaxRating = 5
)

// Service manages ratings and reviews.
type Service interface {
	Create(ctx context.Context, req CreateReviewRequest) (ReviewDTO, error)
	Get(ctx context.Context, id int64) (ReviewDTO, error)
	ListByMovie(ctx context.Context, movieID int64) ([]ReviewDTO, error)
	Delete(ctx context.Context, id int64) error
}

type reviewRepository interface {
	Create(ctx context.Context, review *models.RatingReview) error
	FindByID(ctx context.Context, id int64) (*models.RatingReview, error)
	ListByMovie(ctx context.Context, movieID int64) ([]models.RatingReview, error)
	Delete(ctx context.Context, id int64) error
}

// MovieLookup reports whether a movie exists.
type MovieLookup interface {
	Exists(ctx context.Context, movieID int64) (bool, error)
}

// ServiceParams groups dependencies for the review service. Logger is optional.
type ServiceParams struct {
	Repo   reviewRepository
	Movies MovieLookup
	Logger *logger.Logger
}

type service struct {
	repo   reviewRepository
	movies MovieLookup
	logg   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if params.Movies == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movie lookup is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:   params.Repo,
		movies: params.Movies,
		logg:   logg,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateReviewRequest) (ReviewDTO, error) {
	if req.Rating == nil || *req.Rating < MinRating || *req.Rating > MaxRating {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	exists, err := s.movies.Exists(ctx, req.MovieID)
	if err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to create review")
	}
	if !exists {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "Movie not found")
	}

	row := &models.RatingReview{
		MovieID: req.MovieID,
		UserID:  req.UserID,
		Rating:  *req.Rating,
		Review:  req.Review,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to create review")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"movie_id": row.MovieID, "rr_id": row.RRID})
	s.logg.Info(ctx, "review created")
	return FromModel(*row), nil
}

func (s *service) Get(ctx context.Context, id int64) (ReviewDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Review not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch review")
	}
	return FromModel(*row), nil
}

func (s *service) ListByMovie(ctx context.Context, movieID int64) ([]ReviewDTO, error) {
	rows, err := s.repo.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch reviews")
	}
	out := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// Delete mirrors movie deletion: a missing review still reports success.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to delete review")
	}
	return nil
}
