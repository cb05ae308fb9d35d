package genres

import (
	"context"
	"strings"

	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/moviereview-backend/pkg/errors"
)

// Service exposes genre lookup and find-or-create.
type Service interface {
	Create(ctx context.Context, name string) (GenreDTO, error)
	List(ctx context.Context) ([]GenreDTO, error)
}

type genreRepository interface {
	FindOrCreate(ctx context.Context, name string) (*models.Genre, error)
	List(ctx context.Context) ([]models.Genre, error)
}

type service struct {
	repo genreRepository
}

func NewService(repo genreRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "genre repo is required")
	}
	return &service{repo: repo}, nil
}

// Create is idempotent: posting an existing name returns the stored row.
func (s *service) Create(ctx context.Context, name string) (GenreDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GenreDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "genre is required")
	}
	genre, err := s.repo.FindOrCreate(ctx, name)
	if err != nil {
		return GenreDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to create genre")
	}
	return FromModel(*genre), nil
}

func (s *service) List(ctx context.Context) ([]GenreDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch genres")
	}
	out := make([]GenreDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}
