package reviews

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
)

// Repository owns ratings_reviews rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository whose statements run on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, review *models.RatingReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.RatingReview, error) {
	var review models.RatingReview
	if err := r.db.WithContext(ctx).First(&review, "rr_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByMovie returns a movie's reviews oldest first.
func (r *Repository) ListByMovie(ctx context.Context, movieID int64) ([]models.RatingReview, error) {
	var rows []models.RatingReview
	if err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("rr_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a single review; deleting a missing id is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("rr_id = ?", id).Delete(&models.RatingReview{}).Error
}

// DeleteByMovie removes every review of a movie.
func (r *Repository) DeleteByMovie(ctx context.Context, movieID int64) error {
	return r.db.WithContext(ctx).Where("movie_id = ?", movieID).Delete(&models.RatingReview{}).Error
}

// AverageRating returns nil when the movie has no reviews.
func AverageRating(rows []models.RatingReview) *float64 {
	if len(rows) == 0 {
		return nil
	}
	var sum float64
	for _, row := range rows {
		sum += row.Rating
	}
	avg := sum / float64(len(rows))
	return &avg
}
