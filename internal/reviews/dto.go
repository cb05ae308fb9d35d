package reviews

import "github.com/angelmondragon/moviereview-backend/pkg/db/models"

// CreateReviewRequest is the POST /reviews body.
type CreateReviewRequest struct {
	MovieID int64    `json:"movie_id" validate:"required,gt=0"`
	UserID  int64    `json:"user_id" validate:"required,gt=0"`
	Rating  *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Review  string   `json:"review" validate:"max=5000"`
}

// ReviewDTO is the wire shape of a single review.
type ReviewDTO struct {
	RRID    int64   `json:"rr_id"`
	MovieID int64   `json:"movie_id"`
	UserID  int64   `json:"user_id"`
	Rating  float64 `json:"rating"`
	Review  string  `json:"review"`
}

func FromModel(m models.RatingReview) ReviewDTO {
	return ReviewDTO{
		RRID:    m.RRID,
		MovieID: m.MovieID,
		UserID:  m.UserID,
		Rating:  m.Rating,
		Review:  m.Review,
	}
}
