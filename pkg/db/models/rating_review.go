package models

import "time"

// RatingReview is one user's rating and review text for a movie.
type RatingReview struct {
	RRID      int64     `gorm:"column:rr_id;primaryKey;autoIncrement"`
	MovieID   int64     `gorm:"column:movie_id;not null;index:ratings_reviews_movie_id_idx"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Rating    float64   `gorm:"column:rating;not null"`
	Review    string    `gorm:"column:review"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (RatingReview) TableName() string {
	return "ratings_reviews"
}
