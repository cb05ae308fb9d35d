package models

import "time"

// Genre is a shared, uniquely named category.
type Genre struct {
	GenreID   int64     `gorm:"column:genre_id;primaryKey;autoIncrement"`
	Genre     string    `gorm:"column:genre;not null;uniqueIndex:genres_genre_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Genre) TableName() string {
	return "genres"
}
