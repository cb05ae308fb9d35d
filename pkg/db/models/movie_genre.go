package models

// MovieGenre links a movie to a genre. The pair is the whole identity.
type MovieGenre struct {
	MovieID int64 `gorm:"column:movie_id;primaryKey;autoIncrement:false"`
	GenreID int64 `gorm:"column:genre_id;primaryKey;autoIncrement:false;index:movie_genres_genre_id_idx"`
}

func (MovieGenre) TableName() string {
	return "movie_genres"
}
