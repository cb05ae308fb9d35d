package models

import "time"

// Movie is a user-submitted film record.
type Movie struct {
	MovieID   int64     `gorm:"column:movie_id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index:movies_user_id_idx"`
	Title     string    `gorm:"column:title;not null"`
	Img       string    `gorm:"column:img"`
	Desc      string    `gorm:"column:desc"`
	ReleaseYr int       `gorm:"column:release_yr"`
	Director  string    `gorm:"column:director"`
	Length    int       `gorm:"column:length"`
	Producer  string    `gorm:"column:producer"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Movie) TableName() string {
	return "movies"
}
