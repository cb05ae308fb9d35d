package genres

import "github.com/angelmondragon/moviereview-backend/pkg/db/models"

// CreateGenreRequest is the POST /genres body.
type CreateGenreRequest struct {
	Genre string `json:"genre" validate:"required,max=100"`
}

// GenreDTO is the wire shape of a genre. Clients check genre_id to detect success.
type GenreDTO struct {
	GenreID int64  `json:"genre_id"`
	Genre   string `json:"genre"`
}

func FromModel(m models.Genre) GenreDTO {
	return GenreDTO{GenreID: m.GenreID, Genre: m.Genre}
}
