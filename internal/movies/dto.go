package movies

import (
	"encoding/json"

	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
)

const (
	UnknownUser  = "Unknown User"
	UnknownGenre = "Unknown Genre"

	MsgCreated = "Movie created successfully"
)

// CreateMovieRequest is the POST /movies body.
type CreateMovieRequest struct {
	UserID    int64    `json:"user_id" validate:"required,gt=0"`
	Title     string   `json:"title" validate:"required,max=255"`
	Img       string   `json:"img"`
	Desc      string   `json:"desc"`
	ReleaseYr int      `json:"release_yr" validate:"gte=0"`
	Director  string   `json:"director"`
	Length    int      `json:"length" validate:"gte=0"`
	Producer  string   `json:"producer"`
	Genre     []string `json:"genre"`
}

func (r CreateMovieRequest) toModel() *models.Movie {
	return &models.Movie{
		UserID:    r.UserID,
		Title:     r.Title,
		Img:       r.Img,
		Desc:      r.Desc,
		ReleaseYr: r.ReleaseYr,
		Director:  r.Director,
		Length:    r.Length,
		Producer:  r.Producer,
	}
}

// UpdateMovieRequest is a partial update; nil fields are left untouched.
// A non-nil Genre replaces the movie's genre set. Computed detail fields a client
// echoes back from GET are accepted and ignored.
type UpdateMovieRequest struct {
	echoedDetailFields

	UserID    *int64   `json:"user_id" validate:"omitempty,gt=0"`
	Title     *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Img       *string  `json:"img"`
	Desc      *string  `json:"desc"`
	ReleaseYr *int     `json:"release_yr" validate:"omitempty,gte=0"`
	Director  *string  `json:"director"`
	Length    *int     `json:"length" validate:"omitempty,gte=0"`
	Producer  *string  `json:"producer"`
	Genre     []string `json:"genre"`
}

type echoedDetailFields struct {
	MovieID       json.RawMessage `json:"movie_id,omitempty"`
	Rating        json.RawMessage `json:"rating,omitempty"`
	AverageRating json.RawMessage `json:"averageRating,omitempty"`
	Genres        json.RawMessage `json:"genres,omitempty"`
	User          json.RawMessage `json:"user,omitempty"`
	RR            json.RawMessage `json:"rr,omitempty"`
}

func (r UpdateMovieRequest) columns() map[string]any {
	cols := map[string]any{}
	if r.UserID != nil {
		cols["user_id"] = *r.UserID
	}
	if r.Title != nil {
		cols["title"] = *r.Title
	}
	if r.Img != nil {
		cols["img"] = *r.Img
	}
	if r.Desc != nil {
		cols["desc"] = *r.Desc
	}
	if r.ReleaseYr != nil {
		cols["release_yr"] = *r.ReleaseYr
	}
	if r.Director != nil {
		cols["director"] = *r.Director
	}
	if r.Length != nil {
		cols["length"] = *r.Length
	}
	if r.Producer != nil {
		cols["producer"] = *r.Producer
	}
	return cols
}

// SearchFilters narrows GET /movies. Empty fields do not filter.
type SearchFilters struct {
	Title string
	Genre string
}

// MovieDTO mirrors the movies row.
type MovieDTO struct {
	MovieID   int64  `json:"movie_id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Img       string `json:"img"`
	Desc      string `json:"desc"`
	ReleaseYr int    `json:"release_yr"`
	Director  string `json:"director"`
	Length    int    `json:"length"`
	Producer  string `json:"producer"`
}

func FromModel(m models.Movie) MovieDTO {
	return MovieDTO{
		MovieID:   m.MovieID,
		UserID:    m.UserID,
		Title:     m.Title,
		Img:       m.Img,
		Desc:      m.Desc,
		ReleaseYr: m.ReleaseYr,
		Director:  m.Director,
		Length:    m.Length,
		Producer:  m.Producer,
	}
}

// ReviewEntry is one review inside a movie detail. User is null when the reviewer is unknown.
type ReviewEntry struct {
	RRID   int64   `json:"rr_id"`
	UserID int64   `json:"user_id"`
	User   *string `json:"user"`
	Review string  `json:"review"`
	Rating float64 `json:"rating"`
}

// MovieDetailDTO is the GET /movies/{id} aggregate.
type MovieDetailDTO struct {
	MovieDTO
	Rating *float64      `json:"rating"`
	Genres []string      `json:"genres"`
	User   string        `json:"user"`
	RR     []ReviewEntry `json:"rr"`
}

// MovieSummaryDTO is one element of the listing and search results.
type MovieSummaryDTO struct {
	MovieDTO
	AverageRating *float64 `json:"averageRating"`
	Genres        []string `json:"genres"`
}

type CreateMovieResponse struct {
	Message string   `json:"message"`
	Movie   MovieDTO `json:"movie"`
}

type DeleteMovieResponse struct {
	Deleted bool `json:"deleted"`
}
