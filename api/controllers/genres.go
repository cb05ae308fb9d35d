package controllers

import (
	"net/http"

	"github.com/angelmondragon/moviereview-backend/api/responses"
	"github.com/angelmondragon/moviereview-backend/api/validators"
	"github.com/angelmondragon/moviereview-backend/internal/genres"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
)

// GenreCreate handles POST /genres. An existing genre is returned unchanged.
func GenreCreate(svc genres.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload genres.CreateGenreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		genre, err := svc.Create(r.Context(), payload.Genre)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, genre)
	}
}

func GenreList(svc genres.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
