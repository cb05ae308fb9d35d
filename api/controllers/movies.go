package controllers

import (
	"net/http"

	"github.com/angelmondragon/moviereview-backend/api/responses"
	"github.com/angelmondragon/moviereview-backend/api/validators"
	"github.com/angelmondragon/moviereview-backend/internal/movies"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
)

const (
	msgNoMovies       = "No movies found"
	maxSearchParamLen = 255
)

// MovieCreate handles POST /movies.
func MovieCreate(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload movies.CreateMovieRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUserID(r.Context(), payload.UserID)
		movie, err := svc.Create(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		logg.Info(logg.WithMovieID(ctx, movie.MovieID), "movie.created")
		responses.WriteJSON(w, http.StatusCreated, movies.CreateMovieResponse{
			Message: movies.MsgCreated,
			Movie:   movie,
		})
	}
}

// MovieGet handles GET /movies/{id}.
func MovieGet(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithMovieID(r.Context(), id)
		detail, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// MoviesByUser handles GET /movies/user/{id}. A user with no movies gets an empty list.
func MoviesByUser(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUserID(r.Context(), userID)
		list, err := svc.ListByUser(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// MovieSearch handles GET /movies?title=&genre=.
func MovieSearch(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := movies.SearchFilters{
			Title: validators.SanitizeString(q.Get("title"), maxSearchParamLen),
			Genre: validators.SanitizeString(q.Get("genre"), maxSearchParamLen),
		}

		list, err := svc.Search(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(list) == 0 {
			responses.WriteMessage(w, http.StatusNotFound, msgNoMovies)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// MovieUpdate handles PUT /movies/{id}.
func MovieUpdate(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var patch movies.UpdateMovieRequest
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithMovieID(r.Context(), id)
		movie, err := svc.Update(ctx, id, patch)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, movie)
	}
}

// MovieDelete handles DELETE /movies/{id}.
func MovieDelete(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithMovieID(r.Context(), id)
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, movies.DeleteMovieResponse{Deleted: true})
	}
}
