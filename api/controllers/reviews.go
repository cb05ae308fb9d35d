package controllers

import (
	"net/http"

	"github.com/angelmondragon/moviereview-backend/api/responses"
	"github.com/angelmondragon/moviereview-backend/api/validators"
	"github.com/angelmondragon/moviereview-backend/internal/reviews"
	pkgerrors "github.com/angelmondragon/moviereview-backend/pkg/errors"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
)

// ReviewCreate handles POST /reviews.
func ReviewCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reviews.CreateReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithMovieID(r.Context(), payload.MovieID)
		ctx = logg.WithUserID(ctx, payload.UserID)
		review, err := svc.Create(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, review)
	}
}

// ReviewList handles GET /reviews?movie_id=.
func ReviewList(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := validators.ParseQueryInt64(r, "movie_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if movieID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "movie_id is required"))
			return
		}

		ctx := logg.WithMovieID(r.Context(), movieID)
		list, err := svc.ListByMovie(ctx, movieID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ReviewGet(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

func ReviewDelete(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
