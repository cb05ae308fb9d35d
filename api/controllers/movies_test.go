package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/moviereview-backend/internal/movies"
	pkgerrors "github.com/angelmondragon/moviereview-backend/pkg/errors"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
)

type stubMovieService struct {
	createReq   movies.CreateMovieRequest
	created     movies.MovieDTO
	detail      movies.MovieDetailDTO
	summaries   []movies.MovieSummaryDTO
	filters     movies.SearchFilters
	listedUser  int64
	updatedID   int64
	updatePatch movies.UpdateMovieRequest
	deletedID   int64
	err         error
}

func (s *stubMovieService) Create(ctx context.Context, req movies.CreateMovieRequest) (movies.MovieDTO, error) {
	s.createReq = req
	return s.created, s.err
}

func (s *stubMovieService) Get(ctx context.Context, id int64) (movies.MovieDetailDTO, error) {
	return s.detail, s.err
}

func (s *stubMovieService) ListByUser(ctx context.Context, userID int64) ([]movies.MovieSummaryDTO, error) {
	s.listedUser = userID
	return s.summaries, s.err
}

func (s *stubMovieService) Search(ctx context.Context, filters movies.SearchFilters) ([]movies.MovieSummaryDTO, error) {
	s.filters = filters
	return s.summaries, s.err
}

func (s *stubMovieService) Update(ctx context.Context, id int64, patch movies.UpdateMovieRequest) (movies.MovieDTO, error) {
	s.updatedID = id
	s.updatePatch = patch
	return s.created, s.err
}

func (s *stubMovieService) Delete(ctx context.Context, id int64) error {
	s.deletedID = id
	return s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestMovieCreateReturnsCreated(t *testing.T) {
	svc := &stubMovieService{created: movies.MovieDTO{MovieID: 7, UserID: 1, Title: "Alien"}}
	body := `{"user_id":1,"title":"Alien","release_yr":1979,"length":117,"genre":["Horror","Sci-Fi"]}`
	req := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewBufferString(body))
	resp := httptest.NewRecorder()

	MovieCreate(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, []string{"Horror", "Sci-Fi"}, svc.createReq.Genre)
	got := decodeBody(t, resp)
	assert.Equal(t, "Movie created successfully", got["message"])
	movie := got["movie"].(map[string]any)
	assert.EqualValues(t, 7, movie["movie_id"])
}

func TestMovieCreateRejectsMissingTitle(t *testing.T) {
	svc := &stubMovieService{}
	req := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewBufferString(`{"user_id":1}`))
	resp := httptest.NewRecorder()

	MovieCreate(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, decodeBody(t, resp), "error")
	assert.Empty(t, svc.createReq.Title)
}

func TestMovieCreateServiceFailure(t *testing.T) {
	svc := &stubMovieService{err: pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("tx aborted"), "Failed to create movie")}
	req := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewBufferString(`{"user_id":1,"title":"Alien"}`))
	resp := httptest.NewRecorder()

	MovieCreate(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Failed to create movie", decodeBody(t, resp)["error"])
}

func TestMovieGetNotFound(t *testing.T) {
	svc := &stubMovieService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Movie not found")}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/movies/99", nil), "id", "99")
	resp := httptest.NewRecorder()

	MovieGet(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Movie not found", decodeBody(t, resp)["error"])
}

func TestMovieGetRejectsBadID(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/movies/abc", nil), "id", "abc")
	resp := httptest.NewRecorder()

	MovieGet(&stubMovieService{}, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMovieGetReturnsDetail(t *testing.T) {
	rating := 3.0
	svc := &stubMovieService{detail: movies.MovieDetailDTO{
		MovieDTO: movies.MovieDTO{MovieID: 3, Title: "Heat"},
		Rating:   &rating,
		Genres:   []string{"Crime"},
		User:     "ana",
		RR:       []movies.ReviewEntry{},
	}}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/movies/3", nil), "id", "3")
	resp := httptest.NewRecorder()

	MovieGet(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeBody(t, resp)
	assert.Equal(t, "Heat", got["title"])
	assert.EqualValues(t, 3, got["rating"])
	assert.Equal(t, "ana", got["user"])
}

func TestMoviesByUserEmptyListIsOK(t *testing.T) {
	svc := &stubMovieService{summaries: []movies.MovieSummaryDTO{}}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/movies/user/4", nil), "id", "4")
	resp := httptest.NewRecorder()

	MoviesByUser(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, int64(4), svc.listedUser)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestMovieSearchNoResults(t *testing.T) {
	svc := &stubMovieService{summaries: []movies.MovieSummaryDTO{}}
	req := httptest.NewRequest(http.MethodGet, "/movies?title=%20matrix%20&genre=Action", nil)
	resp := httptest.NewRecorder()

	MovieSearch(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"message":"No movies found"}`, resp.Body.String())
	assert.Equal(t, movies.SearchFilters{Title: "matrix", Genre: "Action"}, svc.filters)
}

func TestMovieSearchResults(t *testing.T) {
	svc := &stubMovieService{summaries: []movies.MovieSummaryDTO{
		{MovieDTO: movies.MovieDTO{MovieID: 2, Title: "The Matrix"}, Genres: []string{"Action"}},
	}}
	req := httptest.NewRequest(http.MethodGet, "/movies?title=matrix", nil)
	resp := httptest.NewRecorder()

	MovieSearch(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Nil(t, got[0]["averageRating"])
}

func TestMovieUpdatePassesPatch(t *testing.T) {
	svc := &stubMovieService{created: movies.MovieDTO{MovieID: 5, Title: "Renamed"}}
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/movies/5", bytes.NewBufferString(`{"title":"Renamed","genre":["Drama"]}`)), "id", "5")
	resp := httptest.NewRecorder()

	MovieUpdate(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, int64(5), svc.updatedID)
	require.NotNil(t, svc.updatePatch.Title)
	assert.Equal(t, "Renamed", *svc.updatePatch.Title)
	assert.Equal(t, []string{"Drama"}, svc.updatePatch.Genre)
	assert.Nil(t, svc.updatePatch.Director)
}

func TestMovieUpdateAcceptsEchoedDetail(t *testing.T) {
	svc := &stubMovieService{created: movies.MovieDTO{MovieID: 7, Title: "Heat"}}
	body := `{"movie_id":7,"user_id":1,"title":"Heat","director":"Mann","rating":4.5,"averageRating":null,
		"genres":["Crime"],"user":"Ada","rr":[{"rr_id":1,"user_id":2,"user":"Grace","review":"tense","rating":4.5}]}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/movies/7", bytes.NewBufferString(body)), "id", "7")
	resp := httptest.NewRecorder()

	MovieUpdate(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NotNil(t, svc.updatePatch.Director)
	assert.Equal(t, "Mann", *svc.updatePatch.Director)
	assert.Nil(t, svc.updatePatch.Genre)
}

func TestMovieUpdateRejectsUnknownFields(t *testing.T) {
	svc := &stubMovieService{}
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/movies/7", bytes.NewBufferString(`{"colour":"red"}`)), "id", "7")
	resp := httptest.NewRecorder()

	MovieUpdate(svc, logger.Nop()).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, svc.updatedID)
}

func TestMovieDeleteReturnsDeleted(t *testing.T) {
	svc := &stubMovieService{}
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/movies/8", nil), "id", "8")
	resp := httptest.NewRecorder()

	MovieDelete(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, int64(8), svc.deletedID)
	assert.JSONEq(t, `{"deleted":true}`, resp.Body.String())
}

func TestMovieDeleteFailure(t *testing.T) {
	svc := &stubMovieService{err: pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("fk"), "Failed to delete movie")}
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/movies/8", nil), "id", "8")
	resp := httptest.NewRecorder()

	MovieDelete(svc, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Failed to delete movie", decodeBody(t, resp)["error"])
}
