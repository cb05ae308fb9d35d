package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/moviereview-backend/internal/genres"
	"github.com/angelmondragon/moviereview-backend/internal/images"
	"github.com/angelmondragon/moviereview-backend/internal/movies"
	"github.com/angelmondragon/moviereview-backend/internal/reviews"
	"github.com/angelmondragon/moviereview-backend/pkg/config"
	"github.com/angelmondragon/moviereview-backend/pkg/db"
	"github.com/angelmondragon/moviereview-backend/pkg/db/dbtest"
	"github.com/angelmondragon/moviereview-backend/pkg/db/models"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
	"github.com/angelmondragon/moviereview-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type testServer struct {
	handler http.Handler
	uploads *images.DiskStore
	reg     *prometheus.Registry
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	conn := dbtest.Open(t)
	dbtest.MustCreate(t, conn, &models.User{UserID: 1, Name: "ana"})
	client := db.NewFromGorm(conn)

	movieRepo := movies.NewRepository(client)
	movieSvc, err := movies.NewService(movies.ServiceParams{Repo: movieRepo, Logger: logger.Nop()})
	require.NoError(t, err)
	genreSvc, err := genres.NewService(genres.NewRepository(conn))
	require.NoError(t, err)
	reviewSvc, err := reviews.NewService(reviews.ServiceParams{
		Repo:   reviews.NewRepository(conn),
		Movies: movieRepo,
		Logger: logger.Nop(),
	})
	require.NoError(t, err)

	cfg := &config.Config{
		App:   config.AppConfig{Env: "test"},
		CORS:  config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Media: config.MediaConfig{UploadDir: t.TempDir(), PublicPath: "/uploads", MaxUploadMB: 1},
	}
	store, err := images.NewDiskStore(cfg.Media)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	handler := NewRouter(cfg, logger.Nop(), stubPinger{}, nil, movieSvc, genreSvc, reviewSvc, store, metrics.NewHTTPMetrics(reg), reg)
	return testServer{handler: handler, uploads: store, reg: reg}
}

func (s testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func TestRouterHealth(t *testing.T) {
	srv := newTestServer(t)

	live := srv.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, live.Code)
	assert.NotEmpty(t, live.Header().Get("X-Request-Id"))

	ready := srv.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.Contains(t, ready.Body.String(), `"cache":"disabled"`)
}

func TestRouterMovieLifecycle(t *testing.T) {
	srv := newTestServer(t)

	created := srv.do(t, http.MethodPost, "/movies", `{"user_id":1,"title":"The Matrix","release_yr":1999,"length":136,"genre":["Action","Sci-Fi","Action"]}`)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	assert.Contains(t, created.Body.String(), `"message":"Movie created successfully"`)

	detail := srv.do(t, http.MethodGet, "/movies/1", "")
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), `"rating":null`)
	assert.Contains(t, detail.Body.String(), `"user":"ana"`)

	review := srv.do(t, http.MethodPost, "/reviews", `{"movie_id":1,"user_id":1,"rating":4,"review":"great"}`)
	require.Equal(t, http.StatusCreated, review.Code, review.Body.String())

	search := srv.do(t, http.MethodGet, "/movies?title=MATRIX", "")
	require.Equal(t, http.StatusOK, search.Code)
	assert.Contains(t, search.Body.String(), `"averageRating":4`)

	byUser := srv.do(t, http.MethodGet, "/movies/user/1", "")
	require.Equal(t, http.StatusOK, byUser.Code)
	assert.Contains(t, byUser.Body.String(), `"The Matrix"`)

	updated := srv.do(t, http.MethodPut, "/movies/1", `{"director":"Wachowskis"}`)
	require.Equal(t, http.StatusOK, updated.Code)
	assert.Contains(t, updated.Body.String(), `"director":"Wachowskis"`)

	deleted := srv.do(t, http.MethodDelete, "/movies/1", "")
	require.Equal(t, http.StatusOK, deleted.Code)
	assert.JSONEq(t, `{"deleted":true}`, deleted.Body.String())

	missing := srv.do(t, http.MethodGet, "/movies/1", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, `{"error":"Movie not found"}`, missing.Body.String())

	empty := srv.do(t, http.MethodGet, "/movies?title=matrix", "")
	assert.Equal(t, http.StatusNotFound, empty.Code)
	assert.JSONEq(t, `{"message":"No movies found"}`, empty.Body.String())
}

func TestRouterGenres(t *testing.T) {
	srv := newTestServer(t)

	first := srv.do(t, http.MethodPost, "/genres", `{"genre":"Noir"}`)
	require.Equal(t, http.StatusCreated, first.Code)
	again := srv.do(t, http.MethodPost, "/genres", `{"genre":"Noir"}`)
	require.Equal(t, http.StatusCreated, again.Code)
	assert.JSONEq(t, first.Body.String(), again.Body.String())

	list := srv.do(t, http.MethodGet, "/genres", "")
	require.Equal(t, http.StatusOK, list.Code)
	assert.JSONEq(t, `[{"genre_id":1,"genre":"Noir"}]`, list.Body.String())
}

func TestRouterReviewForMissingMovie(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodPost, "/reviews", `{"movie_id":42,"user_id":1,"rating":3}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRouterServesUploads(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(srv.uploads.Dir(), "poster.txt"), []byte("hello"), 0o644))

	resp := srv.do(t, http.MethodGet, "/uploads/poster.txt", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "hello", resp.Body.String())
}

func TestRouterMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/genres", "")

	resp := srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "http_requests_total")
}

func TestRouterCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/movies", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()

	srv.handler.ServeHTTP(resp, req)

	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
}
