package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/moviereview-backend/api/controllers"
	"github.com/angelmondragon/moviereview-backend/api/middleware"
	"github.com/angelmondragon/moviereview-backend/internal/genres"
	"github.com/angelmondragon/moviereview-backend/internal/images"
	"github.com/angelmondragon/moviereview-backend/internal/movies"
	"github.com/angelmondragon/moviereview-backend/internal/reviews"
	"github.com/angelmondragon/moviereview-backend/pkg/config"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
	"github.com/angelmondragon/moviereview-backend/pkg/metrics"
)

// UploadStore is the image store plus the directory it serves from.
type UploadStore interface {
	images.Store
	Dir() string
	PublicPath() string
}

// NewRouter wires every route. redisP may be nil when redis is not configured; gatherer may be
// nil to disable /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	movieService movies.Service,
	genreService genres.Service,
	reviewService reviews.Service,
	uploads UploadStore,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", controllers.MovieSearch(movieService, logg))
		r.Post("/", controllers.MovieCreate(movieService, logg))
		r.Get("/user/{id}", controllers.MoviesByUser(movieService, logg))
		r.Get("/{id}", controllers.MovieGet(movieService, logg))
		r.Put("/{id}", controllers.MovieUpdate(movieService, logg))
		r.Delete("/{id}", controllers.MovieDelete(movieService, logg))
	})

	r.Route("/genres", func(r chi.Router) {
		r.Get("/", controllers.GenreList(genreService, logg))
		r.Post("/", controllers.GenreCreate(genreService, logg))
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", controllers.ReviewList(reviewService, logg))
		r.Post("/", controllers.ReviewCreate(reviewService, logg))
		r.Get("/{id}", controllers.ReviewGet(reviewService, logg))
		r.Delete("/{id}", controllers.ReviewDelete(reviewService, logg))
	})

	r.Post("/upload", controllers.ImageUpload(uploads, cfg.Media.MaxUploadBytes(), logg))

	public := strings.TrimSuffix(uploads.PublicPath(), "/")
	fileServer := http.StripPrefix(public+"/", http.FileServer(http.Dir(uploads.Dir())))
	r.Get(public+"/*", fileServer.ServeHTTP)

	return r
}
