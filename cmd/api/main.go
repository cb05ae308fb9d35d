package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/moviereview-backend/api/controllers"
	"github.com/angelmondragon/moviereview-backend/api/routes"
	"github.com/angelmondragon/moviereview-backend/internal/genres"
	"github.com/angelmondragon/moviereview-backend/internal/images"
	"github.com/angelmondragon/moviereview-backend/internal/movies"
	"github.com/angelmondragon/moviereview-backend/internal/reviews"
	"github.com/angelmondragon/moviereview-backend/pkg/config"
	"github.com/angelmondragon/moviereview-backend/pkg/db"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
	"github.com/angelmondragon/moviereview-backend/pkg/memcache"
	"github.com/angelmondragon/moviereview-backend/pkg/metrics"
	"github.com/angelmondragon/moviereview-backend/pkg/migrate"
	"github.com/angelmondragon/moviereview-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var (
		movieCache  movies.RowCache
		redisPinger controllers.Pinger
	)
	if cfg.Redis.Enabled() {
		redisClient, rerr := redis.New(ctx, cfg.Redis, logg)
		if rerr != nil {
			logg.Warn(logg.WithField(ctx, "error", rerr.Error()), "redis unavailable, continuing without cache")
		} else {
			defer func() {
				err = multierr.Append(err, redisClient.Close())
			}()
			movieCache, redisPinger = redisClient, redisClient
		}
	}
	if movieCache == nil && cfg.Cache.LocalFallback {
		movieCache = memcache.New(cfg.Cache.MovieTTL)
		logg.Info(ctx, "using in-process movie cache")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var gatherer prometheus.Gatherer
	if cfg.FeatureFlags.Metrics {
		gatherer = reg
	}

	movieRepo := movies.NewRepository(dbClient)
	movieService, err := movies.NewService(movies.ServiceParams{
		Repo:     movieRepo,
		Cache:    movieCache,
		CacheTTL: cfg.Cache.MovieTTL,
		Metrics:  metrics.NewCacheMetrics(reg),
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	genreService, err := genres.NewService(genres.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repo:   reviews.NewRepository(dbClient.DB()),
		Movies: movieRepo,
		Logger: logg,
	})
	if err != nil {
		return err
	}

	uploads, err := images.NewDiskStore(cfg.Media)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisPinger,
			movieService,
			genreService,
			reviewService,
			uploads,
			metrics.NewHTTPMetrics(reg),
			gatherer,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"addr":  addr,
		"cache": redisPinger != nil,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
