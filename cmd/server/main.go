package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-listings-api/internal/api"
	"car-listings-api/internal/config"
	"car-listings-api/internal/handlers"
	"car-listings-api/internal/middleware"
	"car-listings-api/internal/page"
	"car-listings-api/internal/scrapers"
	"car-listings-api/internal/services"
	"car-listings-api/pkg/browser"
	"car-listings-api/pkg/cache"
	"car-listings-api/pkg/logging"
	"car-listings-api/pkg/metrics"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisCache := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.RedisDB, cfg.CacheTTL, logger)
	defer func() { _ = redisCache.Close() }()

	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout,
		api.WithLogger(logger.Named("api")),
		api.WithMetrics(m),
	)

	listingsService := services.NewListingsService(client, redisCache, cfg.PageSize, logger.Named("listings"), m)
	optionsService := services.NewOptionsService(client, redisCache, logger.Named("options"), m)
	analyticsService := services.NewAnalyticsService(client, redisCache, logger.Named("analytics"))

	var previewer *scrapers.PreviewScraper
	if cfg.PreviewEnabled {
		previewer = scrapers.NewPreviewScraper(cfg.PreviewAllowedDomains, cfg.APITimeout, logger.Named("preview"))
		if cfg.BrowserEnabled {
			renderer := browser.NewRenderer(cfg.ChromePath, logger.Named("browser"))
			defer renderer.Close()
			previewer.SetRenderer(renderer)
		}
		listingsService.SetPreviewer(previewer)
	}

	sessions := page.NewRegistry(func(initialQuery string) *page.Page {
		narrower := services.NewNarrower(optionsService, m)
		return page.New(listingsService, narrower, initialQuery, logger.Named("browse"))
	}, cfg.SessionTTL, m)
	go sessions.Run(ctx, time.Minute)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go limiter.Run(ctx, time.Minute)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger.Named("http"), m))
	r.Use(limiter.Middleware())

	h := &handlers.Handler{
		Listings:  listingsService,
		Options:   optionsService,
		Analytics: analyticsService,
		Sessions:  sessions,
		Cache:     redisCache,
		Limiter:   limiter,
		Metrics:   m,
		Log:       logger,
		Version:   version,
	}
	if previewer != nil {
		h.Previewer = previewer
	}
	h.Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.Port),
			zap.String("api", cfg.APIBaseURL),
			zap.String("environment", cfg.Environment),
			zap.Bool("cache", redisCache.IsAvailable()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
