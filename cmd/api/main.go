package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"currency-converter/internal/adapter/exchangerate"
	"currency-converter/internal/adapter/postgres"
	"currency-converter/internal/cache"
	"currency-converter/internal/handler"
	"currency-converter/internal/metrics"
	"currency-converter/internal/service"
	"currency-converter/internal/usecase"
	"currency-converter/pkg/config"
	"currency-converter/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	log.WithField("app", cfg.App.Name).Info("Starting app...")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize adapters
	ratesClient := exchangerate.NewClient(cfg.Rates.BaseURL, cfg.Rates.Timeout, log)
	log.WithField("url", cfg.Rates.BaseURL).Info("Initialized rate source client")

	rateMetrics := metrics.NewRateMetrics(prometheus.DefaultRegisterer)

	opts := []service.Option{service.WithTTL(cfg.Rates.CacheTTL)}

	if cfg.Postgres.Enabled {
		if err := postgres.RunMigrations(*cfg, log); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		dbPool, err := postgres.InitDBPool(rootCtx, *cfg, log)
		if err != nil {
			log.Fatalf("Failed to initialize db pool: %v", err)
		}
		defer dbPool.Close()

		opts = append(opts, service.WithSnapshotStore(postgres.NewSnapshotRepo(dbPool, log)))
		log.Info("Initialized snapshot repository")
	}

	// initialize service
	rateProvider := service.NewRateProvider(ratesClient, cache.NewRateCache(), rateMetrics, log, opts...)
	if err := rateProvider.Restore(rootCtx); err != nil {
		log.WithError(err).Warn("Starting with an empty rate cache")
	}
	log.WithField("ttl", rateProvider.TTL().String()).Info("Initialized service layer")

	// initialize usecase
	currencyUsecase := usecase.NewCurrencyUsecase(rateProvider, log)
	log.Info("Initialized usecase layer")

	currencyHandler := handler.NewCurrencyHandler(currencyUsecase, log)

	limiter, err := handler.NewRateLimiter(cfg.HTTP.RateLimit)
	if err != nil {
		log.Fatalf("Invalid http.rate_limit %q: %v", cfg.HTTP.RateLimit, err)
	}

	if slices.Contains([]string{gin.DebugMode, gin.ReleaseMode, gin.TestMode}, cfg.App.Mode) {
		gin.SetMode(cfg.App.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(log))

	// cors middleware
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length", handler.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.HTTP.AllowOrigins) == 0 || slices.Contains(cfg.HTTP.AllowOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.HTTP.AllowOrigins
	}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api", handler.RateLimit(limiter, log))
	admin := r.Group("/admin")
	currencyHandler.Register(api, admin)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// task sheduler
	c := cron.New()

	_, err = c.AddFunc(cfg.Rates.RefreshSpec, func() {
		log.Info("Warming exchange rates...")
		ctx, cancel := context.WithTimeout(rootCtx, 2*cfg.Rates.Timeout*time.Duration(max(1, len(cfg.Rates.WarmBases))))
		defer cancel()
		if err := currencyUsecase.WarmRates(ctx, cfg.Rates.WarmBases); err != nil {
			log.WithError(err).Warn("Scheduled warm-up finished with errors")
		}
	})
	if err != nil {
		log.Fatalf("Error adding warm-up task to schedule: %v", err)
	}

	c.Start()
	log.WithField("spec", cfg.Rates.RefreshSpec).Info("Scheduler initialized")

	go func() {
		if err := currencyUsecase.WarmRates(rootCtx, cfg.Rates.WarmBases); err != nil {
			log.WithError(err).Warn("Startup warm-up finished with errors")
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s...", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-rootCtx.Done()
	log.Info("Got shutdown signal...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Error during server shutdown")
	}
	log.Info("Server stopped")

	<-c.Stop().Done()
	log.Info("Scheduler stopped")

	rateProvider.Wait()

	log.Info("Gracefully shut down")
}
