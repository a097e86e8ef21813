package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/config"
	"github.com/avdeyev/storefront/internal/events"
	"github.com/avdeyev/storefront/internal/httpserver"
	"github.com/avdeyev/storefront/internal/logging"
	authmw "github.com/avdeyev/storefront/internal/middleware/auth"
	loggingmw "github.com/avdeyev/storefront/internal/middleware/logging"
	"github.com/avdeyev/storefront/internal/models"
	"github.com/avdeyev/storefront/internal/repo"
	"github.com/avdeyev/storefront/internal/search"
	"github.com/avdeyev/storefront/internal/service"
	pkgdb "github.com/avdeyev/storefront/pkg/db"
)

const tokenSweepInterval = time.Hour

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "storefront")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DSN())
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(cfg.KafkaAddress)
	}

	esClient, err := search.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search falls back to database", "error", err)
	}

	r := repo.New(db)
	searchSvc := search.NewService(esClient, "products", r)
	authSvc := &service.AuthService{
		Repo:     r,
		Producer: producer,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.JWTTTL,
	}
	catalogSvc := &service.CatalogService{Repo: r, Producer: producer, Search: searchSvc}
	cartSvc := &service.CartService{Repo: r}
	favoritesSvc := &service.FavoritesService{Repo: r}
	imageSvc := &service.ImageService{Dir: cfg.AssetsDir}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:      &httpserver.AuthHTTP{Svc: authSvc, Secure: cfg.SecureCookies},
		CatalogHandler:   &httpserver.CatalogHTTP{Svc: catalogSvc, Search: searchSvc},
		CartHandler:      &httpserver.CartHTTP{Svc: cartSvc},
		FavoritesHandler: &httpserver.FavoritesHTTP{Svc: favoritesSvc},
		AdminHandler:     &httpserver.AdminHTTP{Catalog: catalogSvc, Images: imageSvc},
		Session:          &authmw.SessionMiddleware{Auth: authSvc},
		AdminKey:         cfg.AdminKey,
	})

	sweepCtx, stopSweep := context.WithCancel(logging.IntoContext(context.Background(), logger))
	go func() {
		ticker := time.NewTicker(tokenSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				authSvc.SweepExpiredTokens(sweepCtx)
			}
		}
	}()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	stopSweep()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
