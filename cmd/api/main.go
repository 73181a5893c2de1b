package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"reviewapi/docs"
	"reviewapi/internal/auth"
	"reviewapi/internal/cache"
	"reviewapi/internal/config"
	"reviewapi/internal/database"
	"reviewapi/internal/database/migration"
	handlers "reviewapi/internal/http/handler"
	"reviewapi/internal/http/middleware"
	"reviewapi/internal/logging"
	"reviewapi/internal/otel"
	"reviewapi/internal/policy"
	"reviewapi/internal/repository/postgres"
	"reviewapi/internal/service"
	"reviewapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Review API
// @version 1.0
// @description Company reviews, ratings and gallery images.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
	}

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}
	gateway, err := storage.NewGateway(objStore, storage.GatewayOptions{
		PublicURL: storage.PublicURL(cfg.MinIO),
		Prefix:    cfg.MinIO.Prefix,
		Timeout:   time.Duration(cfg.MinIO.TimeoutSec) * time.Second,
	}, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize media gateway")
	}

	var ratingCache cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		rc, err := cache.NewRedis(rdb, prometheus.DefaultRegisterer)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize rating cache")
		}
		ratingCache = rc
	} else {
		log.Info().Msg("REDIS_ADDR not set, rating cache disabled")
	}

	resolver, err := auth.NewJWTResolver(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token resolver")
	}

	reviewRepo := postgres.NewReviewPostgres(db)
	imageRepo := postgres.NewImagePostgres(db)

	svc := handlers.Services{
		Reviews: service.NewReviewService(reviewRepo, gateway, ratingCache, cfg.Limits.MaxReviewImages, log),
		Images: service.NewImageService(imageRepo, gateway, cfg.Limits.MaxCompanyImages,
			policy.ImageDelete(cfg.Limits.ImageDeleteOwnerOnly), log),
		Ratings: service.NewRatingService(reviewRepo, ratingCache,
			time.Duration(cfg.Redis.RatingTTLSec)*time.Second, log),
	}

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer, "/metrics", "/health", "/healthz")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.BodyLimitMB << 20,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMW.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, db, svc, middleware.Authenticate(resolver, cfg.Auth.CookieName))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info().Str("event", "server_start").Str("addr", addr).Msg("listening")
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("event", "server_shutdown").Msg("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := app.ShutdownWithContext(sctx); err != nil {
			errs = append(errs, err)
		}
		if shutdownTracing != nil {
			if err := shutdownTracing(sctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Str("event", "server_stopped").Msg("bye")
}
