package main

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/atelierliu/renoquote-backend/api/controllers"
	"github.com/atelierliu/renoquote-backend/api/routes"
	"github.com/atelierliu/renoquote-backend/internal/acceptance"
	"github.com/atelierliu/renoquote-backend/internal/attachments"
	"github.com/atelierliu/renoquote-backend/internal/auth"
	"github.com/atelierliu/renoquote-backend/internal/calendar"
	"github.com/atelierliu/renoquote-backend/internal/clients"
	"github.com/atelierliu/renoquote-backend/internal/quotes"
	"github.com/atelierliu/renoquote-backend/internal/users"
	"github.com/atelierliu/renoquote-backend/pkg/auth/session"
	"github.com/atelierliu/renoquote-backend/pkg/config"
	"github.com/atelierliu/renoquote-backend/pkg/db"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
	"github.com/atelierliu/renoquote-backend/pkg/metrics"
	"github.com/atelierliu/renoquote-backend/pkg/migrate"
	"github.com/atelierliu/renoquote-backend/pkg/redis"
	"github.com/atelierliu/renoquote-backend/pkg/storage/gcs"
)

// quoteFileCleaner fans a quote deletion out to every module that stores
// blobs for it, so no orphaned objects survive the quote.
type quoteFileCleaner struct {
	attachments attachments.Service
	photos      acceptance.Service
}

func (c quoteFileCleaner) RemoveQuoteFiles(ctx context.Context, quoteID uuid.UUID) error {
	if err := c.attachments.RemoveQuoteFiles(ctx, quoteID); err != nil {
		return err
	}
	return c.photos.RemoveQuoteFiles(ctx, quoteID)
}

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cloud storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing cloud storage", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	maxUploadBytes := int64(cfg.Uploads.MaxUploadMB) * 1024 * 1024

	attachmentService, err := attachments.NewService(
		attachments.NewRepository(dbClient.DB()),
		gcsClient,
		cfg.GCS.BucketName,
		cfg.GCS.UploadURLExpiry,
		maxUploadBytes,
		cfg.Uploads.MaxBatchFiles,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create attachments service", err)
		os.Exit(1)
	}

	acceptanceService, err := acceptance.NewService(
		acceptance.NewRepository(dbClient.DB()),
		gcsClient,
		cfg.GCS.BucketName,
		cfg.GCS.UploadURLExpiry,
		maxUploadBytes,
		cfg.Uploads.MaxBatchFiles,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create acceptance service", err)
		os.Exit(1)
	}

	quoteService, err := quotes.NewService(
		quotes.NewRepository(dbClient.DB()),
		quoteFileCleaner{attachments: attachmentService, photos: acceptanceService},
		redisClient,
		gcsClient,
		cfg.GCS.BucketName,
		cfg.GCS.UploadURLExpiry,
		cfg.Share.LinkTTL,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create quotes service", err)
		os.Exit(1)
	}

	calendarService, err := calendar.NewService(calendar.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create calendar service", err)
		os.Exit(1)
	}

	clientService, err := clients.NewService(clients.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create clients service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(usersRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	healthDeps := map[string]controllers.Pinger{
		"db":    dbClient,
		"redis": redisClient,
		"gcs":   gcsClient,
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			healthDeps,
			redisClient,
			sessionManager,
			usersRepo,
			authService,
			registerService,
			quoteService,
			attachmentService,
			acceptanceService,
			calendarService,
			clientService,
			userService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
