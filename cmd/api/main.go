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

	"github.com/sunilfabrications/backend/api/routes"
	"github.com/sunilfabrications/backend/internal/auth"
	"github.com/sunilfabrications/backend/internal/feedback"
	"github.com/sunilfabrications/backend/internal/gallery"
	"github.com/sunilfabrications/backend/internal/live"
	"github.com/sunilfabrications/backend/internal/media"
	"github.com/sunilfabrications/backend/internal/orders"
	"github.com/sunilfabrications/backend/internal/pricing"
	"github.com/sunilfabrications/backend/internal/users"
	"github.com/sunilfabrications/backend/pkg/auth/session"
	"github.com/sunilfabrications/backend/pkg/config"
	"github.com/sunilfabrications/backend/pkg/db"
	"github.com/sunilfabrications/backend/pkg/logger"
	"github.com/sunilfabrications/backend/pkg/maps"
	"github.com/sunilfabrications/backend/pkg/migrate"
	"github.com/sunilfabrications/backend/pkg/redis"
	"github.com/sunilfabrications/backend/pkg/storage/gcs"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gcs client", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(
		media.NewRepository(dbClient.DB()),
		gcsClient,
		cfg.GCS,
		cfg.Media,
		cfg.FeatureFlags.GCSAccessMode,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	hub := live.NewHub(logg)

	pricingService, err := pricing.NewService(pricing.NewRepository(dbClient.DB()), hub, cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	galleryService, err := gallery.NewService(gallery.NewRepository(dbClient.DB()), mediaService, hub)
	if err != nil {
		logg.Error(context.Background(), "failed to create gallery service", err)
		os.Exit(1)
	}

	feedbackService, err := feedback.NewService(feedback.NewRepository(dbClient.DB()), mediaService, hub)
	if err != nil {
		logg.Error(context.Background(), "failed to create feedback service", err)
		os.Exit(1)
	}

	ordersParams := orders.ServiceParams{
		Repo:     orders.NewRepository(dbClient.DB()),
		Tx:       dbClient,
		Rates:    pricingService,
		Photos:   mediaService,
		Notifier: hub,
		WhatsApp: cfg.WhatsApp,
	}
	if cfg.GoogleMaps.APIKey != "" {
		mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			logg.Error(context.Background(), "failed to create maps client", err)
			os.Exit(1)
		}
		ordersParams.Geocoder = mapsClient
	}
	ordersService, err := orders.NewService(ordersParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	hub.RegisterLoader(orders.CollectionOrders, ordersService.Snapshot)
	hub.RegisterLoader(pricing.CollectionPricing, pricingService.Snapshot)
	hub.RegisterLoader(gallery.CollectionGallery, galleryService.Snapshot)
	hub.RegisterLoader(feedback.CollectionFeedback, feedbackService.Snapshot)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionChecker: sessionManager,
			Hub:            hub,
			AuthService:    authService,
			UsersRepo:      usersRepo,
			OrdersService:  ordersService,
			PricingService: pricingService,
			GalleryService: galleryService,
			FeedbackSvc:    feedbackService,
			MediaService:   mediaService,
		}),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}
