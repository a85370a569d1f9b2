// @title           StatureAI Headshot API
// @version         1.0.0
// @description     Backend API for AI headshot generation, credit packages and account administration.

// @BasePath  /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the Supabase access token.

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
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"stature-backend/internal/config"
	"stature-backend/internal/database"
	"stature-backend/internal/events"
	"stature-backend/internal/handlers"
	"stature-backend/internal/imagen"
	"stature-backend/internal/logger"
	"stature-backend/internal/middleware"
	"stature-backend/internal/services"
	"stature-backend/internal/storage"
	"stature-backend/internal/supabase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		bootLog := logger.New("development")
		bootLog.Warn().Msg("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("production")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Environment)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	migrator, err := database.NewMigrator(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize migrator")
	}
	if err := migrator.Run(); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	_ = migrator.Close()

	dbClient, err := supabase.NewDatabaseClient(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database client")
	}
	defer dbClient.Close()

	var identity services.IdentityAdmin
	if cfg.HasIdentityAdmin() {
		supabaseClient, err := supabase.NewClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Supabase client")
		}
		identity = supabaseClient
	} else {
		log.Warn().Msg("SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY not set, role claims will not be mirrored")
	}

	objectStore, err := newObjectStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	publisher, closePublisher, err := newPublisher(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event publisher")
	}
	defer closePublisher()

	imagenClient, err := imagen.NewClient(ctx, cfg.GeminiBaseURL, cfg.GeminiAPIKey,
		imagen.WithModels(cfg.GeminiImageModel, cfg.GeminiTextModel),
		imagen.WithTimeout(cfg.ProviderTimeout()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}

	userService := services.NewUserService(dbClient, identity, publisher, log)
	orderService := services.NewOrderService(dbClient, userService, publisher, log)
	generationService := services.NewGenerationService(imagenClient, services.GenerationLimits{
		MaxImages:    cfg.GenerationMaxImages,
		MaxUploads:   cfg.GenerationMaxUploads,
		Concurrency:  cfg.GenerationConcurrency,
		UnitAttempts: cfg.GenerationUnitAttempts,
	}, log)
	galleryService := services.NewGalleryService(objectStore, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	handlers.Register(router, cfg, handlers.Routes{
		Generation: handlers.NewGenerationHandler(generationService),
		Orders:     handlers.NewOrdersHandler(orderService),
		Users:      handlers.NewUsersHandler(userService),
		Gallery:    handlers.NewGalleryHandler(galleryService),
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	// Generation holds the connection open for the whole fan-out, so the
	// write timeout follows the provider timeout.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      cfg.ProviderTimeout() + time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server shut down gracefully")
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendSupabase:
		return storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseStorageBucket), nil
	case config.StorageBackendS3:
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	default:
		return storage.Disabled(), nil
	}
}

// newPublisher returns the Pub/Sub publisher when a topic is configured and
// the log publisher otherwise.
func newPublisher(ctx context.Context, cfg *config.Config, log zerolog.Logger) (events.Publisher, func(), error) {
	if cfg.PubSubTopic == "" {
		return events.NewLogPublisher(log), func() {}, nil
	}

	p, err := events.NewPubSubPublisher(ctx, cfg.GCPProjectID, cfg.PubSubTopic, cfg.PubSubEmulatorHost)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Pub/Sub client")
		}
	}, nil
}
