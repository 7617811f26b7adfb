package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/app"
	"carpool/internal/config"
	"carpool/internal/handler"
	internalRedis "carpool/internal/redis"
	"carpool/internal/repository/postgres"
	"carpool/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Redis is optional. Without it booking relies on in-process locking
	// and matching skips the driver rating cache.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores (nil when Redis is disabled).
	var lockStore internalRedis.LockStoreInterface
	var cacheStore internalRedis.CacheStoreInterface
	if redisClient != nil {
		lockStore = internalRedis.NewLockStore(redisClient)
		cacheStore = internalRedis.NewCacheStore(redisClient)
	}

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	offerRepo := postgres.NewOfferRepository(db)
	requestRepo := postgres.NewRequestRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService()
	accountService := service.NewAccountService(userRepo, cacheStore)
	offerService := service.NewOfferService(offerRepo, userRepo, cacheStore, notificationService)
	requestService := service.NewRequestService(requestRepo)
	matchingService := service.NewMatchingService(offerRepo, userRepo, cacheStore, service.MatchConfig{
		PriceWeight:       cfg.Matching.PriceWeight,
		TimeWeight:        cfg.Matching.TimeWeight,
		RatingWeight:      cfg.Matching.RatingWeight,
		FlexibilityWindow: cfg.Matching.FlexibilityWindow,
	})
	bookingService := service.NewBookingService(offerRepo, userRepo, lockStore, cacheStore, notificationService)
	impactCalculator := service.NewImpactCalculator(service.ImpactFactorsForLocale(cfg.Impact.Locale))
	routeScorer := service.NewRouteScorer()

	// Initialize handlers.
	userHandler := handler.NewUserHandler(accountService)
	offerHandler := handler.NewOfferHandler(offerService, bookingService, requestService)
	requestHandler := handler.NewRequestHandler(requestService, matchingService)
	impactHandler := handler.NewImpactHandler(impactCalculator)
	routeHandler := handler.NewRouteHandler(routeScorer)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:    userHandler,
		OfferHandler:   offerHandler,
		RequestHandler: requestHandler,
		ImpactHandler:  impactHandler,
		RouteHandler:   routeHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
