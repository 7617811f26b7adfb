package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"carpool/internal/handler"
	"carpool/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	OfferHandler   *handler.OfferHandler
	RequestHandler *handler.RequestHandler
	ImpactHandler  *handler.ImpactHandler
	RouteHandler   *handler.RouteHandler
	RedisClient    *redis.Client // nil disables idempotency caching
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.POST("/login", deps.UserHandler.Login)
			users.GET("", deps.UserHandler.ListUsers)
			users.GET("/:id", deps.UserHandler.GetProfile)
			users.POST("/:id/rating", deps.UserHandler.RecordRating)
		}

		// Offer routes.
		offers := v1.Group("/offers")
		{
			offers.POST("", deps.OfferHandler.CreateOffer)
			offers.GET("", deps.OfferHandler.ListActive)
			offers.GET("/:id", deps.OfferHandler.GetOffer)
			offers.POST("/:id/cancel", deps.OfferHandler.CancelOffer)
			offers.POST("/:id/join", deps.OfferHandler.Join)
			offers.POST("/:id/leave", deps.OfferHandler.Leave)
		}

		// Request routes.
		requests := v1.Group("/requests")
		{
			requests.POST("", deps.RequestHandler.CreateRequest)
			requests.GET("", deps.RequestHandler.ListOpen)
			requests.GET("/:id", deps.RequestHandler.GetRequest)
			requests.POST("/:id/cancel", deps.RequestHandler.CancelRequest)
			requests.GET("/:id/matches", deps.RequestHandler.GetMatches)
		}

		// Pure computation routes.
		v1.POST("/impact", deps.ImpactHandler.Compute)
		v1.POST("/routes/rank", deps.RouteHandler.Rank)
	}

	return router
}
