package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodwise/backend/internal/api"
	"github.com/pageza/foodwise/backend/internal/middleware"
	"github.com/pageza/foodwise/backend/internal/observability"
)

// Handlers are the route groups served by the API
type Handlers struct {
	Health         *api.HealthHandler
	Recipes        *api.RecipeHandler
	Recommendation *api.RecommendationHandler
	Analyzer       *api.FoodAnalyzerHandler
}

// Options tune the middleware stack
type Options struct {
	CORSOrigins []string
	// RateLimiter is applied to the model-backed routes when set
	RateLimiter *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		// outside recovery so recovered panics are counted as 5xx
		observability.Middleware(),
		middleware.ErrorHandler(),
		middleware.CORS(opts.CORSOrigins),
	)

	h.Health.RegisterRoutes(router)
	router.GET("/metrics", observability.Handler())

	public := router.Group("")
	if opts.RateLimiter != nil {
		public.Use(opts.RateLimiter.Middleware())
	}
	h.Recipes.RegisterRoutes(public)
	h.Recommendation.RegisterRoutes(public)
	h.Analyzer.RegisterRoutes(public)

	return router
}
