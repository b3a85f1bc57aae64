package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "returns-backend/internal/auth"
	"returns-backend/internal/claims"
	"returns-backend/internal/decisions"
	"returns-backend/internal/orders"
	"returns-backend/internal/photos"
	"returns-backend/internal/pipeline"
	"returns-backend/internal/policies"
	"returns-backend/internal/review"
	"returns-backend/internal/shared/config"
	"returns-backend/internal/shared/metrics"
	"returns-backend/internal/shared/server/middleware"
	"returns-backend/internal/shared/server/respond"
)

const analyzeRateGroup = "ANALYZE"

// RouterDeps carries the wired handlers into the router.
type RouterDeps struct {
	Config           config.Config
	ClaimsHandler    *claims.Handler
	DecisionsHandler *decisions.Handler
	PoliciesHandler  *policies.Handler
	PipelineHandler  *pipeline.Handler
	ReviewHandler    *review.Handler
	OrdersHandler    *orders.Handler
	PhotosHandler    *photos.Handler
	GoogleAuth       *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(rateLimits()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.ClaimsHandler != nil {
		deps.ClaimsHandler.RegisterRoutes(api)
	}
	if deps.DecisionsHandler != nil {
		deps.DecisionsHandler.RegisterRoutes(api)
	}
	if deps.PipelineHandler != nil {
		deps.PipelineHandler.RegisterRoutes(api)
	}
	if deps.OrdersHandler != nil {
		deps.OrdersHandler.RegisterRoutes(api)
	}
	if deps.PhotosHandler != nil {
		deps.PhotosHandler.RegisterRoutes(api)
	}

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())
	if deps.PoliciesHandler != nil {
		deps.PoliciesHandler.RegisterRoutes(admin)
	}
	if deps.ReviewHandler != nil {
		deps.ReviewHandler.RegisterRoutes(admin)
	}
	if deps.OrdersHandler != nil {
		deps.OrdersHandler.RegisterAdminRoutes(admin)
	}

	return r
}

// rateLimits throttles analysis runs harder than plain CRUD: every run fans
// out into several model calls.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":        {Rate: 10, Burst: 30},
			analyzeRateGroup: {Rate: 0.5, Burst: 3},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/analyze") {
				return analyzeRateGroup
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
