// Package router assembles CrossFund's gin engine: public quote/execute
// endpoints, the execution-status websocket, the admin surface gated by
// JWT+TOTP and an IP allowlist, and the Prometheus scrape endpoint.
// Grounded on the teacher's router.go top-level layout (ping/health/
// metrics/admin/API groups wired onto one *gin.Engine).
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"crossfund/internal/admin"
	"crossfund/internal/chain"
	"crossfund/internal/config"
	"crossfund/internal/events"
	"crossfund/internal/facade"
	"crossfund/internal/handlers"
	"crossfund/internal/middleware"
	"crossfund/internal/store"
	"crossfund/internal/ws"
)

// Deps bundles everything SetupRouter needs to construct handlers. One
// struct keeps the constructor signature stable as the domain stack
// grows, following the teacher's pattern of threading a handful of
// shared singletons (db, services) into SetupRouter.
type Deps struct {
	CrossFund *facade.CrossFund
	Registry  *chain.Registry
	Store     *store.Store
	Publisher *events.Publisher
	Hub       *ws.Hub
	Auth      *admin.Auth
	Logger    *logrus.Logger
}

// SetupRouter builds the gin engine and registers every route.
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(deps.Logger))

	var allowedIPs []string
	if config.AppConfig != nil {
		allowedIPs = config.AppConfig.Admin.AllowedIPs
	}
	ipAllowlist := middleware.NewIPAllowlist(deps.Logger, allowedIPs)
	adminAuth := middleware.NewAdminAuth(deps.Auth, deps.Logger)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "crossfund"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	quoteHandler := handlers.NewQuoteHandler(deps.CrossFund)
	executeHandler := handlers.NewExecuteHandler(deps.CrossFund, deps.Store, deps.Publisher, deps.Hub, deps.Logger)
	registryHandler := handlers.NewRegistryHandler(deps.Registry)
	adminHandler := handlers.NewAdminHandler(deps.Auth, deps.Store)

	api := r.Group("/api")
	{
		api.POST("/quote", quoteHandler.GetQuote)
		api.POST("/quotes", quoteHandler.GetQuotes)
		api.POST("/prepare", quoteHandler.PrepareTransactions)
		api.POST("/execute", executeHandler.Execute)
		api.POST("/check-approval", quoteHandler.CheckApproval)

		api.GET("/chains", registryHandler.ListChains)
		api.GET("/chains/:chainId", registryHandler.GetChain)

		adminGroup := api.Group("/admin")
		adminGroup.Use(ipAllowlist.Restrict())
		{
			adminGroup.POST("/login", adminHandler.Login)

			protected := adminGroup.Group("")
			protected.Use(adminAuth.RequireAdmin())
			{
				protected.POST("/cache/expire", adminHandler.ForceExpireCache)
				protected.GET("/executions", adminHandler.ListRecentExecutions)
				protected.GET("/executions/:quoteId", adminHandler.GetExecution)
			}
		}
	}

	r.GET("/ws/executions/:id", executeHandler.ServeExecutionStatus)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "endpoint not found",
			"path":    c.Request.URL.Path,
		})
	})

	return r
}
