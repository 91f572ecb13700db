package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mangashelf/internal/auth"
	"mangashelf/internal/config"
	"mangashelf/internal/history"
	synchub "mangashelf/internal/sync"
	"mangashelf/internal/workflow"
)

// Deps are the collaborators the router wires. DB and History may be nil
// when run history is disabled.
type Deps struct {
	DB       *sql.DB
	History  *history.Repo
	Hub      *synchub.Hub
	Comparer *workflow.Comparer
	Tokens   auth.TokenService
	Auth     *auth.Handler
	Server   config.Server
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLog(), RequestMetrics(), RateLimit(d.Server.RateLimit, d.Server.RateBurst), BodyLimit(d.Server.MaxBodyBytes))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := d.Hub.Stats()
		if d.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "disabled", "ws_clients": stats.WSClients})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok", "ws_clients": stats.WSClients})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", synchub.WSHandler(d.Hub))

	d.Auth.RegisterRoutes(router.Group("/auth"))

	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware(d.Tokens))
	NewCompareHandler(d.Comparer).RegisterRoutes(protected)
	if d.History != nil {
		NewRunsHandler(d.History).RegisterRoutes(protected)
	}

	return router
}
