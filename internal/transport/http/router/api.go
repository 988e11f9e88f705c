package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"logframe-studio/internal/core/auth"
	"logframe-studio/internal/core/server"
	"logframe-studio/internal/service"
	mdw "logframe-studio/internal/transport/http/middleware"
)

// Deps carries everything the engine mounts.
type Deps struct {
	Log      *zap.Logger
	JWTer    *auth.JWTer
	Users    *service.UserService
	Projects *service.ProjectService
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewEngine(d.Log)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(8<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Register/login are the only unauthenticated routes.
	MountAuthActions(api, d)

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWTer))
	MountBadgeActions(authed, d)
	MountProjectActions(authed, d)

	return r
}
