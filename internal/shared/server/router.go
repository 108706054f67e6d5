package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiiromate/JATA-V1/internal/applications"
	"github.com/kiiromate/JATA-V1/internal/services/health"
	"github.com/kiiromate/JATA-V1/internal/shared/config"
	"github.com/kiiromate/JATA-V1/internal/shared/metrics"
	"github.com/kiiromate/JATA-V1/internal/shared/server/middleware"
	"github.com/kiiromate/JATA-V1/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config             config.Config
	ApplicationHandler *applications.Handler
	Health             *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "route not found")
	})

	r.GET("/metrics", metrics.Handler())

	// The original frontend calls the bare paths; /api/v1 mirrors them.
	root := r.Group("")
	api := r.Group("/api/v1")
	for _, rg := range []*gin.RouterGroup{root, api} {
		rg.GET("/health", healthHandler(deps.Health))
		if deps.ApplicationHandler != nil {
			deps.ApplicationHandler.RegisterRoutes(rg)
		}
	}

	return r
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := svc.Status(c.Request.Context())
		if !ok {
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.OK(c, status)
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
