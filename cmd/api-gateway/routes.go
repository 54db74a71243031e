package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/lifeng-edu/exam-duty-api/internal/handler"
	"github.com/lifeng-edu/exam-duty-api/internal/middleware"
	"github.com/lifeng-edu/exam-duty-api/internal/service"
	"github.com/lifeng-edu/exam-duty-api/pkg/config"
	"github.com/lifeng-edu/exam-duty-api/pkg/logger"
	corsmiddleware "github.com/lifeng-edu/exam-duty-api/pkg/middleware/cors"
	reqidmiddleware "github.com/lifeng-edu/exam-duty-api/pkg/middleware/requestid"
)

type apiHandlers struct {
	auth        *handler.AuthHandler
	rosters     *handler.RosterHandler
	allocations *handler.AllocationHandler
	statistics  *handler.StatisticsHandler
	exports     *handler.ExportHandler
}

// newRouter wires middleware and routes. Reads are open; mutating endpoints
// require a bearer token. Export downloads are authorised by their signed
// expiring token instead, so a browser can follow the returned URL directly.
func newRouter(cfg *config.Config, logr *zap.Logger, metricsSvc *service.MetricsService, authSvc *service.AuthService, h apiHandlers, ready gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", ready)
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	requireAuth := middleware.JWT(authSvc)

	auth := api.Group("/auth")
	auth.POST("/login", h.auth.Login)
	auth.POST("/refresh", h.auth.Refresh)

	rosters := api.Group("/rosters")
	rosters.GET("/templates", h.rosters.Templates)
	rosters.GET("/rooms", h.rosters.ListRooms)
	rosters.PUT("/rooms", requireAuth, h.rosters.ReplaceRooms)
	rosters.GET("/staff", h.rosters.ListStaff)
	rosters.PUT("/staff", requireAuth, h.rosters.ReplaceStaff)
	rosters.GET("/timeslots", h.rosters.ListTimeSlots)
	rosters.PUT("/timeslots", requireAuth, h.rosters.ReplaceTimeSlots)
	rosters.GET("/sessions", h.rosters.ListSessions)
	rosters.PUT("/sessions", requireAuth, h.rosters.ReplaceSessions)
	rosters.GET("/fixed-sessions", h.rosters.ListFixedSessions)
	rosters.PUT("/fixed-sessions", requireAuth, h.rosters.ReplaceFixedSessions)

	allocations := api.Group("/allocations")
	allocations.POST("/run", requireAuth, h.allocations.Run)
	allocations.GET("/latest", h.allocations.Latest)
	allocations.GET("/:id", h.allocations.Get)
	allocations.GET("/:id/assignments", h.allocations.ListAssignments)
	allocations.GET("/:id/export.csv", h.allocations.ExportCSV)

	if cfg.Statistics.Enabled && h.statistics != nil {
		statistics := api.Group("/statistics")
		statistics.GET("/staff", h.statistics.StaffStats)
		statistics.GET("/rooms", h.statistics.RoomStats)
		statistics.GET("/abnormal", h.statistics.Abnormal)
	}

	if h.exports != nil {
		exports := api.Group("/exports")
		exports.POST("", requireAuth, h.exports.Enqueue)
		exports.GET("/files", h.exports.Download)
		exports.GET("/:id", h.exports.Get)
	}

	return r
}
