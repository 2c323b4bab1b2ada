package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/art-studio-api/internal/middleware"
	"github.com/noah-isme/art-studio-api/internal/models"
	"github.com/noah-isme/art-studio-api/internal/service"
	"github.com/noah-isme/art-studio-api/pkg/config"
	"github.com/noah-isme/art-studio-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/art-studio-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/art-studio-api/pkg/middleware/requestid"
)

// RouterDeps groups everything the HTTP layer needs.
type RouterDeps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Auth    *service.AuthService
	Groups  *service.GroupService
	Export  *service.ExportService
	Metrics *service.MetricsService
	DB      Pinger
}

// NewRouter builds the gin engine with middleware and every route mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	logr := deps.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	var tokens middleware.TokenValidator
	if deps.Auth != nil {
		tokens = deps.Auth
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(middleware.Session(tokens))
	r.Use(logger.GinMiddleware(logr, middleware.SessionLogFields))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	metricsHandler := NewMetricsHandler(deps.Metrics, deps.DB)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		r.GET(cfg.Metrics.Path, metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authHandler := NewAuthHandler(deps.Auth)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", middleware.RequireSession(), authHandler.Me)

	api.GET("/weekdays", NewWeekdayHandler().List)

	groupHandler := NewGroupHandler(deps.Groups)
	groups := api.Group("/groups")
	if deps.Export != nil {
		groups.GET("/export", NewExportHandler(deps.Export).Timetable)
	}
	groups.GET("", groupHandler.List)
	groups.GET("/:id", groupHandler.Get)
	groups.POST("", groupHandler.Create)
	groups.PUT("/:id", groupHandler.Update)
	groups.DELETE("/:id", groupHandler.Delete)

	api.GET("/metrics/summary", middleware.RequireRoles(models.RoleAdmin), metricsHandler.Snapshot)

	return r
}
