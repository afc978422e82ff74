package routes

import (
	"github.com/BerniceZTT/cbam_end/controllers"
	"github.com/BerniceZTT/cbam_end/middleware"
	"github.com/BerniceZTT/cbam_end/repository"

	"github.com/gin-gonic/gin"
)

// NewRouter 创建路由引擎并注册中间件
func NewRouter(store repository.Store, ctl *controllers.Controller, corsOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware(store))

	RegisterRoutes(router, ctl)
	return router
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, ctl *controllers.Controller) {
	RegisterAuthRoutes(router, ctl)
	RegisterUserRoutes(router, ctl)

	RegisterSupplierRoutes(router, ctl)
	RegisterImportRoutes(router, ctl)
	RegisterDashboardRoutes(router, ctl)
	RegisterForecastRoutes(router, ctl)

	router.GET("/api/health", ctl.Health)
	router.GET("/api/db-status", ctl.DatabaseStatus)
}
