package routes

import (
	"github.com/BerniceZTT/cbam_end/controllers"
	"github.com/BerniceZTT/cbam_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterDashboardRoutes 注册仪表盘路由
func RegisterDashboardRoutes(router *gin.Engine, ctl *controllers.Controller) {
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.AuthMiddleware(), middleware.PermissionMiddleware("dashboard", "read"))

	dashboard.GET("", ctl.GetDashboard)
	dashboard.GET("/quarters", ctl.GetQuarters)
	dashboard.GET("/stats", ctl.GetQuarterStats)
	dashboard.GET("/status-chart", ctl.GetStatusChart)
}

// RegisterForecastRoutes 注册成本预测路由
func RegisterForecastRoutes(router *gin.Engine, ctl *controllers.Controller) {
	router.GET("/api/forecast",
		middleware.AuthMiddleware(),
		middleware.PermissionMiddleware("forecast", "read"),
		ctl.GetForecast)
}
