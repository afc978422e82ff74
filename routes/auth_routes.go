package routes

import (
	"github.com/BerniceZTT/cbam_end/controllers"
	"github.com/BerniceZTT/cbam_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由
func RegisterAuthRoutes(router *gin.Engine, ctl *controllers.Controller) {
	auth := router.Group("/api/auth")

	auth.POST("/login", ctl.Login)
	auth.GET("/validate", middleware.AuthMiddleware(), ctl.ValidateToken)
}

// RegisterUserRoutes 注册用户管理路由
func RegisterUserRoutes(router *gin.Engine, ctl *controllers.Controller) {
	users := router.Group("/api/users")
	users.Use(middleware.AuthMiddleware())

	// 仅超级管理员
	users.POST("", middleware.PermissionMiddleware("users", "create"), ctl.CreateUser)
}
