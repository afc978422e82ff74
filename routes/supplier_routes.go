package routes

import (
	"github.com/BerniceZTT/cbam_end/controllers"
	"github.com/BerniceZTT/cbam_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterSupplierRoutes 注册供应商路由
func RegisterSupplierRoutes(router *gin.Engine, ctl *controllers.Controller) {
	suppliers := router.Group("/api/suppliers")
	suppliers.Use(middleware.AuthMiddleware())

	suppliers.GET("", middleware.PermissionMiddleware("suppliers", "read"), ctl.GetSupplierList)
	suppliers.POST("", middleware.PermissionMiddleware("suppliers", "create"), ctl.CreateSupplier)
	suppliers.POST("/import", middleware.PermissionMiddleware("suppliers", "import"), ctl.ImportSuppliers)
	suppliers.GET("/export", middleware.PermissionMiddleware("suppliers", "export"), ctl.ExportSuppliers)
	suppliers.GET("/:id", middleware.PermissionMiddleware("suppliers", "read"), ctl.GetSupplierDetail)
	suppliers.PUT("/:id", middleware.PermissionMiddleware("suppliers", "update"), ctl.UpdateSupplier)
	suppliers.PATCH("/:id/status", middleware.PermissionMiddleware("suppliers", "update"), ctl.UpdateSupplierStatus)
	suppliers.DELETE("/:id", middleware.PermissionMiddleware("suppliers", "delete"), ctl.DeleteSupplier)
}
