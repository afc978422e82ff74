package routes

import (
	"github.com/BerniceZTT/cbam_end/controllers"
	"github.com/BerniceZTT/cbam_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterImportRoutes 注册进口记录路由
func RegisterImportRoutes(router *gin.Engine, ctl *controllers.Controller) {
	imports := router.Group("/api/imports")
	imports.Use(middleware.AuthMiddleware())

	imports.GET("", middleware.PermissionMiddleware("imports", "read"), ctl.GetImportList)
	imports.POST("", middleware.PermissionMiddleware("imports", "create"), ctl.CreateImport)
	imports.POST("/import", middleware.PermissionMiddleware("imports", "import"), ctl.ImportGoodsImports)
	imports.GET("/export", middleware.PermissionMiddleware("imports", "export"), ctl.ExportImports)
	imports.DELETE("/:id", middleware.PermissionMiddleware("imports", "delete"), ctl.DeleteImport)

	// 生成示例数据，替换或追加供应商和进口记录
	router.POST("/api/sample-data",
		middleware.AuthMiddleware(),
		middleware.PermissionMiddleware("imports", "import"),
		ctl.LoadSampleData)
}
