package middleware

import (
	"github.com/BerniceZTT/cbam_end/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 错误处理中间件，处理c.Error记录且未写响应的错误
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		utils.HandleError(c, c.Errors.Last().Err)
	}
}
