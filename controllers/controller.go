package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BerniceZTT/cbam_end/repository"
	"github.com/BerniceZTT/cbam_end/utils"
)

// Controller 基于Store的HTTP处理器
type Controller struct {
	store            repository.Store
	certificatePrice decimal.Decimal // 预测默认证书价格
	now              func() time.Time
}

// NewController 创建处理器
func NewController(store repository.Store, certificatePrice decimal.Decimal) *Controller {
	return &Controller{
		store:            store,
		certificatePrice: certificatePrice,
		now:              time.Now,
	}
}

// storeError 将存储层错误转换为API错误
func storeError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.HandleError(c, utils.CreateNotFoundError(resource))
	case errors.Is(err, repository.ErrConflict):
		utils.HandleError(c, utils.CreateConflictError(err.Error()))
	default:
		utils.Logger.Error().Err(err).Str("resource", resource).Msg("store operation failed")
		utils.ErrorResponse(c, "database error: "+err.Error(), http.StatusInternalServerError)
	}
}
