package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/service"
	"github.com/BerniceZTT/cbam_end/utils"
)

// defaultForecastHorizon 默认预测两年
const defaultForecastHorizon = 8

// GetForecast 获取CBAM证书成本预测
// 参数: horizon 季度数, price 每吨CO2e欧元价格, start 起始季度
func (ctl *Controller) GetForecast(c *gin.Context) {
	opts := service.ForecastOptions{Horizon: defaultForecastHorizon, CertificatePrice: ctl.certificatePrice}

	if h := c.Query("horizon"); h != "" {
		horizon, err := strconv.Atoi(h)
		if err != nil {
			utils.HandleError(c, utils.CreateBadRequestError("horizon must be an integer"))
			return
		}
		opts.Horizon = horizon
	}
	if p := c.Query("price"); p != "" {
		price, err := decimal.NewFromString(p)
		if err != nil {
			utils.HandleError(c, utils.CreateBadRequestError("price must be a decimal number"))
			return
		}
		opts.CertificatePrice = price
	}

	imports, err := ctl.store.ListImports(c.Request.Context(), models.ImportFilter{})
	if err != nil {
		storeError(c, err, "imports")
		return
	}

	if s := c.Query("start"); s != "" {
		start, err := service.ParseQuarter(s)
		if err != nil {
			utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
			return
		}
		opts.Start = start
	} else {
		opts.Start = service.DefaultForecastStart(imports, ctl.now())
	}

	forecast, err := service.BuildForecast(imports, opts)
	if errors.Is(err, service.ErrInvalidBaseline) {
		utils.ErrorResponse(c, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		// 预测季度数无效或价格为负
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}
	utils.SuccessResponse(c, forecast, "")
}
