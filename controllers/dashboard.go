package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/service"
	"github.com/BerniceZTT/cbam_end/utils"
)

// loadDashboardData 加载全部进口记录和供应商，在内存中聚合
func (ctl *Controller) loadDashboardData(ctx context.Context) ([]models.GoodsImport, []models.Supplier, error) {
	imports, err := ctl.store.ListImports(ctx, models.ImportFilter{})
	if err != nil {
		return nil, nil, err
	}
	suppliers, err := ctl.store.ListSuppliers(ctx)
	if err != nil {
		return nil, nil, err
	}
	return imports, suppliers, nil
}

// selection 解析quarter参数，无效时返回400
func selection(c *gin.Context) (service.Selection, bool) {
	sel, err := service.ParseSelection(c.Query("quarter"))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return service.Selection{}, false
	}
	return sel, true
}

// GetDashboard 获取仪表盘数据
func (ctl *Controller) GetDashboard(c *gin.Context) {
	sel, ok := selection(c)
	if !ok {
		return
	}
	imports, suppliers, err := ctl.loadDashboardData(c.Request.Context())
	if err != nil {
		storeError(c, err, "dashboard")
		return
	}
	utils.SuccessResponse(c, service.BuildDashboard(imports, suppliers, sel), "")
}

// GetQuarters 获取有数据的季度列表，按时间升序
func (ctl *Controller) GetQuarters(c *gin.Context) {
	imports, err := ctl.store.ListImports(c.Request.Context(), models.ImportFilter{})
	if err != nil {
		storeError(c, err, "imports")
		return
	}
	summaries := service.SummarizeQuarters(imports)
	options := make([]string, 0, len(summaries)+1)
	options = append(options, models.AllQuarters)
	for _, q := range summaries {
		options = append(options, q.Label)
	}
	utils.SuccessResponse(c, gin.H{"quarters": summaries, "options": options}, "")
}

// GetQuarterStats 获取季度统计
func (ctl *Controller) GetQuarterStats(c *gin.Context) {
	sel, ok := selection(c)
	if !ok {
		return
	}
	imports, suppliers, err := ctl.loadDashboardData(c.Request.Context())
	if err != nil {
		storeError(c, err, "dashboard")
		return
	}

	stats := service.ComputeQuarterStats(imports, suppliers, sel)
	utils.Logger.Debug().
		Str("quarter", stats.Selector).
		Int("coverage", stats.CoveragePercent).
		Str("readiness", string(stats.ReportReadiness)).
		Msg("quarter stats computed")
	utils.SuccessResponse(c, stats, "")
}

// GetStatusChart 获取供应商状态环形图，format=svg时返回SVG
func (ctl *Controller) GetStatusChart(c *gin.Context) {
	sel, ok := selection(c)
	if !ok {
		return
	}
	geometry := service.DefaultDonutGeometry
	if size := c.Query("size"); size != "" {
		v, err := strconv.ParseFloat(size, 64)
		if err != nil || v < 50 || v > 2000 {
			utils.HandleError(c, utils.CreateBadRequestError("size must be a number between 50 and 2000"))
			return
		}
		geometry = service.DonutGeometry{Size: v, Thickness: v / 5}
	}

	imports, suppliers, err := ctl.loadDashboardData(c.Request.Context())
	if err != nil {
		storeError(c, err, "dashboard")
		return
	}

	chart := service.StatusChart(imports, suppliers, sel, geometry)
	if c.Query("format") == "svg" {
		c.Data(http.StatusOK, "image/svg+xml", []byte(service.RenderDonutSVG(chart)))
		return
	}
	utils.SuccessResponse(c, chart, "")
}
