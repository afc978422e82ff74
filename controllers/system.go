package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/cbam_end/repository"
	"github.com/BerniceZTT/cbam_end/service"
	"github.com/BerniceZTT/cbam_end/utils"
)

// SampleDataRequest 示例数据请求
type SampleDataRequest struct {
	Seed      *int64 `json:"seed"`
	Suppliers int    `json:"suppliers" binding:"omitempty,min=1,max=200"`
	Quarters  int    `json:"quarters" binding:"omitempty,min=1,max=20"`
	Replace   bool   `json:"replace"` // 先清空现有供应商和进口记录
}

// LoadSampleData 生成示例数据
func (ctl *Controller) LoadSampleData(c *gin.Context) {
	var req SampleDataRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, "invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	opts := service.DefaultSampleOptions
	if req.Seed != nil {
		opts.Seed = *req.Seed
	}
	if req.Suppliers > 0 {
		opts.Suppliers = req.Suppliers
	}
	if req.Quarters > 0 {
		opts.Quarters = req.Quarters
	}

	suppliers, imports := service.GenerateSampleData(opts)
	if err := repository.SeedData(c.Request.Context(), ctl.store, suppliers, imports, req.Replace); err != nil {
		storeError(c, err, "sample data")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"seed":      opts.Seed,
		"suppliers": len(suppliers),
		"imports":   len(imports),
		"replaced":  req.Replace,
	}, "sample data loaded", http.StatusCreated)
}

// Health 健康检查
func (ctl *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DatabaseStatus 获取存储状态
func (ctl *Controller) DatabaseStatus(c *gin.Context) {
	status, err := ctl.store.Status(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, "failed to get database status: "+err.Error(), http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, status)
}
