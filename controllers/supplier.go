package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/service"
	"github.com/BerniceZTT/cbam_end/utils"
)

// GetSupplierList 获取供应商列表，可按状态过滤
func (ctl *Controller) GetSupplierList(c *gin.Context) {
	suppliers, err := ctl.store.ListSuppliers(c.Request.Context())
	if err != nil {
		storeError(c, err, "suppliers")
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := []models.Supplier{}
		for _, s := range suppliers {
			if string(s.Status) == status {
				filtered = append(filtered, s)
			}
		}
		suppliers = filtered
	}
	if keyword := strings.ToLower(strings.TrimSpace(c.Query("keyword"))); keyword != "" {
		filtered := []models.Supplier{}
		for _, s := range suppliers {
			if strings.Contains(strings.ToLower(s.Name), keyword) || strings.Contains(strings.ToLower(s.Country), keyword) {
				filtered = append(filtered, s)
			}
		}
		suppliers = filtered
	}

	utils.SuccessResponse(c, gin.H{"suppliers": suppliers, "total": len(suppliers)}, "")
}

// GetSupplierDetail 获取供应商详情
func (ctl *Controller) GetSupplierDetail(c *gin.Context) {
	supplier, err := ctl.store.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "supplier")
		return
	}
	utils.SuccessResponse(c, supplier, "")
}

// CreateSupplier 创建供应商
func (ctl *Controller) CreateSupplier(c *gin.Context) {
	var req models.SupplierCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = models.SupplierStatusNone
	}
	if !req.Status.Valid() {
		utils.HandleError(c, utils.CreateBadRequestError(fmt.Sprintf("unknown supplier status %q", req.Status)))
		return
	}

	created, err := ctl.store.CreateSuppliers(c.Request.Context(), []models.Supplier{{
		Name:          strings.TrimSpace(req.Name),
		Country:       strings.TrimSpace(req.Country),
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		Status:        req.Status,
		Notes:         req.Notes,
	}})
	if err != nil {
		storeError(c, err, "supplier")
		return
	}

	utils.Logger.Info().Str("supplierId", created[0].ID).Str("name", created[0].Name).Msg("supplier created")
	utils.SuccessResponse(c, created[0], "supplier created", http.StatusCreated)
}

// UpdateSupplier 更新供应商
func (ctl *Controller) UpdateSupplier(c *gin.Context) {
	var req models.SupplierUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		utils.HandleError(c, utils.CreateBadRequestError(fmt.Sprintf("unknown supplier status %q", *req.Status)))
		return
	}

	supplier, err := ctl.store.UpdateSupplier(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		storeError(c, err, "supplier")
		return
	}
	utils.SuccessResponse(c, supplier, "supplier updated")
}

// UpdateSupplierStatus 更新供应商排放数据收集状态
func (ctl *Controller) UpdateSupplierStatus(c *gin.Context) {
	var req models.SupplierStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	status, err := service.ParseSupplierStatus(string(req.Status))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}

	supplier, err := ctl.store.UpdateSupplier(c.Request.Context(), c.Param("id"), models.SupplierUpdate{Status: &status})
	if err != nil {
		storeError(c, err, "supplier")
		return
	}

	utils.Logger.Info().Str("supplierId", supplier.ID).Str("status", string(status)).Msg("supplier status changed")
	utils.SuccessResponse(c, supplier, "supplier status updated")
}

// DeleteSupplier 删除没有进口记录的供应商
func (ctl *Controller) DeleteSupplier(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.store.DeleteSupplier(c.Request.Context(), id); err != nil {
		storeError(c, err, "supplier")
		return
	}
	utils.Logger.Info().Str("supplierId", id).Msg("supplier deleted")
	utils.SuccessResponse(c, nil, "supplier deleted")
}

// ImportSuppliers 从上传文件批量导入供应商
func (ctl *Controller) ImportSuppliers(c *gin.Context) {
	table, ok := readUploadedTable(c)
	if !ok {
		return
	}

	suppliers, rowErrors, err := service.ParseSupplierTable(table)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}

	result := models.BulkImportResult{BatchID: uuid.NewString(), Errors: nonNilRowErrors(rowErrors)}
	if len(suppliers) > 0 {
		created, err := ctl.store.CreateSuppliers(c.Request.Context(), suppliers)
		if err != nil {
			storeError(c, err, "suppliers")
			return
		}
		result.InsertedCount = len(created)
	}

	utils.Logger.Info().
		Str("batchId", result.BatchID).
		Int("inserted", result.InsertedCount).
		Int("rejected", len(result.Errors)).
		Msg("suppliers imported")
	utils.SuccessResponse(c, result, fmt.Sprintf("imported %d suppliers", result.InsertedCount))
}

// ExportSuppliers 导出供应商
func (ctl *Controller) ExportSuppliers(c *gin.Context) {
	format, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}
	suppliers, err := ctl.store.ListSuppliers(c.Request.Context())
	if err != nil {
		storeError(c, err, "suppliers")
		return
	}

	var buf bytes.Buffer
	if err := service.WriteTable(&buf, format, service.SupplierHeaders, service.SupplierRecords(suppliers)); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SpreadsheetResponse(c, "suppliers."+string(format), format.ContentType(), buf.Bytes())
}

// readUploadedTable 读取上传的file字段，格式取自format参数或文件扩展名
func readUploadedTable(c *gin.Context) ([][]string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("file is required"))
		return nil, false
	}

	name := c.Query("format")
	if name == "" {
		name = file.Filename
	}
	format, err := service.ParseFormat(name)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return nil, false
	}

	src, err := file.Open()
	if err != nil {
		utils.HandleError(c, err)
		return nil, false
	}
	defer src.Close()

	table, err := service.ReadTable(src, format)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return nil, false
	}
	return table, true
}

func nonNilRowErrors(rowErrors []models.RowError) []models.RowError {
	if rowErrors == nil {
		return []models.RowError{}
	}
	return rowErrors
}
