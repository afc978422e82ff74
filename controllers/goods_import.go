package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/repository"
	"github.com/BerniceZTT/cbam_end/service"
	"github.com/BerniceZTT/cbam_end/utils"
)

// importFilter 根据supplierId和quarter参数构建查询条件
func importFilter(c *gin.Context) (models.ImportFilter, error) {
	filter := models.ImportFilter{SupplierID: strings.TrimSpace(c.Query("supplierId"))}
	sel, err := service.ParseSelection(c.Query("quarter"))
	if err != nil {
		return filter, err
	}
	if !sel.All {
		filter.Quarter = sel.Quarter.Label()
	}
	return filter, nil
}

// GetImportList 获取进口记录列表
func (ctl *Controller) GetImportList(c *gin.Context) {
	filter, err := importFilter(c)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}
	imports, err := ctl.store.ListImports(c.Request.Context(), filter)
	if err != nil {
		storeError(c, err, "imports")
		return
	}
	utils.SuccessResponse(c, gin.H{"imports": imports, "total": len(imports)}, "")
}

// CreateImport 创建进口记录
func (ctl *Controller) CreateImport(c *gin.Context) {
	var req models.GoodsImportCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	supplier, err := ctl.store.GetSupplier(c.Request.Context(), req.SupplierID)
	if errors.Is(err, repository.ErrNotFound) {
		utils.HandleError(c, utils.CreateBadRequestError(fmt.Sprintf("unknown supplier id %q", req.SupplierID)))
		return
	}
	if err != nil {
		storeError(c, err, "supplier")
		return
	}

	row := models.GoodsImport{
		SupplierID:       supplier.ID,
		CNCode:           strings.TrimSpace(req.CNCode),
		ManufacturerName: supplier.Name,
		Quantity:         req.Quantity,
		DirectSEE:        req.DirectSEE,
		IndirectSEE:      req.IndirectSEE,
		Date:             service.CalendarDate(req.Date),
	}
	service.NormalizeImport(&row)

	created, err := ctl.store.CreateSupplierImports(c.Request.Context(), []models.GoodsImport{row})
	if errors.Is(err, repository.ErrNotFound) {
		// 供应商在查询后被删除
		utils.HandleError(c, utils.CreateBadRequestError(fmt.Sprintf("unknown supplier id %q", req.SupplierID)))
		return
	}
	if err != nil {
		storeError(c, err, "import")
		return
	}

	utils.Logger.Info().
		Str("importId", created[0].ID).
		Str("supplierId", supplier.ID).
		Str("quarter", created[0].Quarter).
		Msg("goods import created")
	utils.SuccessResponse(c, created[0], "import created", http.StatusCreated)
}

// DeleteImport 删除进口记录
func (ctl *Controller) DeleteImport(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.store.DeleteImport(c.Request.Context(), id); err != nil {
		storeError(c, err, "import")
		return
	}
	utils.Logger.Info().Str("importId", id).Msg("goods import deleted")
	utils.SuccessResponse(c, nil, "import deleted")
}

// ImportGoodsImports 从上传的CSV或XLSX文件批量导入进口记录
// 有效行使用同一批次号写入，无效行按行号返回错误
func (ctl *Controller) ImportGoodsImports(c *gin.Context) {
	table, ok := readUploadedTable(c)
	if !ok {
		return
	}

	parsed, rowErrors, err := service.ParseImportTable(table)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}

	suppliers, err := ctl.store.ListSuppliers(c.Request.Context())
	if err != nil {
		storeError(c, err, "suppliers")
		return
	}
	resolved, linkErrors := service.ResolveSuppliers(parsed, suppliers)
	rowErrors = append(rowErrors, linkErrors...)
	sort.SliceStable(rowErrors, func(i, j int) bool { return rowErrors[i].Row < rowErrors[j].Row })

	result := models.BulkImportResult{BatchID: uuid.NewString(), Errors: nonNilRowErrors(rowErrors)}
	if len(resolved) > 0 {
		rows := make([]models.GoodsImport, len(resolved))
		for i, r := range resolved {
			rows[i] = r.Import
			rows[i].BatchID = result.BatchID
		}
		created, err := ctl.store.CreateSupplierImports(c.Request.Context(), rows)
		if errors.Is(err, repository.ErrNotFound) {
			utils.HandleError(c, utils.CreateConflictError("suppliers changed during import, retry the upload"))
			return
		}
		if err != nil {
			storeError(c, err, "imports")
			return
		}
		result.InsertedCount = len(created)
	}

	utils.Logger.Info().
		Str("batchId", result.BatchID).
		Int("inserted", result.InsertedCount).
		Int("rejected", len(result.Errors)).
		Msg("goods imports imported")
	utils.SuccessResponse(c, result, fmt.Sprintf("imported %d rows", result.InsertedCount))
}

// ExportImports 导出进口记录
func (ctl *Controller) ExportImports(c *gin.Context) {
	format, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}
	filter, err := importFilter(c)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}
	imports, err := ctl.store.ListImports(c.Request.Context(), filter)
	if err != nil {
		storeError(c, err, "imports")
		return
	}

	var buf bytes.Buffer
	if err := service.WriteTable(&buf, format, service.ImportHeaders, service.ImportRecords(imports)); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SpreadsheetResponse(c, "imports."+string(format), format.ContentType(), buf.Bytes())
}
