package models

import "time"

// MaxImportValue 数量和SEE允许的最大值
const MaxImportValue = 1e9

// GoodsImport CBAM货物进口记录
type GoodsImport struct {
	ID               string    `bson:"_id,omitempty" json:"_id,omitempty"`
	SupplierID       string    `bson:"supplierId" json:"supplierId"`
	CNCode           string    `bson:"cnCode" json:"cnCode"`
	ManufacturerName string    `bson:"manufacturerName" json:"manufacturerName"` // 仅用于展示
	Quantity         float64   `bson:"quantity" json:"quantity"`                 // 吨
	DirectSEE        float64   `bson:"directSee" json:"directSee"`               // 每吨CO2e
	IndirectSEE      float64   `bson:"indirectSee" json:"indirectSee"`           // 每吨CO2e
	Date             time.Time `bson:"date" json:"date"`
	Quarter          string    `bson:"quarter" json:"quarter"` // 由Date计算
	BatchID          string    `bson:"batchId,omitempty" json:"batchId,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Emissions 隐含排放量(吨CO2e)
func (g GoodsImport) Emissions() float64 {
	return g.Quantity * (g.DirectSEE + g.IndirectSEE)
}

// GoodsImportCreateRequest 创建进口记录请求
type GoodsImportCreateRequest struct {
	SupplierID  string    `json:"supplierId" binding:"required"`
	CNCode      string    `json:"cnCode" binding:"required"`
	Quantity    float64   `json:"quantity" binding:"gte=0,lte=1000000000"`
	DirectSEE   float64   `json:"directSee" binding:"gte=0,lte=1000000000"`
	IndirectSEE float64   `json:"indirectSee" binding:"gte=0,lte=1000000000"`
	Date        time.Time `json:"date" binding:"required"`
}

// ImportFilter 进口记录查询条件
type ImportFilter struct {
	SupplierID string
	Quarter    string
}

// RowError 导入失败的行
type RowError struct {
	Row     int    `json:"row"` // 从1开始，表头为第1行
	Message string `json:"message"`
}

// BulkImportResult 批量导入结果
type BulkImportResult struct {
	BatchID       string     `json:"batchId"`
	InsertedCount int        `json:"insertedCount"`
	Errors        []RowError `json:"errors"`
}
