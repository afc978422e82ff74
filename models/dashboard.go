package models

// ReportReadiness 季度CBAM报告就绪状态
type ReportReadiness string

const (
	ReadinessNotReady         ReportReadiness = "not_ready"
	ReadinessReadyForCreation ReportReadiness = "ready_for_creation"
	ReadinessCreated          ReportReadiness = "created"
)

// AllQuarters 全部季度
const AllQuarters = "all"

// QuarterStats 季度或全部季度的统计数据
type QuarterStats struct {
	Selector             string          `json:"selector"`
	TotalImports         float64         `json:"totalImports"`    // 吨
	TotalEmissions       float64         `json:"totalEmissions"`  // 吨CO2e
	ImportsChange        *float64        `json:"importsChange"`   // 百分比，不适用时为null
	EmissionsChange      *float64        `json:"emissionsChange"` // 百分比，不适用时为null
	PreviousQuarter      string          `json:"previousQuarter,omitempty"`
	SuppliersWithImports int             `json:"suppliersWithImports"`
	CoveredSuppliers     int             `json:"coveredSuppliers"`
	CoveragePercent      int             `json:"coveragePercent"`
	ReportReadiness      ReportReadiness `json:"reportReadiness"`
	ImportCount          int             `json:"importCount"`
	UnlinkedImportRows   int             `json:"unlinkedImportRows"` // 供应商ID未知的行数
}

// ChartSegment 图表数据项
type ChartSegment struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// DonutArc 环形图扇区
type DonutArc struct {
	Label      string  `json:"label"`
	Value      int     `json:"value"`
	Color      string  `json:"color"`
	StartAngle float64 `json:"startAngle"` // 角度，0为12点方向，顺时针
	EndAngle   float64 `json:"endAngle"`
	Percent    float64 `json:"percent"`
	Path       string  `json:"path"` // SVG路径
}

// DonutChart 供应商状态分布图
type DonutChart struct {
	Segments    []ChartSegment `json:"segments"`
	Arcs        []DonutArc     `json:"arcs"`
	Total       int            `json:"total"`
	Placeholder bool           `json:"placeholder"`
	Size        float64        `json:"size"`
}

// QuarterSummary 季度汇总
type QuarterSummary struct {
	Label          string  `json:"label"`
	ImportCount    int     `json:"importCount"`
	TotalImports   float64 `json:"totalImports"`
	TotalEmissions float64 `json:"totalEmissions"`
}

// DashboardResponse 仪表盘响应
type DashboardResponse struct {
	Stats         QuarterStats     `json:"stats"`
	StatusChart   DonutChart       `json:"statusChart"`
	Quarters      []QuarterSummary `json:"quarters"`
	SupplierCount int              `json:"supplierCount"`
}
