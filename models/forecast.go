package models

import "github.com/shopspring/decimal"

// ForecastPoint 单季度预测成本
type ForecastPoint struct {
	Quarter          string          `json:"quarter"`
	Emissions        float64         `json:"emissions"`  // 吨CO2e
	CBAMFactor       decimal.Decimal `json:"cbamFactor"` // 计价排放比例
	CertificatePrice decimal.Decimal `json:"certificatePrice"`
	Cost             decimal.Decimal `json:"cost"` // 欧元
}

// Forecast CBAM成本预测
type Forecast struct {
	BaselineEmissions float64         `json:"baselineEmissions"` // 季度平均排放
	BaselineQuarters  []string        `json:"baselineQuarters"`
	Points            []ForecastPoint `json:"points"`
	TotalCost         decimal.Decimal `json:"totalCost"`
}
