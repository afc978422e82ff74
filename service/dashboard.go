package service

import (
	"math"
	"strings"

	"github.com/BerniceZTT/cbam_end/models"
)

// Readiness thresholds on supplier coverage percent.
const (
	ReadinessCreatedThreshold = 80
	ReadinessReadyThreshold   = 50
)

// Status chart bucket labels and colors
const (
	BucketPending        = "Pending"
	BucketEmissionData   = "Emission data received"
	BucketSupportingDocs = "Supporting documents received"

	ColorPending        = "#f59e0b"
	ColorEmissionData   = "#3b82f6"
	ColorSupportingDocs = "#10b981"
)

// Selection quarter selector: one concrete quarter or all quarters
type Selection struct {
	All     bool
	Quarter Quarter
}

// ParseSelection parses a quarter label or the "all" sentinel. Empty means all.
func ParseSelection(selector string) (Selection, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" || strings.EqualFold(selector, models.AllQuarters) {
		return Selection{All: true}, nil
	}
	q, err := ParseQuarter(selector)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Quarter: q}, nil
}

// String returns the selector label.
func (s Selection) String() string {
	if s.All {
		return models.AllQuarters
	}
	return s.Quarter.Label()
}

// Matches reports whether the import row falls into the selection.
func (s Selection) Matches(row models.GoodsImport) bool {
	return s.All || QuarterOf(row.Date) == s.Quarter
}

// FilterImports returns the rows of the selected quarter.
func FilterImports(imports []models.GoodsImport, sel Selection) []models.GoodsImport {
	if sel.All {
		return imports
	}
	var filtered []models.GoodsImport
	for _, row := range imports {
		if sel.Matches(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// Totals sums imported tonnes and embedded emissions in one pass.
func Totals(imports []models.GoodsImport) (totalImports, totalEmissions float64) {
	for _, row := range imports {
		quantity := importValue(row.Quantity)
		totalImports += quantity
		totalEmissions += quantity * (importValue(row.DirectSEE) + importValue(row.IndirectSEE))
	}
	return totalImports, totalEmissions
}

// Readiness maps coverage percent to the report readiness level.
func Readiness(coverage int) models.ReportReadiness {
	switch {
	case coverage >= ReadinessCreatedThreshold:
		return models.ReadinessCreated
	case coverage >= ReadinessReadyThreshold:
		return models.ReadinessReadyForCreation
	default:
		return models.ReadinessNotReady
	}
}

// CoveragePercent returns round(100*covered/total), 0 when total is 0.
func CoveragePercent(covered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(covered) / float64(total)))
}

// SuppliersWithImports returns the known suppliers that have at least one row in imports,
// in the order of the supplier list. Linkage is by supplier id only.
func SuppliersWithImports(imports []models.GoodsImport, suppliers []models.Supplier) (linked []models.Supplier, unlinkedRows int) {
	ids := make(map[string]bool, len(imports))
	for _, row := range imports {
		ids[row.SupplierID] = true
	}
	known := make(map[string]bool, len(suppliers))
	for _, s := range suppliers {
		if known[s.ID] {
			continue
		}
		known[s.ID] = true
		if ids[s.ID] {
			linked = append(linked, s)
		}
	}
	for _, row := range imports {
		if !known[row.SupplierID] {
			unlinkedRows++
		}
	}
	return linked, unlinkedRows
}

// ComputeQuarterStats aggregates imports and suppliers for the selection.
func ComputeQuarterStats(imports []models.GoodsImport, suppliers []models.Supplier, sel Selection) models.QuarterStats {
	filtered := FilterImports(imports, sel)
	totalImports, totalEmissions := Totals(filtered)

	linked, unlinked := SuppliersWithImports(filtered, suppliers)
	covered := 0
	for _, s := range linked {
		if s.Status.HasEmissionData() {
			covered++
		}
	}
	coverage := CoveragePercent(covered, len(linked))

	stats := models.QuarterStats{
		Selector:             sel.String(),
		TotalImports:         totalImports,
		TotalEmissions:       totalEmissions,
		SuppliersWithImports: len(linked),
		CoveredSuppliers:     covered,
		CoveragePercent:      coverage,
		ReportReadiness:      Readiness(coverage),
		ImportCount:          len(filtered),
		UnlinkedImportRows:   unlinked,
	}

	if sel.All || len(filtered) == 0 {
		return stats
	}
	prev, ok := PreviousQuarter(PresentQuarters(imports), sel.Quarter)
	if !ok {
		return stats
	}
	stats.PreviousQuarter = prev.Label()
	prevImports, prevEmissions := Totals(FilterImports(imports, Selection{Quarter: prev}))
	stats.ImportsChange = percentChange(prevImports, totalImports)
	stats.EmissionsChange = percentChange(prevEmissions, totalEmissions)
	return stats
}

// PreviousQuarter returns the latest present quarter before q.
func PreviousQuarter(present []Quarter, q Quarter) (Quarter, bool) {
	var prev Quarter
	found := false
	for _, p := range present {
		if p.Before(q) && (!found || prev.Before(p)) {
			prev = p
			found = true
		}
	}
	return prev, found
}

// StatusSegments buckets the suppliers by status for the donut chart.
// Every supplier lands in exactly one bucket.
func StatusSegments(suppliers []models.Supplier) []models.ChartSegment {
	var pending, emissionData, supportingDocs int
	for _, s := range suppliers {
		switch s.Status {
		case models.SupplierStatusEmissionDataReceived:
			emissionData++
		case models.SupplierStatusSupportingDocsReceived:
			supportingDocs++
		default:
			pending++
		}
	}
	return []models.ChartSegment{
		{Label: BucketPending, Value: pending, Color: ColorPending},
		{Label: BucketEmissionData, Value: emissionData, Color: ColorEmissionData},
		{Label: BucketSupportingDocs, Value: supportingDocs, Color: ColorSupportingDocs},
	}
}

// StatusChart builds the supplier status donut for the suppliers with imports in the selection.
func StatusChart(imports []models.GoodsImport, suppliers []models.Supplier, sel Selection, geometry DonutGeometry) models.DonutChart {
	linked, _ := SuppliersWithImports(FilterImports(imports, sel), suppliers)
	return BuildDonut(StatusSegments(linked), geometry)
}

// SummarizeQuarters returns per-quarter totals in chronological order.
func SummarizeQuarters(imports []models.GoodsImport) []models.QuarterSummary {
	present := PresentQuarters(imports)
	summaries := make([]models.QuarterSummary, 0, len(present))
	for _, q := range present {
		rows := FilterImports(imports, Selection{Quarter: q})
		totalImports, totalEmissions := Totals(rows)
		summaries = append(summaries, models.QuarterSummary{
			Label:          q.Label(),
			ImportCount:    len(rows),
			TotalImports:   totalImports,
			TotalEmissions: totalEmissions,
		})
	}
	return summaries
}

// BuildDashboard assembles the full dashboard payload.
func BuildDashboard(imports []models.GoodsImport, suppliers []models.Supplier, sel Selection) models.DashboardResponse {
	return models.DashboardResponse{
		Stats:         ComputeQuarterStats(imports, suppliers, sel),
		StatusChart:   StatusChart(imports, suppliers, sel, DefaultDonutGeometry),
		Quarters:      SummarizeQuarters(imports),
		SupplierCount: len(suppliers),
	}
}

func percentChange(previous, current float64) *float64 {
	if previous == 0 {
		return nil
	}
	change := (current - previous) / previous * 100
	return &change
}

// importValue treats NaN, infinities and values above models.MaxImportValue
// as missing so that totals stay finite.
func importValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v > models.MaxImportValue {
		return 0
	}
	return v
}
