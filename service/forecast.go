package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BerniceZTT/cbam_end/models"
)

// MaxForecastHorizon upper bound of projected quarters
const MaxForecastHorizon = 40

// baselineWindow number of most recent present quarters averaged into the baseline
const baselineWindow = 4

// ErrInvalidHorizon forecast horizon out of range
var ErrInvalidHorizon = errors.New("invalid forecast horizon")

// ErrInvalidBaseline baseline emissions are not a finite number
var ErrInvalidBaseline = errors.New("invalid baseline emissions")

// cbamFactors share of embedded emissions subject to certificate surrender, by year.
// Follows the phase-out of free allocation in the definitive period.
var cbamFactors = map[int]string{
	2026: "0.025",
	2027: "0.05",
	2028: "0.10",
	2029: "0.225",
	2030: "0.485",
	2031: "0.61",
	2032: "0.735",
	2033: "0.86",
}

// CBAMFactor returns the priced share of emissions for the year.
func CBAMFactor(year int) decimal.Decimal {
	switch {
	case year < 2026:
		return decimal.Zero
	case year >= 2034:
		return decimal.NewFromInt(1)
	}
	return decimal.RequireFromString(cbamFactors[year])
}

// ForecastOptions forecast parameters
type ForecastOptions struct {
	Start            Quarter // first projected quarter
	Horizon          int
	CertificatePrice decimal.Decimal // EUR per tCO2e
}

// BuildForecast projects CBAM certificate costs from the recent quarterly emissions.
func BuildForecast(imports []models.GoodsImport, opts ForecastOptions) (models.Forecast, error) {
	if opts.Horizon < 1 || opts.Horizon > MaxForecastHorizon {
		return models.Forecast{}, fmt.Errorf("%w: %d (1-%d)", ErrInvalidHorizon, opts.Horizon, MaxForecastHorizon)
	}
	if opts.CertificatePrice.IsNegative() {
		return models.Forecast{}, fmt.Errorf("certificate price must not be negative: %s", opts.CertificatePrice)
	}

	present := PresentQuarters(imports)
	var window []Quarter
	for _, q := range present {
		if q.Before(opts.Start) {
			window = append(window, q)
		}
	}
	if len(window) > baselineWindow {
		window = window[len(window)-baselineWindow:]
	}

	forecast := models.Forecast{
		BaselineQuarters: []string{},
		Points:           make([]models.ForecastPoint, 0, opts.Horizon),
		TotalCost:        decimal.Zero,
	}
	if len(window) > 0 {
		var sum float64
		for _, q := range window {
			_, emissions := Totals(FilterImports(imports, Selection{Quarter: q}))
			sum += emissions
			forecast.BaselineQuarters = append(forecast.BaselineQuarters, q.Label())
		}
		forecast.BaselineEmissions = sum / float64(len(window))
	}

	if math.IsNaN(forecast.BaselineEmissions) || math.IsInf(forecast.BaselineEmissions, 0) {
		return models.Forecast{}, fmt.Errorf("%w: %v", ErrInvalidBaseline, forecast.BaselineEmissions)
	}
	emissions := decimal.NewFromFloat(forecast.BaselineEmissions)
	q := opts.Start
	for i := 0; i < opts.Horizon; i++ {
		factor := CBAMFactor(q.Year)
		cost := emissions.Mul(factor).Mul(opts.CertificatePrice)
		forecast.Points = append(forecast.Points, models.ForecastPoint{
			Quarter:          q.Label(),
			Emissions:        forecast.BaselineEmissions,
			CBAMFactor:       factor,
			CertificatePrice: opts.CertificatePrice,
			Cost:             cost.Round(2),
		})
		forecast.TotalCost = forecast.TotalCost.Add(cost)
		q = q.Next()
	}
	forecast.TotalCost = forecast.TotalCost.Round(2)
	return forecast, nil
}

// DefaultForecastStart returns the quarter after the latest quarter with imports,
// or the quarter of now when there are no imports.
func DefaultForecastStart(imports []models.GoodsImport, now time.Time) Quarter {
	present := PresentQuarters(imports)
	if len(present) == 0 {
		return QuarterOf(now.UTC())
	}
	return present[len(present)-1].Next()
}
