package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/cbam_end/models"
)

func TestCBAMFactor(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2023, "0"},
		{2025, "0"},
		{2026, "0.025"},
		{2027, "0.05"},
		{2028, "0.1"},
		{2029, "0.225"},
		{2030, "0.485"},
		{2033, "0.86"},
		{2034, "1"},
		{2040, "1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CBAMFactor(tt.year).String(), "year %d", tt.year)
	}
}

func TestBuildForecast(t *testing.T) {
	price := decimal.NewFromInt(80)

	t.Run("baseline is the mean of recent quarters", func(t *testing.T) {
		imports := []models.GoodsImport{
			goodsImport(t, "a", "2026-01-15", 100, 3, 1),
			goodsImport(t, "a", "2026-04-15", 100, 1, 1),
		}

		forecast, err := BuildForecast(imports, ForecastOptions{
			Start:            Quarter{Year: 2026, Number: 3},
			Horizon:          2,
			CertificatePrice: price,
		})
		require.NoError(t, err)

		assert.Equal(t, 300.0, forecast.BaselineEmissions)
		assert.Equal(t, []string{"Q1-2026", "Q2-2026"}, forecast.BaselineQuarters)
		require.Len(t, forecast.Points, 2)
		assert.Equal(t, "Q3-2026", forecast.Points[0].Quarter)
		assert.Equal(t, "Q4-2026", forecast.Points[1].Quarter)
		assert.Equal(t, "0.025", forecast.Points[0].CBAMFactor.String())
		assert.Equal(t, "600", forecast.Points[0].Cost.String())
		assert.Equal(t, "1200", forecast.TotalCost.String())
	})

	t.Run("only the last four quarters before the start", func(t *testing.T) {
		var imports []models.GoodsImport
		q := Quarter{Year: 2024, Number: 1}
		for i := 1; i <= 6; i++ {
			imports = append(imports, models.GoodsImport{Quantity: float64(i * 10), DirectSEE: 1, Date: q.Start()})
			q = q.Next()
		}
		// after the start, never part of the baseline
		imports = append(imports, models.GoodsImport{Quantity: 1000, DirectSEE: 1, Date: q.Next().Start()})

		forecast, err := BuildForecast(imports, ForecastOptions{Start: q, Horizon: 1, CertificatePrice: price})
		require.NoError(t, err)

		assert.Equal(t, []string{"Q3-2024", "Q4-2024", "Q1-2025", "Q2-2025"}, forecast.BaselineQuarters)
		assert.Equal(t, 45.0, forecast.BaselineEmissions)
	})

	t.Run("factor changes at the year boundary", func(t *testing.T) {
		imports := []models.GoodsImport{goodsImport(t, "a", "2025-07-01", 1000, 1, 0)}

		forecast, err := BuildForecast(imports, ForecastOptions{
			Start:            Quarter{Year: 2025, Number: 4},
			Horizon:          2,
			CertificatePrice: decimal.RequireFromString("85.5"),
		})
		require.NoError(t, err)

		assert.True(t, forecast.Points[0].Cost.IsZero())
		assert.Equal(t, "Q1-2026", forecast.Points[1].Quarter)
		assert.Equal(t, "2137.5", forecast.Points[1].Cost.String())
		assert.Equal(t, "2137.5", forecast.TotalCost.String())
	})

	t.Run("oversized rows do not break the baseline", func(t *testing.T) {
		imports := []models.GoodsImport{
			goodsImport(t, "a", "2026-01-15", 1e200, 1e200, 0),
			goodsImport(t, "a", "2026-01-20", 100, 1, 0),
		}

		forecast, err := BuildForecast(imports, ForecastOptions{Start: Quarter{2026, 2}, Horizon: 1, CertificatePrice: price})
		require.NoError(t, err)

		assert.Equal(t, 100.0, forecast.BaselineEmissions)
		assert.Equal(t, "200", forecast.TotalCost.String())
	})

	t.Run("no imports", func(t *testing.T) {
		forecast, err := BuildForecast(nil, ForecastOptions{Start: Quarter{2027, 1}, Horizon: 4, CertificatePrice: price})
		require.NoError(t, err)

		assert.Zero(t, forecast.BaselineEmissions)
		assert.NotNil(t, forecast.BaselineQuarters)
		assert.Empty(t, forecast.BaselineQuarters)
		assert.Len(t, forecast.Points, 4)
		assert.True(t, forecast.TotalCost.IsZero())
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := BuildForecast(nil, ForecastOptions{Start: Quarter{2026, 1}, Horizon: 0, CertificatePrice: price})
		assert.ErrorIs(t, err, ErrInvalidHorizon)

		_, err = BuildForecast(nil, ForecastOptions{Start: Quarter{2026, 1}, Horizon: MaxForecastHorizon + 1, CertificatePrice: price})
		assert.ErrorIs(t, err, ErrInvalidHorizon)

		_, err = BuildForecast(nil, ForecastOptions{Start: Quarter{2026, 1}, Horizon: 1, CertificatePrice: decimal.NewFromInt(-1)})
		assert.Error(t, err)
	})
}

func TestDefaultForecastStart(t *testing.T) {
	now := time.Date(2025, time.May, 20, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, Quarter{Year: 2025, Number: 2}, DefaultForecastStart(nil, now))

	imports := []models.GoodsImport{
		goodsImport(t, "a", "2024-02-01", 1, 1, 0),
		goodsImport(t, "a", "2024-11-01", 1, 1, 0),
	}
	assert.Equal(t, Quarter{Year: 2025, Number: 1}, DefaultForecastStart(imports, now))
}
