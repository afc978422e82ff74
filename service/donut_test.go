package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/cbam_end/models"
)

func TestBuildDonut(t *testing.T) {
	t.Run("sweeps are proportional and start at 12 o'clock", func(t *testing.T) {
		chart := BuildDonut([]models.ChartSegment{
			{Label: BucketPending, Value: 3, Color: ColorPending},
			{Label: BucketEmissionData, Value: 0, Color: ColorEmissionData},
			{Label: BucketSupportingDocs, Value: 1, Color: ColorSupportingDocs},
		}, DefaultDonutGeometry)

		assert.Equal(t, 4, chart.Total)
		assert.Len(t, chart.Segments, 3)
		require.Len(t, chart.Arcs, 2)

		assert.Equal(t, BucketPending, chart.Arcs[0].Label)
		assert.Equal(t, 0.0, chart.Arcs[0].StartAngle)
		assert.Equal(t, 270.0, chart.Arcs[0].EndAngle)
		assert.Equal(t, 75.0, chart.Arcs[0].Percent)
		assert.True(t, strings.HasPrefix(chart.Arcs[0].Path, "M100,0 A100,100 0 1,1 "), chart.Arcs[0].Path)

		assert.Equal(t, BucketSupportingDocs, chart.Arcs[1].Label)
		assert.Equal(t, 270.0, chart.Arcs[1].StartAngle)
		assert.Equal(t, 360.0, chart.Arcs[1].EndAngle)
		assert.Equal(t, ColorSupportingDocs, chart.Arcs[1].Color)
	})

	t.Run("sweeps add up to a full turn", func(t *testing.T) {
		chart := BuildDonut([]models.ChartSegment{
			{Label: "a", Value: 1}, {Label: "b", Value: 1}, {Label: "c", Value: 1},
		}, DefaultDonutGeometry)

		sweep := 0.0
		for i, arc := range chart.Arcs {
			if i > 0 {
				assert.Equal(t, chart.Arcs[i-1].EndAngle, arc.StartAngle)
			}
			sweep += arc.EndAngle - arc.StartAngle
		}
		assert.InDelta(t, 360.0, sweep, 1e-9)
		assert.Equal(t, 360.0, chart.Arcs[len(chart.Arcs)-1].EndAngle)
	})

	t.Run("single segment is a full ring", func(t *testing.T) {
		chart := BuildDonut([]models.ChartSegment{
			{Label: "a", Value: 0}, {Label: "b", Value: 5},
		}, DefaultDonutGeometry)

		require.Len(t, chart.Arcs, 1)
		assert.Equal(t, 0.0, chart.Arcs[0].StartAngle)
		assert.Equal(t, 360.0, chart.Arcs[0].EndAngle)
		assert.Equal(t, 100.0, chart.Arcs[0].Percent)
		assert.Equal(t, 2, strings.Count(chart.Arcs[0].Path, "M"))
	})

	t.Run("zero total is a placeholder", func(t *testing.T) {
		chart := BuildDonut([]models.ChartSegment{{Label: "a"}, {Label: "b"}}, DefaultDonutGeometry)

		assert.True(t, chart.Placeholder)
		assert.Zero(t, chart.Total)
		assert.NotNil(t, chart.Arcs)
		assert.Empty(t, chart.Arcs)
	})

	t.Run("invalid geometry falls back", func(t *testing.T) {
		chart := BuildDonut([]models.ChartSegment{{Label: "a", Value: 1}}, DonutGeometry{})
		assert.Equal(t, DefaultDonutGeometry.Size, chart.Size)

		chart = BuildDonut([]models.ChartSegment{{Label: "a", Value: 1}}, DonutGeometry{Size: 100, Thickness: 80})
		assert.Equal(t, 100.0, chart.Size)
	})
}

func TestRenderDonutSVG(t *testing.T) {
	t.Run("one path per arc", func(t *testing.T) {
		chart := BuildDonut([]models.ChartSegment{
			{Label: BucketPending, Value: 2, Color: ColorPending},
			{Label: BucketEmissionData, Value: 1, Color: ColorEmissionData},
		}, DefaultDonutGeometry)

		svg := RenderDonutSVG(chart)

		assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200"`))
		assert.True(t, strings.HasSuffix(svg, "</svg>"))
		assert.Equal(t, 2, strings.Count(svg, "<path "))
		assert.Contains(t, svg, `fill="#f59e0b"`)
		assert.Contains(t, svg, "<title>Pending: 2</title>")
		assert.NotContains(t, svg, "No data")
	})

	t.Run("placeholder", func(t *testing.T) {
		svg := RenderDonutSVG(BuildDonut(nil, DefaultDonutGeometry))

		assert.Contains(t, svg, "<circle")
		assert.Contains(t, svg, "No data")
		assert.NotContains(t, svg, "<path")
	})
}
