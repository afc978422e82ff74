package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/BerniceZTT/cbam_end/models"
)

// DonutGeometry size of the rendered donut in SVG user units
type DonutGeometry struct {
	Size      float64
	Thickness float64
}

// DefaultDonutGeometry geometry used by the dashboard
var DefaultDonutGeometry = DonutGeometry{Size: 200, Thickness: 40}

// BuildDonut lays out the segments as annulus sectors. Sweeps are proportional to the
// values and add up to a full turn; zero segments get no arc.
func BuildDonut(segments []models.ChartSegment, geometry DonutGeometry) models.DonutChart {
	if geometry.Size <= 0 {
		geometry = DefaultDonutGeometry
	}
	if geometry.Thickness <= 0 || geometry.Thickness > geometry.Size/2 {
		geometry.Thickness = geometry.Size / 5
	}

	chart := models.DonutChart{
		Segments: segments,
		Arcs:     []models.DonutArc{},
		Size:     geometry.Size,
	}
	var visible []models.ChartSegment
	for _, s := range segments {
		if s.Value > 0 {
			chart.Total += s.Value
			visible = append(visible, s)
		}
	}
	if chart.Total == 0 {
		chart.Placeholder = true
		return chart
	}

	outer := geometry.Size / 2
	inner := outer - geometry.Thickness
	center := geometry.Size / 2

	cumulative := 0
	for i, s := range visible {
		start := 360 * float64(cumulative) / float64(chart.Total)
		cumulative += s.Value
		end := 360 * float64(cumulative) / float64(chart.Total)
		if i == len(visible)-1 {
			end = 360
		}

		var path string
		if len(visible) == 1 {
			path = ringPath(center, outer, inner)
		} else {
			path = sectorPath(center, outer, inner, start, end)
		}
		chart.Arcs = append(chart.Arcs, models.DonutArc{
			Label:      s.Label,
			Value:      s.Value,
			Color:      s.Color,
			StartAngle: start,
			EndAngle:   end,
			Percent:    100 * float64(s.Value) / float64(chart.Total),
			Path:       path,
		})
	}
	return chart
}

// RenderDonutSVG renders the chart as a standalone SVG document.
func RenderDonutSVG(chart models.DonutChart) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(chart.Size), num(chart.Size), num(chart.Size), num(chart.Size))
	if chart.Placeholder {
		center := chart.Size / 2
		fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="none" stroke="#e5e7eb" stroke-width="%s"/>`,
			num(center), num(center), num(center*0.8), num(center*0.4))
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="12" fill="#6b7280">No data</text>`,
			num(center), num(center))
	}
	for _, arc := range chart.Arcs {
		fmt.Fprintf(&b, `<path d="%s" fill="%s" fill-rule="evenodd"><title>%s: %d</title></path>`,
			arc.Path, arc.Color, arc.Label, arc.Value)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func sectorPath(center, outer, inner, start, end float64) string {
	large := 0
	if end-start > 180 {
		large = 1
	}
	ox1, oy1 := polar(center, outer, start)
	ox2, oy2 := polar(center, outer, end)
	ix2, iy2 := polar(center, inner, end)
	ix1, iy1 := polar(center, inner, start)
	return fmt.Sprintf("M%s,%s A%s,%s 0 %d,1 %s,%s L%s,%s A%s,%s 0 %d,0 %s,%s Z",
		num(ox1), num(oy1),
		num(outer), num(outer), large, num(ox2), num(oy2),
		num(ix2), num(iy2),
		num(inner), num(inner), large, num(ix1), num(iy1))
}

// ringPath draws a full annulus as two half arcs per circle, SVG cannot arc a full turn.
func ringPath(center, outer, inner float64) string {
	return fmt.Sprintf("M%s,%s A%s,%s 0 1,1 %s,%s A%s,%s 0 1,1 %s,%s Z M%s,%s A%s,%s 0 1,0 %s,%s A%s,%s 0 1,0 %s,%s Z",
		num(center), num(center-outer),
		num(outer), num(outer), num(center), num(center+outer),
		num(outer), num(outer), num(center), num(center-outer),
		num(center), num(center-inner),
		num(inner), num(inner), num(center), num(center+inner),
		num(inner), num(inner), num(center), num(center-inner))
}

// polar maps an angle in degrees (0 at 12 o'clock, clockwise) to SVG coordinates.
func polar(center, radius, degrees float64) (float64, float64) {
	rad := degrees * math.Pi / 180
	return center + radius*math.Sin(rad), center - radius*math.Cos(rad)
}

func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
