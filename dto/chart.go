package dto

import (
	"strconv"

	"coursehub/api"
)

var chartColors = []string{"#475569", "#64748b", "#94a3b8", "#cbd5e1", "#e2e8f0", "#f1f5f9"}

// Bar is one chart bar scaled against the tallest bar.
type Bar struct {
	Label string
	Count int
	Fill  string
	Width int
}

func Bars(points []api.ChartPoint) []Bar {
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Count)
	}
	result := make([]Bar, len(points))
	for i, p := range points {
		fill := p.Fill
		if fill == "" {
			fill = chartColors[i%len(chartColors)]
		}
		width := 0
		if peak > 0 {
			width = p.Count * 100 / peak
		}
		result[i] = Bar{Label: p.Label(), Count: p.Count, Fill: fill, Width: width}
	}
	return result
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
