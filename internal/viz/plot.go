package viz

import "github.com/guptarohit/asciigraph"

// PlotSeries renders one diagnostic series as a fixed-size terminal graph.
func PlotSeries(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// Sparkline is a compact variant for live views.
func Sparkline(data []float64, caption string) string {
	if len(data) < 2 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.Caption(caption),
	)
}
