// Package export renders stored trajectories for consumers outside the
// terminal, currently as SVG path plots of the xy-plane projection.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravlab/internal/nbody"
)

var pathColors = []string{
	"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#8888ff",
}

// TrajectoryToSVG draws one polyline per body through every frame,
// projected onto the xy-plane and scaled to the given pixel size.
func TrajectoryToSVG(frames [][]nbody.Vec3, width, height int) string {
	if len(frames) == 0 || len(frames[0]) == 0 {
		return ""
	}

	minX, maxX, minY, maxY := bounds(frames)

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	const margin = 10.0
	sx := (float64(width) - 2*margin) / spanX
	sy := (float64(height) - 2*margin) / spanY

	project := func(p nbody.Vec3) (float64, float64) {
		return margin + (p.X-minX)*sx, float64(height) - margin - (p.Y-minY)*sy
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	bodies := len(frames[0])
	for i := 0; i < bodies; i++ {
		color := pathColors[i%len(pathColors)]

		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.6" points="`, color))
		for step, frame := range frames {
			if i >= len(frame) {
				break
			}
			x, y := project(frame[i])
			if step > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString("\"/>\n")

		// Mark the final position.
		x, y := project(frames[len(frames)-1][i])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2.5" fill="%s"/>`+"\n", x, y, color))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func bounds(frames [][]nbody.Vec3) (minX, maxX, minY, maxY float64) {
	first := frames[0][0]
	minX, maxX = first.X, first.X
	minY, maxY = first.Y, first.Y

	for _, frame := range frames {
		for _, p := range frame {
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}
	return minX, maxX, minY, maxY
}
