package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rlsim/internal/dynamo"
)

// SVG renders a trajectory as a single SVG path, current against time.
func SVG(traj *dynamo.Trajectory, width, height int, strokeColor string) string {
	if traj == nil || traj.Len() < 2 {
		return ""
	}

	// Find bounds
	pts := plottable(traj.Samples)
	if len(pts) < 2 {
		return ""
	}
	minX, maxX := pts[0].Time, pts[len(pts)-1].Time
	minY, maxY := pts[0].Current, pts[0].Current
	for _, p := range pts {
		if p.Current < minY {
			minY = p.Current
		}
		if p.Current > maxY {
			maxY = p.Current
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range pts {
		x := (p.Time - minX) / rangeX * float64(width)
		y := float64(height) - (p.Current-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

