// Package export renders magnetization and energy data as standalone SVG
// documents for reports and quick inspection.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/spinsim/internal/mag"
)

// MzHeatmapSVG renders an m_z grid as a cell heatmap using a diverging
// blue-white-red scale over [−1, 1].
func MzHeatmapSVG(mz *mag.ScalarField, cellPx int) string {
	if mz == nil || mz.N == 0 {
		return ""
	}
	if cellPx < 1 {
		cellPx = 1
	}

	side := mz.N * cellPx
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, side, side, side, side))

	for y := 0; y < mz.N; y++ {
		for x := 0; x < mz.N; x++ {
			r, g, b := divergingColor(mz.At(x, y))
			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="#%02x%02x%02x"/>
`, x*cellPx, y*cellPx, cellPx, cellPx, r, g, b))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// divergingColor maps v ∈ [−1, 1] to blue (−1), white (0), red (+1).
func divergingColor(v float64) (uint8, uint8, uint8) {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	if v < 0 {
		t := 1 + v // 0 at −1, 1 at 0
		return uint8(255 * t), uint8(255 * t), 255
	}
	t := 1 - v // 1 at 0, 0 at +1
	return 255, uint8(255 * t), uint8(255 * t)
}

// EnergySVG renders the energy history as a polyline.
func EnergySVG(history []mag.EnergySample, width, height int) string {
	if len(history) < 2 {
		return ""
	}

	minE, maxE := history[0].Energy, history[0].Energy
	for _, s := range history {
		if s.Energy < minE {
			minE = s.Energy
		}
		if s.Energy > maxE {
			maxE = s.Energy
		}
	}
	rangeE := maxE - minE
	if rangeE == 0 {
		rangeE = 1
	}
	minE -= rangeE * 0.05
	maxE += rangeE * 0.05
	rangeE = maxE - minE

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`,
		width, height, width, height))

	lastStep := history[len(history)-1].Step
	if lastStep == 0 {
		lastStep = 1
	}
	for i, s := range history {
		x := float64(s.Step) / float64(lastStep) * float64(width)
		y := float64(height) - (s.Energy-minE)/rangeE*float64(height)
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
