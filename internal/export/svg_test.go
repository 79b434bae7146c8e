package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinsim/internal/mag"
)

func TestMzHeatmapSVG(t *testing.T) {
	mz := mag.NewScalarField(4)
	for i := range mz.Data {
		mz.Data[i] = -1 + float64(i)/8
	}

	svg := MzHeatmapSVG(mz, 8)
	require.True(t, strings.HasPrefix(svg, `<?xml version="1.0"`))
	require.Contains(t, svg, `<svg xmlns="http://www.w3.org/2000/svg" width="32" height="32"`)
	require.Equal(t, 16, strings.Count(svg, "<rect"))
	require.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestMzHeatmapSVGDegenerate(t *testing.T) {
	require.Empty(t, MzHeatmapSVG(nil, 4))
	require.Empty(t, MzHeatmapSVG(&mag.ScalarField{}, 4))

	// A non-positive cell size falls back to 1 px.
	mz := mag.NewScalarField(2)
	svg := MzHeatmapSVG(mz, 0)
	require.Contains(t, svg, `width="2" height="2"`)
}

func TestDivergingColorEndpoints(t *testing.T) {
	r, g, b := divergingColor(-1)
	require.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})

	r, g, b = divergingColor(0)
	require.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{r, g, b})

	r, g, b = divergingColor(1)
	require.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})

	// Out-of-range values clamp.
	r, g, b = divergingColor(-5)
	require.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})
}

func TestEnergySVG(t *testing.T) {
	history := []mag.EnergySample{
		{Step: 0, Energy: -1.0},
		{Step: 10, Energy: -1.5},
		{Step: 20, Energy: -2.0},
	}

	svg := EnergySVG(history, 400, 200)
	require.Contains(t, svg, `width="400" height="200"`)
	require.Contains(t, svg, `<path fill="none"`)
	require.Equal(t, 2, strings.Count(svg, " L"))
	require.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestEnergySVGDegenerate(t *testing.T) {
	require.Empty(t, EnergySVG(nil, 400, 200))
	require.Empty(t, EnergySVG([]mag.EnergySample{{Step: 0, Energy: 1}}, 400, 200))

	// A flat history must not divide by zero.
	flat := []mag.EnergySample{{Step: 0, Energy: 2}, {Step: 5, Energy: 2}}
	svg := EnergySVG(flat, 100, 50)
	require.Contains(t, svg, "<path")
}
