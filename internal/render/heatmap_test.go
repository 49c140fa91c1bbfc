package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEPG(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"origin", 0, 0, 0},
		{"top left", 0, 1.6, 0},
		{"mid", 0.5, 0.5, 0.4},
		{"clipped", 1.2, 1.6, 1},
		{"x only", 1, 0, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EPG(tt.x, tt.y), 1e-12)
		})
	}
}

func TestEPGGrid_CoversDiagram(t *testing.T) {
	g := epgGrid{cols: heatmapCells, rows: heatmapCells}
	c, r := g.Dims()
	assert.Equal(t, 500, c)
	assert.Equal(t, 500, r)
	assert.InDelta(t, 0, g.X(0), 1e-12)
	assert.InDelta(t, xMax, g.X(c-1), 1e-12)
	assert.InDelta(t, yMax, g.Y(r-1), 1e-12)
	assert.InDelta(t, EPG(g.X(250), g.Y(100)), g.Z(250, 100), 1e-12)
}

func TestGradient_Stops(t *testing.T) {
	g := gradient{stops: backgroundStops, n: 11, opacity: 1}

	assert.Equal(t, hex("#4CAF50"), g.at(0))
	assert.Equal(t, hex("#FFA500"), g.at(0.3))
	assert.Equal(t, hex("#D32F2F"), g.at(1))
	assert.Equal(t, hex("#D32F2F"), g.at(1.5))
	assert.Len(t, g.Colors(), 11)
}

func TestGradient_BlendsOverWhite(t *testing.T) {
	g := gradient{stops: backgroundStops, n: 2, opacity: heatmapOpacity}
	colors := g.Colors()

	// 0x4C*0.68 + 255*0.32 = 133.3
	assert.Equal(t, color.RGBA{R: 133, G: 201, B: 136, A: 0xff}, colors[0])
}

func TestHex(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xc1, B: 0x07, A: 0xff}, hex("#FFC107"))
	assert.Equal(t, color.RGBA{A: 0xff}, hex("nope"))
	assert.Equal(t, color.RGBA{A: 0xff}, hex("#FFF"))
}
