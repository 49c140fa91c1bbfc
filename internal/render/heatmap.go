package render

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Diagram axis ranges.
const (
	xMax = 1.20
	yMax = 1.60

	heatmapCells   = 500
	heatmapOpacity = 0.68
	paletteSize    = 256
)

// EPG is the background danger surface: y*x + 0.3*x clipped to [0, 1]. It
// depends only on the diagram position, never on the data.
func EPG(x, y float64) float64 {
	return math.Max(0, math.Min(1, y*x+0.3*x))
}

// epgGrid samples EPG on an evenly spaced grid covering the diagram.
// It implements plotter.GridXYZ.
type epgGrid struct {
	cols, rows int
}

func (g epgGrid) Dims() (c, r int) { return g.cols, g.rows }

func (g epgGrid) X(c int) float64 { return xMax * float64(c) / float64(g.cols-1) }

func (g epgGrid) Y(r int) float64 { return yMax * float64(r) / float64(g.rows-1) }

func (g epgGrid) Z(c, r int) float64 { return EPG(g.X(c), g.Y(r)) }

type colorStop struct {
	at float64
	c  color.RGBA
}

// backgroundStops run green through orange to red.
var backgroundStops = []colorStop{
	{0.00, hex("#4CAF50")},
	{0.30, hex("#FFA500")},
	{1.00, hex("#D32F2F")},
}

// gradient is a palette interpolated between colour stops and blended over
// white at a fixed opacity. It implements palette.Palette.
type gradient struct {
	stops   []colorStop
	n       int
	opacity float64
}

func (g gradient) Colors() []color.Color {
	out := make([]color.Color, g.n)
	for i := range out {
		t := float64(i) / float64(g.n-1)
		out[i] = overWhite(g.at(t), g.opacity)
	}
	return out
}

func (g gradient) at(t float64) color.RGBA {
	if t <= g.stops[0].at {
		return g.stops[0].c
	}
	for i := 1; i < len(g.stops); i++ {
		lo, hi := g.stops[i-1], g.stops[i]
		if t <= hi.at {
			f := (t - lo.at) / (hi.at - lo.at)
			return color.RGBA{
				R: lerp(lo.c.R, hi.c.R, f),
				G: lerp(lo.c.G, hi.c.G, f),
				B: lerp(lo.c.B, hi.c.B, f),
				A: 0xff,
			}
		}
	}
	return g.stops[len(g.stops)-1].c
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

func overWhite(c color.RGBA, alpha float64) color.RGBA {
	blend := func(v uint8) uint8 {
		return uint8(math.Round(float64(v)*alpha + 255*(1-alpha)))
	}
	return color.RGBA{R: blend(c.R), G: blend(c.G), B: blend(c.B), A: 0xff}
}

// hex parses "#RRGGBB". Malformed input yields black.
func hex(s string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(s) != 7 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
