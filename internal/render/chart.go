package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

const (
	xLabel = "Risco de fogo observado (RF)"
	yLabel = "Tendência temporal de risco (TTR)"

	// 600x375pt renders as 800x500px at the default 96 DPI.
	chartWidth  = 600 * vg.Inch / 72
	chartHeight = 375 * vg.Inch / 72
)

// ErrNoPoints is returned when a chart is requested without plottable points.
var ErrNoPoints = errors.New("no plottable points")

// Renderer draws risk-trajectory diagrams.
type Renderer struct {
	width, height vg.Length
	cells         int
}

// NewRenderer creates a renderer producing 800x500 px PNG charts.
func NewRenderer() *Renderer {
	return &Renderer{width: chartWidth, height: chartHeight, cells: heatmapCells}
}

// Chart draws the diagram for one location: the EPG background, a dashed
// trajectory through the points in date order, and the points coloured by
// risk tier. points must all have a defined indicator.
func (r *Renderer) Chart(title string, points []domain.TrajectoryPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	heat := plotter.NewHeatMap(epgGrid{cols: r.cells, rows: r.cells}, gradient{
		stops:   backgroundStops,
		n:       paletteSize,
		opacity: heatmapOpacity,
	})
	heat.Min, heat.Max = 0, 1
	heat.Rasterized = true
	p.Add(heat)

	trajectory := make(plotter.XYs, len(points))
	for i, pt := range points {
		trajectory[i] = plotter.XY{X: pt.Risk, Y: pt.Indicator.Value}
	}
	line, err := plotter.NewLine(trajectory)
	if err != nil {
		return nil, fmt.Errorf("trajectory line: %w", err)
	}
	line.LineStyle.Color = color.Black
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(4)}
	p.Add(line)

	for _, tier := range domain.Tiers {
		xys := plotter.XYs{}
		for _, pt := range points {
			if pt.Tier == tier {
				xys = append(xys, plotter.XY{X: pt.Risk, Y: pt.Indicator.Value})
			}
		}
		fill, ring, err := tierMarkers(tier, xys)
		if err != nil {
			return nil, err
		}
		if len(xys) > 0 {
			p.Add(fill, ring)
		}
		// Legend entries are fixed so every diagram shows all four tiers.
		p.Legend.Add("Nível "+string(tier), fill, ring)
	}
	p.Legend.Top = true

	p.X.Min, p.X.Max = 0, xMax
	p.Y.Min, p.Y.Max = 0, yMax

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// tierMarkers builds the filled marker and its black outline for a tier. An
// empty group gets a placeholder point so it can still serve as a legend
// thumbnail.
func tierMarkers(tier domain.RiskTier, xys plotter.XYs) (*plotter.Scatter, *plotter.Scatter, error) {
	if len(xys) == 0 {
		xys = plotter.XYs{{}}
	}
	fill, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, nil, fmt.Errorf("%s markers: %w", tier, err)
	}
	fill.GlyphStyle = draw.GlyphStyle{
		Color:  hex(tier.Color()),
		Radius: vg.Points(4),
		Shape:  draw.CircleGlyph{},
	}

	ring, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, nil, fmt.Errorf("%s outline: %w", tier, err)
	}
	ring.GlyphStyle = draw.GlyphStyle{
		Color:  color.Black,
		Radius: vg.Points(4),
		Shape:  draw.RingGlyph{},
	}
	return fill, ring, nil
}
