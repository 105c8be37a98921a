package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/skewt/internal/sounding"
)

// hodograph draws a small u/v wind trace inset in the upper-left corner of
// the chart, with speed rings every ringStep knots.
type hodograph struct {
	levels []sounding.Level

	size     vg.Length
	pad      vg.Length
	ringStep float64

	line  draw.LineStyle
	ring  draw.LineStyle
	frame draw.LineStyle
}

func newHodograph(levels []sounding.Level) *hodograph {
	return &hodograph{
		levels:   levels,
		size:     vg.Points(110),
		pad:      vg.Points(6),
		ringStep: 20,
		line: draw.LineStyle{
			Color: color.RGBA{R: 0x20, G: 0x20, B: 0xb0, A: 0xff},
			Width: vg.Points(1.2),
		},
		ring: draw.LineStyle{
			Color: color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff},
			Width: vg.Points(0.4),
		},
		frame: draw.LineStyle{
			Color: color.RGBA{A: 0xff},
			Width: vg.Points(0.6),
		},
	}
}

// Plot implements plot.Plotter.
func (h *hodograph) Plot(c draw.Canvas, _ *plot.Plot) {
	maxSpd := h.maxSpeed()
	if maxSpd <= 0 {
		return
	}
	outer := math.Ceil(maxSpd/h.ringStep) * h.ringStep

	min := vg.Point{X: c.Min.X + h.pad, Y: c.Max.Y - h.pad - h.size}
	max := vg.Point{X: min.X + h.size, Y: min.Y + h.size}
	box := []vg.Point{min, {X: max.X, Y: min.Y}, max, {X: min.X, Y: max.Y}}

	c.FillPolygon(color.White, box)
	c.StrokeLines(h.frame, append(box, min))

	center := vg.Point{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2}
	scale := (h.size/2 - h.pad) / vg.Length(outer)

	c.SetLineStyle(h.ring)
	for r := h.ringStep; r <= outer; r += h.ringStep {
		var p vg.Path
		radius := vg.Length(r) * scale
		p.Move(vg.Point{X: center.X + radius, Y: center.Y})
		p.Arc(center, radius, 0, 2*math.Pi)
		p.Close()
		c.Stroke(p)

		font := plot.DefaultFont
		font.Size = vg.Points(6)
		lbl := draw.TextStyle{
			Color:   h.ring.Color,
			Font:    font,
			XAlign:  text.XCenter,
			YAlign:  text.YBottom,
			Handler: plot.DefaultTextHandler,
		}
		c.FillText(lbl, vg.Point{X: center.X, Y: center.Y + radius}, fmt.Sprintf("%.0f", r))
	}

	var prev vg.Point
	havePrev := false
	for _, l := range h.levels {
		u, v := l.UV()
		if sounding.IsMissing(u) || sounding.IsMissing(v) {
			havePrev = false
			continue
		}
		pt := vg.Point{
			X: center.X + vg.Length(u)*scale,
			Y: center.Y + vg.Length(v)*scale,
		}
		if havePrev {
			c.StrokeLine2(h.line, prev.X, prev.Y, pt.X, pt.Y)
		}
		prev, havePrev = pt, true
	}
}

func (h *hodograph) maxSpeed() float64 {
	max := 0.0
	for _, l := range h.levels {
		if !sounding.IsMissing(l.WindSpeed) && l.WindSpeed > max {
			max = l.WindSpeed
		}
	}
	return max
}
