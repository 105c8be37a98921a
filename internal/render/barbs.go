package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/skewt/internal/skew"
	"github.com/couchcryptid/skewt/internal/sounding"
)

// barbColumnX is the data-space x position of the wind staff column, just
// inside the right edge of the plot box.
const barbColumnX = 0.95

// barbs draws conventional wind barbs in a column at the right edge, one
// per level with a complete wind observation inside the pressure range.
// Speeds are in knots: a pennant is 50, a full barb 10, a half barb 5, and
// anything under 2.5 is drawn as a calm circle.
type barbs struct {
	levels []sounding.Level
	tr     skew.Transform

	staff vg.Length
	style draw.LineStyle
}

func newBarbs(levels []sounding.Level, tr skew.Transform) *barbs {
	return &barbs{
		levels: levels,
		tr:     tr,
		staff:  vg.Points(22),
		style: draw.LineStyle{
			Color: color.RGBA{A: 0xff},
			Width: vg.Points(0.8),
		},
	}
}

// Plot implements plot.Plotter.
func (b *barbs) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, l := range b.levels {
		if sounding.IsMissing(l.WindDir) || sounding.IsMissing(l.WindSpeed) {
			continue
		}
		y := b.tr.Y(l.Pressure)
		if y < 0 || y > 1 {
			continue
		}
		origin := vg.Point{X: trX(barbColumnX), Y: trY(y)}
		b.drawBarb(c, origin, l.WindDir, l.WindSpeed)
	}
}

func (b *barbs) drawBarb(c draw.Canvas, o vg.Point, dirDeg, speedKt float64) {
	// Round to the nearest 5 kt, the resolution a barb can express.
	spd := math.Round(speedKt/5) * 5
	if spd < 5 {
		b.drawCalm(c, o)
		return
	}

	// The staff points toward the direction the wind comes from; screen y
	// grows upward so north is +y.
	rad := dirDeg * math.Pi / 180
	ux, uy := math.Sin(rad), math.Cos(rad)
	// Barbs extend clockwise off the staff tip.
	px, py := uy, -ux

	tip := vg.Point{
		X: o.X + vg.Length(ux)*b.staff,
		Y: o.Y + vg.Length(uy)*b.staff,
	}
	c.StrokeLine2(b.style, o.X, o.Y, tip.X, tip.Y)

	pos := tip
	step := b.staff / 8
	long := b.staff * 2 / 5
	advance := func(n vg.Length) {
		pos.X -= vg.Length(ux) * n
		pos.Y -= vg.Length(uy) * n
	}
	flag := func(l vg.Length) vg.Point {
		return vg.Point{
			X: pos.X + vg.Length(px)*l + vg.Length(ux)*step/2,
			Y: pos.Y + vg.Length(py)*l + vg.Length(uy)*step/2,
		}
	}

	for spd >= 50 {
		base := pos
		advance(step)
		c.FillPolygon(b.style.Color, []vg.Point{
			base,
			{X: base.X + vg.Length(px)*long, Y: base.Y + vg.Length(py)*long},
			pos,
		})
		spd -= 50
	}
	for spd >= 10 {
		end := flag(long)
		c.StrokeLine2(b.style, pos.X, pos.Y, end.X, end.Y)
		advance(step)
		spd -= 10
	}
	if spd >= 5 {
		end := flag(long / 2)
		c.StrokeLine2(b.style, pos.X, pos.Y, end.X, end.Y)
	}
}

func (b *barbs) drawCalm(c draw.Canvas, o vg.Point) {
	var p vg.Path
	r := b.staff / 8
	p.Move(vg.Point{X: o.X + r, Y: o.Y})
	p.Arc(o, r, 0, 2*math.Pi)
	p.Close()
	c.SetLineStyle(b.style)
	c.Stroke(p)
}
