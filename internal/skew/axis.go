package skew

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/plotter"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/thermo"
)

// curveSamples is the number of pressure levels each non-straight background
// curve is evaluated at.
const curveSamples = 60

// Curve is one member of a background family, already clipped to the unit
// plot box. Pts may hold fewer points than sampled when the curve leaves
// the chart.
type Curve struct {
	Value float64 // family parameter (°C, hPa, or g/kg)
	Pts   plotter.XYs
}

// Family is a named set of background curves sharing a line style, plus the
// tick labels placed where its curves meet a chart edge.
type Family struct {
	Name   string
	Style  config.LineStyle
	Curves []Curve
	Labels plotter.XYLabels
}

// Isotherms returns straight lines of constant temperature at the
// configured step, spanning every isotherm that enters the plot box.
func Isotherms(tr Transform, cfg config.Diagram) Family {
	f := Family{Name: "isotherms", Style: cfg.IsothermStyle}

	// The coldest visible isotherm exits at the top-left corner, displaced
	// by the full skew.
	tSpan := cfg.TMax - cfg.TMin
	lo := math.Floor((cfg.TMin-cfg.Skew*tSpan)/cfg.IsothermStep) * cfg.IsothermStep
	for t := lo; t <= cfg.TMax; t += cfg.IsothermStep {
		x0, y0 := tr.project(cfg.PBottom, t)
		x1, y1 := tr.project(cfg.PTop, t)
		pts := clipUnitBox(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
		label := strconv.FormatFloat(t, 'f', -1, 64)
		appendCurves(&f, t, label, pts, cfg.LabelEvery)
	}
	return f
}

// Isobars returns horizontal lines every cfg.IsobarStep hPa from PBottom up
// to PTop, annotated with the standard-atmosphere height of each level.
// The set contains exactly floor((PBottom-PTop)/step)+1 members.
func Isobars(tr Transform, cfg config.Diagram) Family {
	f := Family{Name: "isobars", Style: cfg.IsobarStyle}

	n := int(math.Floor((cfg.PBottom-cfg.PTop)/cfg.IsobarStep+1e-9)) + 1
	for i := 0; i < n; i++ {
		p := cfg.PBottom - float64(i)*cfg.IsobarStep
		y := tr.Y(p)
		pts := []plotter.XYs{{{X: 0, Y: y}, {X: 1, Y: y}}}
		label := fmt.Sprintf("%.0f m", thermo.StandardHeight(p))
		appendCurves(&f, p, label, pts, cfg.LabelEvery)
	}
	return f
}

// DryAdiabats returns curves of constant potential temperature over the
// configured θ range, truncated silently at the plot boundary.
func DryAdiabats(tr Transform, cfg config.Diagram) Family {
	f := Family{Name: "dry adiabats", Style: cfg.DryAdiabatStyle}

	for _, theta := range spanBy(cfg.DryAdiabatMin, cfg.DryAdiabatMax, cfg.DryAdiabatStep) {
		raw := make(plotter.XYs, 0, curveSamples)
		for _, y := range sampleYs() {
			p := tr.Pressure(y)
			x, yy := tr.project(p, thermo.DryAdiabatTemperature(theta, p))
			raw = append(raw, plotter.XY{X: x, Y: yy})
		}
		label := strconv.FormatFloat(theta, 'f', -1, 64)
		appendCurves(&f, theta, label, clipUnitBox(raw), cfg.LabelEvery)
	}
	return f
}

// MoistAdiabats returns saturated-adiabat curves, one per configured
// reference temperature at 1000 hPa, integrated stepwise through the
// plotted pressure range.
func MoistAdiabats(tr Transform, cfg config.Diagram) Family {
	f := Family{Name: "moist adiabats", Style: cfg.MoistAdiabatStyle}

	ys := sampleYs()
	for _, t0 := range spanBy(cfg.MoistAdiabatMin, cfg.MoistAdiabatMax, cfg.MoistAdiabatStep) {
		raw := make(plotter.XYs, 0, len(ys))
		// Integrate progressively from the reference level so each sample
		// continues the previous one instead of restarting at 1000 hPa.
		pPrev, tPrev := 1000.0, t0
		for _, y := range ys {
			p := tr.Pressure(y)
			t := thermo.MoistLapse(pPrev, tPrev, p)
			pPrev, tPrev = p, t
			x, yy := tr.project(p, t)
			raw = append(raw, plotter.XY{X: x, Y: yy})
		}
		label := strconv.FormatFloat(t0, 'f', -1, 64)
		appendCurves(&f, t0, label, clipUnitBox(raw), cfg.LabelEvery)
	}
	return f
}

// MixingRatioLines returns saturation mixing-ratio isopleths (g/kg) drawn
// from the surface up to cfg.MixingRatioTop.
func MixingRatioLines(tr Transform, cfg config.Diagram) Family {
	f := Family{Name: "mixing ratio", Style: cfg.MixingRatioStyle}

	yTop := tr.Y(cfg.MixingRatioTop)
	for _, w := range cfg.MixingRatios {
		raw := make(plotter.XYs, 0, curveSamples)
		for _, y := range sampleYs() {
			if y > yTop {
				break
			}
			p := tr.Pressure(y)
			t := thermo.MixingRatioTemperature(w/1000, p)
			x, yy := tr.project(p, t)
			raw = append(raw, plotter.XY{X: x, Y: yy})
		}
		label := strconv.FormatFloat(w, 'f', -1, 64)
		appendCurves(&f, w, label, clipUnitBox(raw), cfg.LabelEvery)
	}
	return f
}

// Families builds all background curve families in their drawing order
// (bottom-most first).
func Families(tr Transform, cfg config.Diagram) []Family {
	return []Family{
		Isobars(tr, cfg),
		Isotherms(tr, cfg),
		DryAdiabats(tr, cfg),
		MoistAdiabats(tr, cfg),
		MixingRatioLines(tr, cfg),
	}
}

// appendCurves adds the clipped sub-polylines of one curve to the family
// and, subject to the label density, places a tick label at an edge
// intersection. A curve that never reaches a chart edge gets no label.
func appendCurves(f *Family, value float64, label string, segs []plotter.XYs, every int) {
	placed := false
	labelWanted := len(f.Curves)%every == 0

	for _, seg := range segs {
		f.Curves = append(f.Curves, Curve{Value: value, Pts: seg})
		if !labelWanted || placed || len(seg) == 0 {
			continue
		}
		// Prefer the exit point (top of the curve) over the entry point.
		for _, pt := range []plotter.XY{seg[len(seg)-1], seg[0]} {
			if onBoxEdge(pt) {
				f.Labels.XYs = append(f.Labels.XYs, pt)
				f.Labels.Labels = append(f.Labels.Labels, label)
				placed = true
				break
			}
		}
	}
}

const edgeEps = 1e-6

func onBoxEdge(pt plotter.XY) bool {
	return pt.X < edgeEps || pt.X > 1-edgeEps || pt.Y < edgeEps || pt.Y > 1-edgeEps
}

// sampleYs returns the vertical sample positions shared by all curved
// families.
func sampleYs() []float64 {
	return floats.Span(make([]float64, curveSamples), 0, 1)
}

// spanBy returns min, min+step, ... up to and including max.
func spanBy(min, max, step float64) []float64 {
	n := int(math.Floor((max-min)/step+1e-9)) + 1
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{min}
	}
	return floats.Span(make([]float64, n), min, min+step*float64(n-1))
}
