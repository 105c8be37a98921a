// Package skew implements the Skew-T/Log-P coordinate transform and the
// construction of the background curve families (isotherms, isobars, dry and
// moist adiabats, mixing-ratio isopleths) in transformed space.
package skew

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/skewt/internal/config"
)

// ErrDomain is returned when a (pressure, temperature) pair falls outside
// the configured plot bounds. Callers clip or skip such samples; the render
// itself never fails on them.
var ErrDomain = errors.New("outside plot domain")

// Transform maps (pressure hPa, temperature °C) to unit plot coordinates.
//
// y is the log-pressure axis, 0 at PBottom (surface) and 1 at PTop, so
// lower pressure plots higher. x is the temperature fraction along the
// bottom edge plus a skew displacement proportional to y. The mapping is
// monotonic and exactly invertible over the plotted domain.
type Transform struct {
	PBottom, PTop float64
	TMin, TMax    float64
	Skew          float64

	logRatio float64 // ln(PBottom/PTop), cached
}

// NewTransform builds the transform for the configured plot bounds.
func NewTransform(cfg config.Diagram) Transform {
	return Transform{
		PBottom:  cfg.PBottom,
		PTop:     cfg.PTop,
		TMin:     cfg.TMin,
		TMax:     cfg.TMax,
		Skew:     cfg.Skew,
		logRatio: math.Log(cfg.PBottom / cfg.PTop),
	}
}

// Y maps a pressure to its vertical coordinate without any domain check.
func (tr Transform) Y(p float64) float64 {
	return math.Log(tr.PBottom/p) / tr.logRatio
}

// Pressure maps a vertical coordinate back to pressure. Inverse of Y.
func (tr Transform) Pressure(y float64) float64 {
	return tr.PBottom * math.Exp(-y*tr.logRatio)
}

// project applies the full mapping with no domain check. Curve-family
// generation uses this and clips the resulting polylines instead of
// rejecting points.
func (tr Transform) project(p, t float64) (x, y float64) {
	y = tr.Y(p)
	x = (t-tr.TMin)/(tr.TMax-tr.TMin) + tr.Skew*y
	return x, y
}

// XY maps (p, t) to plot coordinates. It returns ErrDomain when p lies
// outside the pressure bounds or the skewed x coordinate falls off the
// chart.
func (tr Transform) XY(p, t float64) (x, y float64, err error) {
	if p > tr.PBottom || p < tr.PTop {
		return 0, 0, fmt.Errorf("pressure %.1f hPa: %w", p, ErrDomain)
	}
	x, y = tr.project(p, t)
	if x < 0 || x > 1 {
		return 0, 0, fmt.Errorf("temperature %.1f °C at %.1f hPa: %w", t, p, ErrDomain)
	}
	return x, y, nil
}

// PT is the exact inverse of XY.
func (tr Transform) PT(x, y float64) (p, t float64) {
	p = tr.Pressure(y)
	t = (x-tr.Skew*y)*(tr.TMax-tr.TMin) + tr.TMin
	return p, t
}
