// Package thermo implements the standard atmospheric thermodynamics needed
// to construct a Skew-T/Log-P diagram: potential temperature, saturation
// quantities after Bolton (1980), the saturated-adiabatic lapse integration,
// lifting condensation level, and parcel ascent profiles.
//
// All functions are pure and independent of any plotting code. Temperatures
// are °C, pressures hPa, and mixing ratios kg/kg unless noted.
package thermo

import "math"

const (
	rd    = 287.04 // gas constant for dry air, J/(kg·K)
	cp    = 1005.7 // specific heat of dry air at constant pressure, J/(kg·K)
	kappa = rd / cp
	eps   = 0.622 // ratio of gas constants, water vapor to dry air

	kelvin  = 273.15
	gravity = 9.80665 // m/s²

	refPressure = 1000.0 // hPa, reference for potential temperature
)

// latentHeat returns the latent heat of vaporization in J/kg at temperature
// t (°C), with the usual weak linear temperature dependence.
func latentHeat(t float64) float64 {
	return 2.501e6 - 2370*t
}

// SaturationVaporPressure returns the saturation vapor pressure in hPa over
// liquid water at temperature t (°C), after Bolton (1980) eq. 10.
func SaturationVaporPressure(t float64) float64 {
	return 6.112 * math.Exp(17.67*t/(t+243.5))
}

// SaturationMixingRatio returns the saturation mixing ratio (kg/kg) at
// pressure p (hPa) and temperature t (°C).
func SaturationMixingRatio(p, t float64) float64 {
	es := SaturationVaporPressure(t)
	return eps * es / (p - es)
}

// MixingRatioTemperature returns the temperature (°C) at which air at
// pressure p (hPa) is saturated with mixing ratio w (kg/kg). It is the
// inverse of SaturationMixingRatio in t, used to draw mixing-ratio
// isopleths.
func MixingRatioTemperature(w, p float64) float64 {
	e := w * p / (eps + w)
	le := math.Log(e / 6.112)
	return 243.5 * le / (17.67 - le)
}

// DewpointFromMixingRatio returns the dewpoint (°C) of air at pressure p
// (hPa) carrying mixing ratio w (kg/kg). The dewpoint is exactly the
// saturation temperature for the ambient vapor content.
func DewpointFromMixingRatio(w, p float64) float64 {
	return MixingRatioTemperature(w, p)
}

// PotentialTemperature returns θ in °C for temperature t (°C) at pressure
// p (hPa), referenced to 1000 hPa.
func PotentialTemperature(t, p float64) float64 {
	return (t+kelvin)*math.Pow(refPressure/p, kappa) - kelvin
}

// DryAdiabatTemperature returns the temperature (°C) at pressure p (hPa)
// along the dry adiabat with potential temperature theta (°C). It is the
// inverse of PotentialTemperature.
func DryAdiabatTemperature(theta, p float64) float64 {
	return (theta+kelvin)*math.Pow(p/refPressure, kappa) - kelvin
}

// moistLapseDlnP returns dT/d(ln p) in K along a saturated adiabat at
// pressure p (hPa), temperature t (°C).
func moistLapseDlnP(p, t float64) float64 {
	tk := t + kelvin
	ws := SaturationMixingRatio(p, t)
	lv := latentHeat(t)
	num := rd*tk + lv*ws
	den := cp + lv*lv*ws*eps/(rd*tk*tk)
	return num / den
}

// moistStep is the ln(p) step for the saturated-adiabat integration. At
// 0.005 a full 1050→100 hPa ascent takes ~470 steps, which holds the
// round-trip error below 0.01 °C.
const moistStep = 0.005

// MoistLapse integrates the saturated-adiabatic lapse rate from (p0, t0) to
// pressure p1, upward or downward, and returns the temperature there.
// Pressures are hPa, temperatures °C.
func MoistLapse(p0, t0, p1 float64) float64 {
	if p0 == p1 {
		return t0
	}

	lnP0, lnP1 := math.Log(p0), math.Log(p1)
	span := lnP1 - lnP0
	n := int(math.Ceil(math.Abs(span) / moistStep))
	h := span / float64(n)

	t := t0
	lnP := lnP0
	for i := 0; i < n; i++ {
		// Midpoint (RK2) step in ln p.
		p := math.Exp(lnP)
		k1 := moistLapseDlnP(p, t)
		pm := math.Exp(lnP + h/2)
		k2 := moistLapseDlnP(pm, t+k1*h/2)
		t += k2 * h
		lnP += h
	}
	return t
}

// LCL returns the lifting condensation level pressure (hPa) and temperature
// (°C) for a parcel starting at pressure p (hPa) with temperature t and
// dewpoint td (°C), using Bolton (1980) eq. 15 for the LCL temperature and
// dry-adiabatic ascent for its pressure.
func LCL(p, t, td float64) (pLCL, tLCL float64) {
	if td >= t {
		return p, t // already saturated
	}
	tk := t + kelvin
	tdk := td + kelvin
	tl := 56 + 1/(1/(tdk-56)+math.Log(tk/tdk)/800)
	pl := p * math.Pow(tl/tk, 1/kappa)
	return pl, tl - kelvin
}

// ParcelProfile lifts a surface parcel (p0, t0, td0) and returns its
// temperature (°C) at each of the given pressures: dry-adiabatic below the
// LCL, saturated-adiabatic above. Pressures above the starting level
// (p > p0) follow the dry adiabat downward. The input pressures need not be
// ordered.
func ParcelProfile(pressures []float64, p0, t0, td0 float64) []float64 {
	pLCL, tLCL := LCL(p0, t0, td0)
	theta := PotentialTemperature(t0, p0)

	out := make([]float64, len(pressures))
	for i, p := range pressures {
		if p >= pLCL {
			out[i] = DryAdiabatTemperature(theta, p)
		} else {
			out[i] = MoistLapse(pLCL, tLCL, p)
		}
	}
	return out
}

// ExnerFunction returns the nondimensional pressure (p/1000)^κ for p in
// hPa.
func ExnerFunction(p float64) float64 {
	return math.Pow(p/refPressure, kappa)
}

// PressureFromExner is the inverse of ExnerFunction, returning hPa.
func PressureFromExner(pi float64) float64 {
	return refPressure * math.Pow(pi, 1/kappa)
}

// HydrostaticExnerStep returns the Exner-function decrement across a layer
// of mean virtual potential temperature thetav (K) and depth dz (m). Used
// to recover pressure hydrostatically from height/θ profiles that carry no
// pressure of their own.
func HydrostaticExnerStep(thetav, dz float64) float64 {
	return gravity * dz / (cp * thetav)
}

// VirtualPotentialTemperature returns θv (K) for potential temperature
// theta (K) and water-vapor mixing ratio w (kg/kg).
func VirtualPotentialTemperature(theta, w float64) float64 {
	return theta * (1 + 0.61*w)
}

// StandardHeight returns the ICAO standard-atmosphere geopotential height
// (m) for pressure p (hPa). Valid through the lower stratosphere; used only
// to annotate isobars.
func StandardHeight(p float64) float64 {
	const (
		p0 = 1013.25 // hPa
		t0 = 288.15  // K
		l  = 0.0065  // K/m, tropospheric lapse
		// Tropopause (11 km) values for the isothermal layer above.
		pTrop = 226.321
		hTrop = 11000.0
		tTrop = 216.65
	)
	if p >= pTrop {
		return t0 / l * (1 - math.Pow(p/p0, rd*l/gravity))
	}
	return hTrop + rd*tTrop/gravity*math.Log(pTrop/p)
}
