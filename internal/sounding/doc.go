// Package sounding models an atmospheric sounding: a vertical profile of
// pressure, temperature, moisture, and wind observations.
//
// # Data Conventions
//
// A sounding is an ordered sequence of levels with pressure strictly
// decreasing (the first level is nearest the surface). Units are fixed at
// the package boundary regardless of input format:
//
//	Pressure     hPa
//	Height       m above sea level (geopotential)
//	Temperature  °C
//	Dewpoint     °C
//	WindDir      degrees, meteorological (direction the wind blows FROM)
//	WindSpeed    knots
//
// Format readers are responsible for converting source units (Pa, Kelvin,
// m/s, mixing ratio) before constructing a Sounding.
//
// # Missing Values
//
// Missing observations are represented as NaN and tested with [IsMissing].
// They are never coerced to zero: a zero temperature is a valid reading and
// a missing one is not, and downstream rendering must be able to tell the
// two apart to break trace lines at data gaps.
//
// # Validation
//
// [Sounding.Validate] enforces the structural invariants every consumer
// relies on: at least two levels, strictly decreasing pressure,
// non-decreasing height where present, and dewpoint never exceeding
// temperature at the same level. Readers validate before returning, so a
// Sounding handed to the renderer is always well formed.
package sounding
