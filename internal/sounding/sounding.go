package sounding

import (
	"fmt"
	"math"
	"time"
)

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing returns the missing-value sentinel.
func Missing() float64 {
	return math.NaN()
}

// Level is a single observation level.
type Level struct {
	Pressure    float64 // hPa
	Height      float64 // m, optional
	Temperature float64 // °C
	Dewpoint    float64 // °C
	WindDir     float64 // degrees, meteorological
	WindSpeed   float64 // knots
}

// UV converts the level's meteorological wind direction and speed into
// zonal (u, eastward) and meridional (v, northward) components in knots.
// Missing direction or speed yields missing components.
func (l Level) UV() (u, v float64) {
	if IsMissing(l.WindDir) || IsMissing(l.WindSpeed) {
		return Missing(), Missing()
	}
	rad := l.WindDir * math.Pi / 180
	return -l.WindSpeed * math.Sin(rad), -l.WindSpeed * math.Cos(rad)
}

// DirSpeed converts u/v wind components (any common unit) into a
// meteorological direction (degrees FROM) and a speed in the same unit as
// the components. Inverse of Level.UV. Calm air reports direction 0.
func DirSpeed(u, v float64) (dir, speed float64) {
	if IsMissing(u) || IsMissing(v) {
		return Missing(), Missing()
	}
	speed = math.Hypot(u, v)
	if speed == 0 {
		return 0, 0
	}
	dir = math.Mod(math.Atan2(-u, -v)*180/math.Pi+360, 360)
	return dir, speed
}

// KnotsPerMS converts m/s wind speeds to knots.
const KnotsPerMS = 1.9438445

// Sounding is a complete vertical profile with station metadata.
type Sounding struct {
	StationID   string
	StationName string
	Time        time.Time // observation (or model valid) time
	Lat         float64
	Lon         float64
	Source      string // input-data-type token that produced this record
	Retrieved   time.Time

	Levels []Level
}

// New returns an empty Sounding for the given source, with the retrieval
// time stamped from the package clock.
func New(source string) *Sounding {
	return &Sounding{
		Source:    source,
		Lat:       Missing(),
		Lon:       Missing(),
		Retrieved: clock.Now(),
	}
}

// Validate checks the structural invariants of the profile.
func (s *Sounding) Validate() error {
	if len(s.Levels) < 2 {
		return fmt.Errorf("sounding has %d levels, need at least 2", len(s.Levels))
	}

	prevHeight := math.Inf(-1)
	for i, l := range s.Levels {
		if IsMissing(l.Pressure) || l.Pressure <= 0 {
			return fmt.Errorf("level %d: invalid pressure %v", i, l.Pressure)
		}
		if i > 0 && l.Pressure >= s.Levels[i-1].Pressure {
			return fmt.Errorf("level %d: pressure %.1f hPa not below previous %.1f hPa",
				i, l.Pressure, s.Levels[i-1].Pressure)
		}
		if !IsMissing(l.Height) {
			if l.Height < prevHeight {
				return fmt.Errorf("level %d: height %.1f m below previous %.1f m",
					i, l.Height, prevHeight)
			}
			prevHeight = l.Height
		}
		if !IsMissing(l.Temperature) && !IsMissing(l.Dewpoint) && l.Dewpoint > l.Temperature+dewpointSlack {
			return fmt.Errorf("level %d: dewpoint %.1f °C exceeds temperature %.1f °C",
				i, l.Dewpoint, l.Temperature)
		}
	}
	return nil
}

// dewpointSlack tolerates sub-0.1° supersaturation from unit round-tripping
// in model output without rejecting the profile.
const dewpointSlack = 0.1

// HasWind reports whether any level carries a complete wind observation.
func (s *Sounding) HasWind() bool {
	for _, l := range s.Levels {
		if !IsMissing(l.WindDir) && !IsMissing(l.WindSpeed) {
			return true
		}
	}
	return false
}

// Title builds a human-readable chart title from the available metadata.
func (s *Sounding) Title() string {
	name := s.StationName
	if name == "" {
		name = s.StationID
	}
	switch {
	case name != "" && !s.Time.IsZero():
		return fmt.Sprintf("%s  %s", name, s.Time.UTC().Format("02 Jan 2006 15Z"))
	case name != "":
		return name
	case !s.Time.IsZero():
		return s.Time.UTC().Format("02 Jan 2006 15Z")
	default:
		return s.Source
	}
}
