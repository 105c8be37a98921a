// Package config holds the immutable diagram configuration and the
// environment-backed runtime settings.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"
)

// LineStyle describes how one curve family is drawn.
type LineStyle struct {
	Color  color.RGBA
	Width  float64   // points
	Dashes []float64 // points; nil for solid
}

// Diagram is the complete chart configuration. It is constructed once per
// invocation and passed by value; nothing mutates it during rendering.
type Diagram struct {
	// Output geometry.
	Width  float64 // inches
	Height float64 // inches
	DPI    int     // raster formats only

	// Plot bounds. PBottom/PTop are the pressure extent in hPa; TMin/TMax
	// is the temperature range along the bottom edge in °C.
	PBottom float64
	PTop    float64
	TMin    float64
	TMax    float64

	// Skew is the horizontal displacement of an isotherm across the full
	// chart height, as a fraction of the chart width. 1.0 gives the
	// conventional 45° skew.
	Skew float64

	// Background curve families.
	IsothermStep     float64   // °C
	IsobarStep       float64   // hPa
	DryAdiabatMin    float64   // °C potential temperature
	DryAdiabatMax    float64   // °C potential temperature
	DryAdiabatStep   float64   // °C
	MoistAdiabatMin  float64   // °C at 1000 hPa
	MoistAdiabatMax  float64   // °C at 1000 hPa
	MoistAdiabatStep float64   // °C
	MixingRatios     []float64 // g/kg
	MixingRatioTop   float64   // hPa, isopleths stop here

	// LabelEvery labels every Nth curve of a family; 1 labels all.
	LabelEvery int

	IsothermStyle     LineStyle
	IsobarStyle       LineStyle
	DryAdiabatStyle   LineStyle
	MoistAdiabatStyle LineStyle
	MixingRatioStyle  LineStyle
	TemperatureStyle  LineStyle
	DewpointStyle     LineStyle
	ParcelStyle       LineStyle

	// Optional layers.
	ShowBarbs     bool
	ShowHodograph bool
	ShowParcel    bool

	// Title overrides the sounding-derived title when non-empty.
	Title string
}

// Default returns the standard full-troposphere chart.
func Default() Diagram {
	return Diagram{
		Width:  8,
		Height: 8,
		DPI:    100,

		PBottom: 1050,
		PTop:    100,
		TMin:    -40,
		TMax:    45,
		Skew:    1.0,

		IsothermStep:     10,
		IsobarStep:       100,
		DryAdiabatMin:    -30,
		DryAdiabatMax:    170,
		DryAdiabatStep:   10,
		MoistAdiabatMin:  -15,
		MoistAdiabatMax:  40,
		MoistAdiabatStep: 5,
		MixingRatios:     []float64{0.5, 1, 2, 4, 8, 12, 16, 20, 24, 32},
		MixingRatioTop:   500,

		LabelEvery: 1,

		IsothermStyle:     LineStyle{Color: color.RGBA{B: 0xcc, A: 0xff}, Width: 0.4},
		IsobarStyle:       LineStyle{Color: color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}, Width: 0.4},
		DryAdiabatStyle:   LineStyle{Color: color.RGBA{R: 0xcc, G: 0x66, A: 0xff}, Width: 0.4},
		MoistAdiabatStyle: LineStyle{Color: color.RGBA{G: 0x80, B: 0x40, A: 0xff}, Width: 0.4, Dashes: []float64{4, 2}},
		MixingRatioStyle:  LineStyle{Color: color.RGBA{R: 0x90, G: 0x40, B: 0x90, A: 0xff}, Width: 0.4, Dashes: []float64{1, 3}},
		TemperatureStyle:  LineStyle{Color: color.RGBA{R: 0xd0, A: 0xff}, Width: 1.8},
		DewpointStyle:     LineStyle{Color: color.RGBA{G: 0xa0, A: 0xff}, Width: 1.8},
		ParcelStyle:       LineStyle{Color: color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}, Width: 1.2, Dashes: []float64{6, 3}},

		ShowBarbs:     true,
		ShowHodograph: true,
		ShowParcel:    false,
	}
}

// Validate checks that the configuration describes a drawable chart.
func (d Diagram) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("invalid output size %gx%g in", d.Width, d.Height)
	}
	if d.PTop <= 0 || d.PBottom <= d.PTop {
		return fmt.Errorf("invalid pressure bounds %g..%g hPa", d.PBottom, d.PTop)
	}
	if d.TMax <= d.TMin {
		return fmt.Errorf("invalid temperature range %g..%g °C", d.TMin, d.TMax)
	}
	if d.IsothermStep <= 0 || d.IsobarStep <= 0 || d.DryAdiabatStep <= 0 || d.MoistAdiabatStep <= 0 {
		return errors.New("curve family steps must be positive")
	}
	if d.LabelEvery < 1 {
		return errors.New("label density must be at least 1")
	}
	for _, w := range d.MixingRatios {
		if w <= 0 {
			return fmt.Errorf("invalid mixing ratio %g g/kg", w)
		}
	}
	return nil
}

// Runtime holds environment-derived settings that are not part of the chart
// itself: logging, the remote sounding endpoint, and network timeouts.
type Runtime struct {
	LogLevel    string
	LogFormat   string
	UWyoBaseURL string
	HTTPTimeout time.Duration
}

// LoadRuntime reads runtime settings from environment variables, applying
// defaults where unset.
func LoadRuntime() (Runtime, error) {
	timeoutStr := envOrDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		return Runtime{}, fmt.Errorf("invalid HTTP_TIMEOUT %q", timeoutStr)
	}

	return Runtime{
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "text"),
		UWyoBaseURL: envOrDefault("UWYO_BASE_URL", "https://weather.uwyo.edu/cgi-bin/sounding"),
		HTTPTimeout: timeout,
	}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
