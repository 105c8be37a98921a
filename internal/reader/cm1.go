package reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/sounding"
	"github.com/couchcryptid/skewt/internal/thermo"
)

// CM1 reads a CM1 input_sounding file. The format carries no pressure
// above the surface:
//
//	line 1:  surface pressure (hPa), θ (K), qv (g/kg)
//	line 2+: height (m), θ (K), qv (g/kg), u (m/s), v (m/s)
//
// Pressure at each level is recovered hydrostatically by integrating the
// Exner function upward through the virtual potential temperature profile,
// the same way CM1 itself initializes its base state.
type CM1 struct {
	path   string
	logger *slog.Logger
}

func newCM1(opts Options, _ config.Runtime, logger *slog.Logger) Reader {
	return &CM1{path: opts.file(), logger: logger}
}

func (r *CM1) Read(_ context.Context) (*sounding.Sounding, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open cm1 sounding: %w", err)
	}
	defer f.Close()

	snd, err := parseCM1(f)
	if err != nil {
		return nil, fmt.Errorf("parse cm1 sounding %s: %w", r.path, err)
	}
	r.logger.Debug("cm1 sounding read", "file", r.path, "levels", len(snd.Levels))
	return snd, nil
}

type cm1Level struct {
	z, theta, qv, u, v float64
}

func parseCM1(src io.Reader) (*sounding.Sounding, error) {
	sc := bufio.NewScanner(src)

	surface, err := scanFloats(sc, 3)
	if err != nil {
		return nil, fmt.Errorf("surface line: %w", err)
	}
	pSfc, thetaSfc, qvSfc := surface[0], surface[1], surface[2]/1000 // g/kg → kg/kg

	var levels []cm1Level
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("level %d: want 5 columns (z theta qv u v), got %d", len(levels)+1, len(fields))
		}
		vals := make([]float64, 5)
		for i, s := range fields {
			if vals[i], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("level %d: column %d: %w", len(levels)+1, i+1, err)
			}
		}
		levels = append(levels, cm1Level{
			z: vals[0], theta: vals[1], qv: vals[2] / 1000, u: vals[3], v: vals[4],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(levels) < 2 {
		return nil, fmt.Errorf("only %d levels", len(levels))
	}

	snd := sounding.New("cm1")
	snd.Levels = make([]sounding.Level, len(levels))

	// March the Exner function up from the surface.
	pi := thermo.ExnerFunction(pSfc)
	zPrev := 0.0
	thvPrev := thermo.VirtualPotentialTemperature(thetaSfc, qvSfc)
	for i, l := range levels {
		thv := thermo.VirtualPotentialTemperature(l.theta, l.qv)
		pi -= thermo.HydrostaticExnerStep((thv+thvPrev)/2, l.z-zPrev)
		if pi <= 0 {
			return nil, fmt.Errorf("level %d: hydrostatic integration left the atmosphere", i+1)
		}
		zPrev, thvPrev = l.z, thv

		p := thermo.PressureFromExner(pi)
		tC := l.theta*pi - 273.15
		dir, spd := sounding.DirSpeed(l.u, l.v)

		snd.Levels[i] = sounding.Level{
			Pressure:    p,
			Height:      l.z,
			Temperature: tC,
			Dewpoint:    thermo.DewpointFromMixingRatio(l.qv, p),
			WindDir:     dir,
			WindSpeed:   spd * sounding.KnotsPerMS,
		}
	}

	if err := snd.Validate(); err != nil {
		return nil, err
	}
	return snd, nil
}

// scanFloats reads the next non-blank line and parses exactly n fields.
func scanFloats(sc *bufio.Scanner, n int) ([]float64, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != n {
			return nil, fmt.Errorf("want %d fields, got %d", n, len(fields))
		}
		out := make([]float64, n)
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", i+1, err)
			}
			out[i] = v
		}
		return out, nil
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}
