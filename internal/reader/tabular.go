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
)

// Tabular reads a whitespace-delimited sounding file with one level per
// line: pressure (hPa), height (m), temperature (°C), dewpoint (°C) and
// optionally wind direction (deg) and speed (kt). Lines starting with #
// are comments. Values at or beyond the sentinel magnitudes are missing.
type Tabular struct {
	filename string
	logger   *slog.Logger
}

func newTabular(opts Options, _ config.Runtime, logger *slog.Logger) Reader {
	return &Tabular{filename: opts.file(), logger: logger}
}

func (r *Tabular) Read(_ context.Context) (*sounding.Sounding, error) {
	f, err := os.Open(r.filename)
	if err != nil {
		return nil, fmt.Errorf("open tabular sounding: %w", err)
	}
	defer f.Close()

	snd, err := parseTabular(f)
	if err != nil {
		return nil, fmt.Errorf("parse tabular sounding %s: %w", r.filename, err)
	}
	r.logger.Debug("tabular sounding read", "file", r.filename, "levels", len(snd.Levels))
	return snd, nil
}

func parseTabular(src io.Reader) (*sounding.Sounding, error) {
	snd := sounding.New("tabular")

	sc := bufio.NewScanner(src)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 && len(fields) != 6 {
			return nil, fmt.Errorf("line %d: want 4 or 6 columns (p z t td [dir spd]), got %d", lineNo, len(fields))
		}

		vals := make([]float64, len(fields))
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", lineNo, i+1, err)
			}
			vals[i] = sentinelToMissing(v)
		}

		lvl := sounding.Level{
			Pressure:    vals[0],
			Height:      vals[1],
			Temperature: vals[2],
			Dewpoint:    vals[3],
			WindDir:     sounding.Missing(),
			WindSpeed:   sounding.Missing(),
		}
		if len(vals) == 6 {
			lvl.WindDir = vals[4]
			lvl.WindSpeed = vals[5]
		}
		snd.Levels = append(snd.Levels, lvl)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if err := snd.Validate(); err != nil {
		return nil, err
	}
	return snd, nil
}

// sentinelToMissing maps the common missing-data sentinels (-999, -9999,
// 99999 and friends) to the explicit missing value.
func sentinelToMissing(v float64) float64 {
	if v <= -999 || v >= 99999 {
		return sounding.Missing()
	}
	return v
}
