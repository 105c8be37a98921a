package reader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/sounding"
)

// UWyoFile reads a University of Wyoming sounding page saved as text. The
// same column parser backs the uwyoweb reader after it strips the HTML.
type UWyoFile struct {
	filename string
	logger   *slog.Logger
}

func newUWyoFile(opts Options, _ config.Runtime, logger *slog.Logger) Reader {
	return &UWyoFile{filename: opts.file(), logger: logger}
}

func (r *UWyoFile) Read(_ context.Context) (*sounding.Sounding, error) {
	data, err := os.ReadFile(r.filename)
	if err != nil {
		return nil, fmt.Errorf("open uwyo sounding: %w", err)
	}
	snd, err := parseUWyoText(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse uwyo sounding %s: %w", r.filename, err)
	}
	r.logger.Debug("uwyo sounding read", "file", r.filename, "levels", len(snd.Levels))
	return snd, nil
}

// titleRe matches the sounding page title, e.g.
// "94975 YMHB Hobart Airport Observations at 00Z 02 Jul 2013".
var titleRe = regexp.MustCompile(`^(\d{5})\s+(.+?)\s+Observations at\s+(\d{2}Z \d{2} \w{3} \d{4})\s*$`)

// uwyoCols maps the fixed-width 7-character columns of the data table.
const (
	colPres = 0
	colHght = 1
	colTemp = 2
	colDwpt = 3
	colDrct = 6
	colSknt = 7

	uwyoColWidth = 7
)

// parseUWyoText extracts the sounding from a UWyo TEXT:LIST page body.
// The data table sits between dashed rules; each row is eleven fixed-width
// columns and blank cells mean the observation is missing at that level.
func parseUWyoText(text string) (*sounding.Sounding, error) {
	snd := sounding.New("uwyo")

	inTable := false
	headerSeen := false
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r ")
		trimmed := strings.TrimSpace(line)

		if m := titleRe.FindStringSubmatch(trimmed); m != nil && snd.StationID == "" {
			snd.StationID = m[1]
			snd.StationName = m[2]
			if ts, err := time.Parse("15Z 02 Jan 2006", m[3]); err == nil {
				snd.Time = ts
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "PRES") && strings.Contains(trimmed, "HGHT"):
			headerSeen = true
			continue
		case strings.HasPrefix(trimmed, "---"):
			if headerSeen {
				inTable = !inTable
			}
			continue
		case !inTable:
			continue
		case trimmed == "" || strings.HasPrefix(trimmed, "Station"):
			inTable = false
			continue
		}

		lvl, ok := parseUWyoRow(line)
		if !ok {
			inTable = false
			continue
		}
		snd.Levels = append(snd.Levels, lvl)
	}

	if len(snd.Levels) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}
	if err := snd.Validate(); err != nil {
		return nil, err
	}
	return snd, nil
}

// parseUWyoRow slices one fixed-width data row. ok is false when the row
// is not numeric (end of table).
func parseUWyoRow(line string) (sounding.Level, bool) {
	col := func(i int) float64 {
		start := i * uwyoColWidth
		if start >= len(line) {
			return sounding.Missing()
		}
		end := start + uwyoColWidth
		if end > len(line) {
			end = len(line)
		}
		s := strings.TrimSpace(line[start:end])
		if s == "" {
			return sounding.Missing()
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return sounding.Missing()
		}
		return v
	}

	p := col(colPres)
	if sounding.IsMissing(p) {
		return sounding.Level{}, false
	}
	return sounding.Level{
		Pressure:    p,
		Height:      col(colHght),
		Temperature: col(colTemp),
		Dewpoint:    col(colDwpt),
		WindDir:     col(colDrct),
		WindSpeed:   col(colSknt),
	}, true
}
