// Package reader maps input-data-type tokens to format readers, each
// producing a validated sounding record from one source kind.
//
// The dispatch is a lookup table over a closed set of variants; required
// options are declared per type and checked before any reader runs, so a
// missing filename or station is reported as a usage problem, never as a
// half-finished read.
package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/sounding"
)

// Reader produces a sounding from one input source. Implementations block
// for the duration of the read; network-backed readers honor ctx deadlines.
type Reader interface {
	Read(ctx context.Context) (*sounding.Sounding, error)
}

// ErrUnknownType is returned for an input-data-type token outside the
// supported set.
var ErrUnknownType = errors.New("unknown input data type")

// MissingFieldError reports a required option absent for the chosen type.
type MissingFieldError struct {
	Type  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("input type %q requires %s", e.Type, e.Field)
}

// Options carries the per-source CLI options. Which fields matter depends
// on the input type; the registry declares the required ones.
type Options struct {
	Filename string // -f
	Path     string // -p, base directory joined with relative filenames
	Dataset  string // -d, netCDF group override
	Station  string // --station
	Time     string // -t: time index for model output, YYYYMMDDHH for uwyoweb
	X, Y     int    // -x/-y grid column for model output
	Lat, Lon float64
	HasLatLon bool
}

// file resolves the input file location, joining a relative -f with -p.
func (o Options) file() string {
	if o.Path != "" && o.Filename != "" && !filepath.IsAbs(o.Filename) {
		return filepath.Join(o.Path, o.Filename)
	}
	if o.Filename != "" {
		return o.Filename
	}
	return o.Path
}

type buildFunc func(Options, config.Runtime, *slog.Logger) Reader

type typeSpec struct {
	required []string
	build    buildFunc
}

// registry is the closed set of input-data-type variants.
var registry = map[string]typeSpec{
	"blank":   {},
	"tabular": {required: []string{"-f filename"}, build: newTabular},
	"cm1":     {required: []string{"-p path"}, build: newCM1},
	"cm1hdf5": {required: []string{"-f filename"}, build: newCM1HDF5},
	"wrf":     {required: []string{"-f filename"}, build: newWRF},
	"uwyo":    {required: []string{"-f filename"}, build: newUWyoFile},
	"uwyoweb": {required: []string{"--station id"}, build: newUWyoWeb},
}

// Types returns the supported input-data-type tokens in sorted order, for
// usage text.
func Types() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate checks that token names a known type and that its required
// options are present. It must pass before New is called.
func Validate(token string, opts Options) error {
	spec, ok := registry[token]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, token)
	}
	for _, field := range spec.required {
		if !fieldSet(field, opts) {
			return &MissingFieldError{Type: token, Field: field}
		}
	}
	return nil
}

func fieldSet(field string, o Options) bool {
	switch field {
	case "-f filename":
		return o.Filename != ""
	case "-p path":
		return o.Path != ""
	case "--station id":
		return o.Station != ""
	}
	return false
}

// New constructs the reader for token. The blank type yields a nil Reader:
// the caller renders the background grid with no sounding. New assumes
// Validate has passed.
func New(token string, opts Options, rt config.Runtime, logger *slog.Logger) (Reader, error) {
	if err := Validate(token, opts); err != nil {
		return nil, err
	}
	spec := registry[token]
	if spec.build == nil {
		return nil, nil
	}
	return spec.build(opts, rt, logger), nil
}
