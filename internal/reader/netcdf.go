package reader

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/sounding"
	"github.com/couchcryptid/skewt/internal/thermo"
)

const gravity = 9.80665

// WRF extracts a single-column sounding from a wrfout NetCDF file. The
// column is selected either by grid index (-x/-y) or by the nearest grid
// point to --lat/--lon. Perturbation fields are recombined (P+PB, T+300,
// PH+PHB) and the staggered wind and geopotential fields are averaged onto
// mass points.
type WRF struct {
	filename string
	opts     Options
	logger   *slog.Logger
}

func newWRF(opts Options, _ config.Runtime, logger *slog.Logger) Reader {
	return &WRF{filename: opts.file(), opts: opts, logger: logger}
}

func (r *WRF) Read(_ context.Context) (*sounding.Sounding, error) {
	nc, err := netcdf.Open(r.filename)
	if err != nil {
		return nil, fmt.Errorf("open wrf output: %w", err)
	}
	defer nc.Close()

	t, err := timeIndex(r.opts.Time)
	if err != nil {
		return nil, err
	}

	y, x := r.opts.Y, r.opts.X
	lat, lon := sounding.Missing(), sounding.Missing()
	lats, latErr := slice3D(nc, "XLAT", t)
	lons, lonErr := slice3D(nc, "XLONG", t)
	if r.opts.HasLatLon {
		if latErr != nil {
			return nil, fmt.Errorf("wrf variable XLAT: %w", latErr)
		}
		if lonErr != nil {
			return nil, fmt.Errorf("wrf variable XLONG: %w", lonErr)
		}
		y, x = nearestPoint(lats, lons, r.opts.Lat, r.opts.Lon)
	}

	p, err := slice4D(nc, "P", t)
	if err != nil {
		return nil, fmt.Errorf("wrf variable P: %w", err)
	}
	pb, err := slice4D(nc, "PB", t)
	if err != nil {
		return nil, fmt.Errorf("wrf variable PB: %w", err)
	}
	th, err := slice4D(nc, "T", t)
	if err != nil {
		return nil, fmt.Errorf("wrf variable T: %w", err)
	}
	qv, err := slice4D(nc, "QVAPOR", t)
	if err != nil {
		return nil, fmt.Errorf("wrf variable QVAPOR: %w", err)
	}
	ph, err := slice4D(nc, "PH", t)
	if err != nil {
		return nil, fmt.Errorf("wrf variable PH: %w", err)
	}
	phb, err := slice4D(nc, "PHB", t)
	if err != nil {
		return nil, fmt.Errorf("wrf variable PHB: %w", err)
	}
	uu, err := slice4D(nc, "U", t)
	if err != nil {
		return nil, fmt.Errorf("wrf variable U: %w", err)
	}
	vv, err := slice4D(nc, "V", t)
	if err != nil {
		return nil, fmt.Errorf("wrf variable V: %w", err)
	}

	nz := len(p)
	if ny, nx := gridDims(p); nz == 0 || y < 0 || y >= ny || x < 0 || x >= nx {
		return nil, fmt.Errorf("grid point (%d,%d) outside domain %dx%d", x, y, nx, ny)
	}

	snd := sounding.New("wrf")
	snd.StationName = fmt.Sprintf("WRF column (%d,%d)", x, y)
	if latErr == nil && lonErr == nil {
		lat, lon = lats[y][x], lons[y][x]
		snd.Lat, snd.Lon = lat, lon
	}

	snd.Levels = make([]sounding.Level, nz)
	for k := 0; k < nz; k++ {
		pHPa := (p[k][y][x] + pb[k][y][x]) / 100
		thetaK := th[k][y][x] + 300
		pi := thermo.ExnerFunction(pHPa)
		height := (ph[k][y][x] + ph[k+1][y][x] + phb[k][y][x] + phb[k+1][y][x]) / 2 / gravity
		u := (uu[k][y][x] + uu[k][y][x+1]) / 2
		v := (vv[k][y][x] + vv[k][y+1][x]) / 2
		dir, spd := sounding.DirSpeed(u, v)

		snd.Levels[k] = sounding.Level{
			Pressure:    pHPa,
			Height:      height,
			Temperature: thetaK*pi - 273.15,
			Dewpoint:    thermo.DewpointFromMixingRatio(qv[k][y][x], pHPa),
			WindDir:     dir,
			WindSpeed:   spd * sounding.KnotsPerMS,
		}
	}

	if err := snd.Validate(); err != nil {
		return nil, fmt.Errorf("wrf column (%d,%d): %w", x, y, err)
	}
	r.logger.Debug("wrf sounding read", "file", r.filename, "x", x, "y", y, "levels", nz, "lat", lat, "lon", lon)
	return snd, nil
}

// CM1HDF5 extracts a single-column sounding from CM1 NetCDF4/HDF5 output.
// Variables follow the cm1out conventions: prs (Pa), th (K), qv (kg/kg) on
// (time, nk, nj, ni), the zh level coordinate in km, and either the
// interpolated uinterp/vinterp winds or the staggered u/v fields.
type CM1HDF5 struct {
	filename string
	opts     Options
	logger   *slog.Logger
}

func newCM1HDF5(opts Options, _ config.Runtime, logger *slog.Logger) Reader {
	return &CM1HDF5{filename: opts.file(), opts: opts, logger: logger}
}

func (r *CM1HDF5) Read(_ context.Context) (*sounding.Sounding, error) {
	nc, err := netcdf.Open(r.filename)
	if err != nil {
		return nil, fmt.Errorf("open cm1 output: %w", err)
	}
	defer nc.Close()

	g := nc
	if r.opts.Dataset != "" {
		sub, err := nc.GetGroup(r.opts.Dataset)
		if err != nil {
			return nil, fmt.Errorf("cm1 dataset %q: %w", r.opts.Dataset, err)
		}
		defer sub.Close()
		g = sub
	}

	t, err := timeIndex(r.opts.Time)
	if err != nil {
		return nil, err
	}
	y, x := r.opts.Y, r.opts.X

	prs, err := slice4D(g, "prs", t)
	if err != nil {
		return nil, fmt.Errorf("cm1 variable prs: %w", err)
	}
	th, err := slice4D(g, "th", t)
	if err != nil {
		return nil, fmt.Errorf("cm1 variable th: %w", err)
	}
	qv, err := slice4D(g, "qv", t)
	if err != nil {
		return nil, fmt.Errorf("cm1 variable qv: %w", err)
	}

	nz := len(prs)
	if ny, nx := gridDims(prs); nz == 0 || y < 0 || y >= ny || x < 0 || x >= nx {
		return nil, fmt.Errorf("grid point (%d,%d) outside domain %dx%d", x, y, nx, ny)
	}

	// Heights: zh is the scalar-level coordinate in km.
	heights := make([]float64, nz)
	if zh, err := values1D(g, "zh"); err == nil && len(zh) >= nz {
		for k := range heights {
			heights[k] = zh[k] * 1000
		}
	} else {
		for k := range heights {
			heights[k] = sounding.Missing()
		}
	}

	us, vs, err := cm1Winds(g, t, y, x, nz)
	if err != nil {
		return nil, err
	}

	snd := sounding.New("cm1hdf5")
	snd.StationName = fmt.Sprintf("CM1 column (%d,%d)", x, y)
	snd.Levels = make([]sounding.Level, nz)
	for k := 0; k < nz; k++ {
		pHPa := prs[k][y][x] / 100
		pi := thermo.ExnerFunction(pHPa)
		dir, spd := sounding.DirSpeed(us[k], vs[k])

		snd.Levels[k] = sounding.Level{
			Pressure:    pHPa,
			Height:      heights[k],
			Temperature: th[k][y][x]*pi - 273.15,
			Dewpoint:    thermo.DewpointFromMixingRatio(qv[k][y][x], pHPa),
			WindDir:     dir,
			WindSpeed:   spd * sounding.KnotsPerMS,
		}
	}

	if err := snd.Validate(); err != nil {
		return nil, fmt.Errorf("cm1 column (%d,%d): %w", x, y, err)
	}
	r.logger.Debug("cm1 sounding read", "file", r.filename, "x", x, "y", y, "levels", nz)
	return snd, nil
}

// cm1Winds reads the column winds, preferring the mass-point uinterp and
// vinterp fields and falling back to de-staggering u and v.
func cm1Winds(g api.Group, t, y, x, nz int) (us, vs []float64, err error) {
	us = make([]float64, nz)
	vs = make([]float64, nz)

	ui, errU := slice4D(g, "uinterp", t)
	vi, errV := slice4D(g, "vinterp", t)
	if errU == nil && errV == nil {
		for k := 0; k < nz; k++ {
			us[k] = ui[k][y][x]
			vs[k] = vi[k][y][x]
		}
		return us, vs, nil
	}

	uu, errU := slice4D(g, "u", t)
	vv, errV := slice4D(g, "v", t)
	if errU != nil || errV != nil {
		// Winds are optional in trimmed output files.
		for k := 0; k < nz; k++ {
			us[k] = sounding.Missing()
			vs[k] = sounding.Missing()
		}
		return us, vs, nil
	}
	for k := 0; k < nz; k++ {
		us[k] = (uu[k][y][x] + uu[k][y][x+1]) / 2
		vs[k] = (vv[k][y][x] + vv[k][y+1][x]) / 2
	}
	return us, vs, nil
}

// timeIndex parses the -t flag as a model output time index.
func timeIndex(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	t, err := strconv.Atoi(s)
	if err != nil || t < 0 {
		return 0, fmt.Errorf("invalid time index %q", s)
	}
	return t, nil
}

// nearestPoint returns the (y, x) grid index closest to (lat, lon).
func nearestPoint(lats, lons [][]float64, lat, lon float64) (y, x int) {
	best := -1.0
	for j := range lats {
		for i := range lats[j] {
			dLat := lats[j][i] - lat
			dLon := lons[j][i] - lon
			d := dLat*dLat + dLon*dLon
			if best < 0 || d < best {
				best = d
				y, x = j, i
			}
		}
	}
	return y, x
}

// slice4D reads one time step of a (time, z, y, x) variable as float64.
func slice4D(g api.Group, name string, t int) ([][][]float64, error) {
	vg, err := g.GetVarGetter(name)
	if err != nil {
		return nil, err
	}
	v, err := vg.GetSlice(int64(t), int64(t)+1)
	if err != nil {
		return nil, err
	}
	switch arr := v.(type) {
	case [][][][]float32:
		return to3DF64(arr[0]), nil
	case [][][][]float64:
		return arr[0], nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", name, v)
	}
}

// slice3D reads one time step of a (time, y, x) variable as float64.
func slice3D(g api.Group, name string, t int) ([][]float64, error) {
	vg, err := g.GetVarGetter(name)
	if err != nil {
		return nil, err
	}
	v, err := vg.GetSlice(int64(t), int64(t)+1)
	if err != nil {
		return nil, err
	}
	switch arr := v.(type) {
	case [][][]float32:
		return to2DF64(arr[0]), nil
	case [][][]float64:
		return arr[0], nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", name, v)
	}
}

// values1D reads a whole 1-D coordinate variable as float64.
func values1D(g api.Group, name string) ([]float64, error) {
	vg, err := g.GetVarGetter(name)
	if err != nil {
		return nil, err
	}
	v, err := vg.Values()
	if err != nil {
		return nil, err
	}
	switch arr := v.(type) {
	case []float32:
		out := make([]float64, len(arr))
		for i, f := range arr {
			out[i] = float64(f)
		}
		return out, nil
	case []float64:
		return arr, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", name, v)
	}
}

func to2DF64(in [][]float32) [][]float64 {
	out := make([][]float64, len(in))
	for j, row := range in {
		out[j] = make([]float64, len(row))
		for i, f := range row {
			out[j][i] = float64(f)
		}
	}
	return out
}

func to3DF64(in [][][]float32) [][][]float64 {
	out := make([][][]float64, len(in))
	for k, plane := range in {
		out[k] = to2DF64(plane)
	}
	return out
}

func gridDims(p [][][]float64) (ny, nx int) {
	if len(p) == 0 || len(p[0]) == 0 {
		return 0, 0
	}
	return len(p[0]), len(p[0][0])
}
