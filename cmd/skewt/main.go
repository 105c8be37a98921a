// Command skewt renders a Skew-T/Log-P thermodynamic diagram from an
// atmospheric sounding and writes it to an image file. The chart format
// follows the output file extension (png, pdf, svg, jpg, tif).
//
// Usage:
//
//	skewt <input-data-type> <output-file> [flags]
//
// Input data types:
//
//	blank     background grid only, no sounding
//	tabular   whitespace-delimited text file (-f)
//	cm1       CM1 input_sounding file (-p)
//	cm1hdf5   CM1 NetCDF4/HDF5 output (-f, plus -x/-y/-t/-d)
//	wrf       WRF wrfout NetCDF file (-f, plus -x/-y or --lat/--lon, -t)
//	uwyo      University of Wyoming sounding page saved as text (-f)
//	uwyoweb   University of Wyoming sounding archive over HTTP (--station, -t)
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/observability"
	"github.com/couchcryptid/skewt/internal/reader"
	"github.com/couchcryptid/skewt/internal/render"
	"github.com/couchcryptid/skewt/internal/sounding"
)

// version is stamped at build time via -ldflags.
var version = "dev"

const (
	exitOK    = 0
	exitUsage = 2
	exitRead  = 3
	exitWrite = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	if len(args) > 0 && (args[0] == "--version" || args[0] == "-version") {
		fmt.Fprintf(stderr, "skewt %s\n", version)
		return exitOK
	}
	if len(args) > 0 && (args[0] == "--help" || args[0] == "-help" || args[0] == "-h") {
		usage(stderr)
		return exitOK
	}
	if len(args) < 2 {
		usage(stderr)
		return exitUsage
	}
	token, output := args[0], args[1]

	fs := flag.NewFlagSet("skewt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	var opts reader.Options
	fs.StringVar(&opts.Filename, "f", "", "input file name")
	fs.StringVar(&opts.Path, "p", "", "input path, or base directory joined with -f")
	fs.StringVar(&opts.Dataset, "d", "", "netCDF group holding the model fields")
	fs.StringVar(&opts.Station, "station", "", "station identifier for uwyoweb")
	fs.StringVar(&opts.Time, "t", "", "time index for model output, YYYYMMDDHH for uwyoweb")
	fs.IntVar(&opts.X, "x", 0, "grid column index for model output")
	fs.IntVar(&opts.Y, "y", 0, "grid row index for model output")
	lat := fs.Float64("lat", math.NaN(), "latitude of the nearest-column lookup (wrf)")
	lon := fs.Float64("lon", math.NaN(), "longitude of the nearest-column lookup (wrf)")
	title := fs.String("title", "", "chart title (default derives from the sounding)")
	verbose := fs.Bool("v", false, "debug logging")
	fs.BoolVar(verbose, "verbose", false, "debug logging")

	if err := fs.Parse(args[2:]); err != nil {
		return exitUsage
	}
	opts.Lat, opts.Lon = *lat, *lon
	opts.HasLatLon = !math.IsNaN(*lat) && !math.IsNaN(*lon)

	rt, err := config.LoadRuntime()
	if err != nil {
		fmt.Fprintf(stderr, "skewt: %v\n", err)
		return exitUsage
	}
	logger := observability.NewLogger(stderr, rt, *verbose)

	if err := reader.Validate(token, opts); err != nil {
		fmt.Fprintf(stderr, "skewt: %v\n", err)
		fmt.Fprintf(stderr, "input data types: %s\n", strings.Join(reader.Types(), " "))
		return exitUsage
	}

	cfg := config.Default()
	cfg.Title = *title
	r, err := render.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "skewt: %v\n", err)
		return exitUsage
	}

	src, err := reader.New(token, opts, rt, logger)
	if err != nil {
		fmt.Fprintf(stderr, "skewt: %v\n", err)
		return exitUsage
	}

	var snd *sounding.Sounding
	if src != nil {
		snd, err = src.Read(ctx)
		if err != nil {
			logger.Error("read sounding failed", "type", token, "error", err)
			fmt.Fprintf(stderr, "skewt: %v\n", err)
			return exitRead
		}
		logger.Info("sounding read", "type", token, "station", snd.StationID, "levels", len(snd.Levels))
	}

	if err := r.Save(snd, output); err != nil {
		logger.Error("write diagram failed", "output", output, "error", err)
		fmt.Fprintf(stderr, "skewt: %v\n", err)
		return exitWrite
	}
	logger.Info("diagram written", "output", output, "type", token)
	return exitOK
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `usage: skewt <input-data-type> <output-file> [flags]

Renders a Skew-T/Log-P diagram of an atmospheric sounding. The output
format follows the file extension (png, pdf, svg, jpg, tif).

Input data types: %s

Flags:
  -f file        input file name
  -p path        input path, or base directory joined with -f
  -d dataset     netCDF group holding the model fields (cm1hdf5)
  -t time        time index for model output, YYYYMMDDHH for uwyoweb
  -x, -y n       grid column for model output
  --lat, --lon   nearest-column lookup instead of -x/-y (wrf)
  --station id   station identifier (uwyoweb)
  --title text   chart title
  -v, --verbose  debug logging
  --version      print version and exit
`, strings.Join(reader.Types(), " "))
}
