// Package render assembles the diagram: the skewed background grid, the
// sounding traces, and the optional wind layers, drawn with gonum/plot and
// saved in whatever format the output extension names.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/skew"
	"github.com/couchcryptid/skewt/internal/sounding"
	"github.com/couchcryptid/skewt/internal/thermo"
)

// Renderer draws one diagram per configuration. It is cheap to construct
// and carries no mutable state across renders.
type Renderer struct {
	cfg    config.Diagram
	tr     skew.Transform
	logger *slog.Logger
}

func New(cfg config.Diagram, logger *slog.Logger) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("diagram config: %w", err)
	}
	return &Renderer{cfg: cfg, tr: skew.NewTransform(cfg), logger: logger}, nil
}

// Layer is a named group of plotters added to the chart as a unit, in
// back-to-front order.
type Layer struct {
	Name     string
	Plotters []plot.Plotter
}

// Layers builds the drawable layers for snd. A nil sounding yields the
// background grid alone.
func (r *Renderer) Layers(snd *sounding.Sounding) ([]Layer, error) {
	grid, err := r.gridLayer()
	if err != nil {
		return nil, err
	}
	layers := []Layer{grid}

	if snd == nil {
		return layers, nil
	}

	trace, err := r.traceLayer(snd)
	if err != nil {
		return nil, err
	}
	layers = append(layers, trace)

	if snd.HasWind() {
		var wind Layer
		wind.Name = "wind"
		if r.cfg.ShowBarbs {
			wind.Plotters = append(wind.Plotters, newBarbs(snd.Levels, r.tr))
		}
		if r.cfg.ShowHodograph {
			wind.Plotters = append(wind.Plotters, newHodograph(snd.Levels))
		}
		if len(wind.Plotters) > 0 {
			layers = append(layers, wind)
		}
	}
	return layers, nil
}

// gridLayer converts every background curve family into line and label
// plotters.
func (r *Renderer) gridLayer() (Layer, error) {
	layer := Layer{Name: "grid"}
	for _, f := range skew.Families(r.tr, r.cfg) {
		sty := lineStyle(f.Style)
		for _, c := range f.Curves {
			l, err := plotter.NewLine(c.Pts)
			if err != nil {
				return Layer{}, fmt.Errorf("%s curve %g: %w", f.Name, c.Value, err)
			}
			l.LineStyle = sty
			layer.Plotters = append(layer.Plotters, l)
		}
		if len(f.Labels.Labels) > 0 {
			lbl, err := plotter.NewLabels(f.Labels)
			if err != nil {
				return Layer{}, fmt.Errorf("%s labels: %w", f.Name, err)
			}
			for i := range lbl.TextStyle {
				lbl.TextStyle[i].Font.Size = vg.Points(7)
				lbl.TextStyle[i].Color = f.Style.Color
			}
			layer.Plotters = append(layer.Plotters, lbl)
		}
	}
	return layer, nil
}

// traceLayer draws the temperature and dewpoint profiles and, when
// enabled, the surface-parcel ascent.
func (r *Renderer) traceLayer(snd *sounding.Sounding) (Layer, error) {
	layer := Layer{Name: "trace"}

	temp := func(l sounding.Level) float64 { return l.Temperature }
	dewp := func(l sounding.Level) float64 { return l.Dewpoint }

	if err := r.addTrace(&layer, snd.Levels, temp, r.cfg.TemperatureStyle); err != nil {
		return Layer{}, err
	}
	if err := r.addTrace(&layer, snd.Levels, dewp, r.cfg.DewpointStyle); err != nil {
		return Layer{}, err
	}

	if r.cfg.ShowParcel {
		if err := r.addParcel(&layer, snd); err != nil {
			return Layer{}, err
		}
	}
	return layer, nil
}

// addTrace projects one profile variable level by level. Missing values and
// excursions outside the plot domain split the trace into segments rather
// than aborting the render.
func (r *Renderer) addTrace(layer *Layer, levels []sounding.Level, value func(sounding.Level) float64, style config.LineStyle) error {
	var seg plotter.XYs
	flush := func() error {
		if len(seg) < 2 {
			seg = nil
			return nil
		}
		l, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		l.LineStyle = lineStyle(style)
		layer.Plotters = append(layer.Plotters, l)
		seg = nil
		return nil
	}

	for _, lvl := range levels {
		v := value(lvl)
		if sounding.IsMissing(v) || sounding.IsMissing(lvl.Pressure) {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		x, y, err := r.tr.XY(lvl.Pressure, v)
		if err != nil {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		seg = append(seg, plotter.XY{X: x, Y: y})
	}
	return flush()
}

// addParcel lifts a parcel from the lowest complete level and draws its
// temperature along the profile pressures.
func (r *Renderer) addParcel(layer *Layer, snd *sounding.Sounding) error {
	var sfc *sounding.Level
	var pressures []float64
	for i := range snd.Levels {
		l := snd.Levels[i]
		if sounding.IsMissing(l.Pressure) {
			continue
		}
		if sfc == nil && !sounding.IsMissing(l.Temperature) && !sounding.IsMissing(l.Dewpoint) {
			sfc = &snd.Levels[i]
		}
		if sfc != nil {
			pressures = append(pressures, l.Pressure)
		}
	}
	if sfc == nil || len(pressures) < 2 {
		return nil
	}

	temps := thermo.ParcelProfile(pressures, sfc.Pressure, sfc.Temperature, sfc.Dewpoint)
	seg := make(plotter.XYs, 0, len(temps))
	for i, t := range temps {
		x, y, err := r.tr.XY(pressures[i], t)
		if err != nil {
			continue
		}
		seg = append(seg, plotter.XY{X: x, Y: y})
	}
	if len(seg) < 2 {
		return nil
	}
	l, err := plotter.NewLine(seg)
	if err != nil {
		return err
	}
	l.LineStyle = lineStyle(r.cfg.ParcelStyle)
	layer.Plotters = append(layer.Plotters, l)
	return nil
}

// Render assembles the full plot for snd (nil for a blank chart).
func (r *Renderer) Render(snd *sounding.Sounding) (*plot.Plot, error) {
	layers, err := r.Layers(snd)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = r.title(snd)
	p.X.Label.Text = "Temperature (°C)"
	p.Y.Label.Text = "Pressure (hPa)"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.X.Tick.Marker = plot.TickerFunc(r.temperatureTicks)
	p.Y.Tick.Marker = plot.TickerFunc(r.pressureTicks)

	for _, layer := range layers {
		p.Add(layer.Plotters...)
	}
	return p, nil
}

// temperatureTicks places a tick where each isotherm crosses the bottom
// edge.
func (r *Renderer) temperatureTicks(min, max float64) []plot.Tick {
	span := r.cfg.TMax - r.cfg.TMin
	var ticks []plot.Tick
	for t := r.cfg.TMin; t <= r.cfg.TMax; t += r.cfg.IsothermStep {
		x := (t - r.cfg.TMin) / span
		if x < min || x > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: x, Label: fmt.Sprintf("%.0f", t)})
	}
	return ticks
}

// pressureTicks places a tick at each isobar level.
func (r *Renderer) pressureTicks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for p := r.cfg.PBottom; p >= r.cfg.PTop; p -= r.cfg.IsobarStep {
		y := r.tr.Y(p)
		if y < min || y > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: y, Label: fmt.Sprintf("%.0f", p)})
	}
	return ticks
}

func (r *Renderer) title(snd *sounding.Sounding) string {
	if r.cfg.Title != "" {
		return r.cfg.Title
	}
	if snd != nil {
		return snd.Title()
	}
	return "Skew-T Log-P"
}

// Save renders snd and writes the chart to path. The format follows the
// file extension; raster formats honor the configured DPI.
func (r *Renderer) Save(snd *sounding.Sounding, path string) error {
	p, err := r.Render(snd)
	if err != nil {
		return err
	}

	w := vg.Length(r.cfg.Width) * vg.Inch
	h := vg.Length(r.cfg.Height) * vg.Inch

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		if err := r.saveRaster(p, w, h, path); err != nil {
			return err
		}
	default:
		if err := p.Save(w, h, path); err != nil {
			return fmt.Errorf("write chart %s: %w", path, err)
		}
	}
	r.logger.Debug("chart written", "path", path, "width_in", r.cfg.Width, "height_in", r.cfg.Height)
	return nil
}

func (r *Renderer) saveRaster(p *plot.Plot, w, h vg.Length, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.cfg.DPI))
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write chart %s: %w", path, err)
	}
	defer f.Close()

	var wt io.WriterTo
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		wt = vgimg.PngCanvas{Canvas: c}
	case ".jpg", ".jpeg":
		wt = vgimg.JpegCanvas{Canvas: c}
	default:
		wt = vgimg.TiffCanvas{Canvas: c}
	}
	if _, err := wt.WriteTo(f); err != nil {
		return fmt.Errorf("write chart %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write chart %s: %w", path, err)
	}
	return nil
}

func lineStyle(s config.LineStyle) draw.LineStyle {
	sty := plotter.DefaultLineStyle
	sty.Color = s.Color
	sty.Width = vg.Points(s.Width)
	if len(s.Dashes) > 0 {
		sty.Dashes = make([]vg.Length, len(s.Dashes))
		for i, d := range s.Dashes {
			sty.Dashes[i] = vg.Points(d)
		}
	}
	return sty
}
