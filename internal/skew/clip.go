package skew

import "gonum.org/v1/plot/plotter"

// clipUnitBox truncates a polyline at the unit plot box [0,1]×[0,1],
// interpolating exact crossing points. A polyline that leaves and re-enters
// the box is split into separate segments. Off-chart portions are discarded
// silently; clipping never fails.
func clipUnitBox(pts plotter.XYs) []plotter.XYs {
	var segs []plotter.XYs
	var cur plotter.XYs

	flush := func() {
		if len(cur) >= 2 {
			segs = append(segs, cur)
		}
		cur = nil
	}

	for i := 0; i+1 < len(pts); i++ {
		a, b, ok := clipSegment(pts[i], pts[i+1])
		if !ok {
			flush()
			continue
		}
		if len(cur) == 0 {
			cur = append(cur, a)
		} else if last := cur[len(cur)-1]; last != a {
			// The previous segment exited the box; start a new run.
			flush()
			cur = append(cur, a)
		}
		cur = append(cur, b)
	}
	flush()
	return segs
}

// clipSegment clips one segment against the unit box using the
// Liang-Barsky parametric test. ok is false when the segment lies entirely
// outside.
func clipSegment(p0, p1 plotter.XY) (a, b plotter.XY, ok bool) {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	t0, t1 := 0.0, 1.0

	for _, edge := range [4][2]float64{
		{-dx, p0.X},    // left: x >= 0
		{dx, 1 - p0.X}, // right: x <= 1
		{-dy, p0.Y},    // bottom: y >= 0
		{dy, 1 - p0.Y}, // top: y <= 1
	} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return a, b, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	a = plotter.XY{X: p0.X + t0*dx, Y: p0.Y + t0*dy}
	b = plotter.XY{X: p0.X + t1*dx, Y: p0.Y + t1*dy}
	return a, b, true
}
