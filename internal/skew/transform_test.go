package skew

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skewt/internal/config"
)

func testTransform() Transform {
	return NewTransform(config.Default())
}

func TestTransformAnchors(t *testing.T) {
	tr := testTransform()

	// Surface left corner.
	x, y, err := tr.XY(tr.PBottom, tr.TMin)
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	// Surface right corner.
	x, y, err = tr.XY(tr.PBottom, tr.TMax)
	require.NoError(t, err)
	assert.InDelta(t, 1, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	// Top of chart reaches y = 1.
	_, y, err = tr.XY(tr.PTop, -120)
	require.NoError(t, err)
	assert.InDelta(t, 1, y, 1e-12)
}

func TestTransformRoundTrip(t *testing.T) {
	tr := testTransform()

	for p := tr.PTop; p <= tr.PBottom; p += 25 {
		for temp := -140.0; temp <= 60; temp += 5 {
			x, y, err := tr.XY(p, temp)
			if err != nil {
				continue // off-chart, not part of the round-trip contract
			}
			gotP, gotT := tr.PT(x, y)
			assert.InDelta(t, p, gotP, 1e-6, "p=%v t=%v", p, temp)
			assert.InDelta(t, temp, gotT, 1e-6, "p=%v t=%v", p, temp)
		}
	}
}

func TestTransformMonotonicInPressure(t *testing.T) {
	tr := testTransform()

	prev := -1.0
	for p := tr.PBottom; p >= tr.PTop; p -= 10 {
		y := tr.Y(p)
		assert.Greater(t, y, prev, "p=%v", p)
		prev = y
	}
}

func TestTransformAffineInTemperature(t *testing.T) {
	tr := testTransform()

	// At fixed pressure, x is affine in T: equal T steps give equal x steps.
	x1, _, err := tr.XY(700, -10)
	require.NoError(t, err)
	x2, _, err := tr.XY(700, 0)
	require.NoError(t, err)
	x3, _, err := tr.XY(700, 10)
	require.NoError(t, err)
	assert.InDelta(t, x2-x1, x3-x2, 1e-12)

	// At fixed temperature, x is affine in y with slope Skew.
	xa, ya := tr.project(900, 0)
	xb, yb := tr.project(300, 0)
	assert.InDelta(t, tr.Skew, (xb-xa)/(yb-ya), 1e-9)
}

func TestTransformDomainErrors(t *testing.T) {
	tr := testTransform()

	tests := []struct {
		name string
		p, t float64
	}{
		{"below chart", 1100, 20},
		{"above chart", 50, -60},
		{"too cold at surface", 1000, -60},
		{"too warm aloft", 150, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tr.XY(tt.p, tt.t)
			require.ErrorIs(t, err, ErrDomain)
		})
	}
}
