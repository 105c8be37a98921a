package reader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/sounding"
)

const uwyoSample = `94975 YMHB Hobart Airport Observations at 00Z 02 Jul 2013

-----------------------------------------------------------------------------
   PRES   HGHT   TEMP   DWPT   RELH   MIXR   DRCT   SKNT   THTA   THTE   THTV
    hPa     m      C      C      %    g/kg    deg   knot     K      K      K
-----------------------------------------------------------------------------
 1004.0     27   17.2   15.8     92  11.34    320     10  291.0  323.6  293.0
  850.0   1457    8.0    2.0     66   5.36    300     15  295.9  312.0  296.9
  700.0   3011   -2.1
  500.0   5572  -16.5  -24.5     50   0.90    270     35  309.2  312.4  309.4

Station information and sounding indices
`

func TestParseUWyoText(t *testing.T) {
	snd, err := parseUWyoText(uwyoSample)
	require.NoError(t, err)

	t.Run("station metadata", func(t *testing.T) {
		assert.Equal(t, "94975", snd.StationID)
		assert.Equal(t, "YMHB Hobart Airport", snd.StationName)
		assert.Equal(t, time.Date(2013, 7, 2, 0, 0, 0, 0, time.UTC), snd.Time)
	})

	t.Run("levels", func(t *testing.T) {
		require.Len(t, snd.Levels, 4)
		first := snd.Levels[0]
		assert.Equal(t, 1004.0, first.Pressure)
		assert.Equal(t, 27.0, first.Height)
		assert.Equal(t, 17.2, first.Temperature)
		assert.Equal(t, 15.8, first.Dewpoint)
		assert.Equal(t, 320.0, first.WindDir)
		assert.Equal(t, 10.0, first.WindSpeed)
	})

	t.Run("short row is missing not zero", func(t *testing.T) {
		lvl := snd.Levels[2]
		assert.Equal(t, 700.0, lvl.Pressure)
		assert.Equal(t, -2.1, lvl.Temperature)
		assert.True(t, sounding.IsMissing(lvl.Dewpoint))
		assert.True(t, sounding.IsMissing(lvl.WindSpeed))
	})
}

func TestParseUWyoTextErrors(t *testing.T) {
	t.Run("no data rows", func(t *testing.T) {
		_, err := parseUWyoText("94975 YMHB Hobart Airport Observations at 00Z 02 Jul 2013\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no data rows")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := parseUWyoText("")
		assert.Error(t, err)
	})
}

func TestUWyoFileRead(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sounding.txt")
	require.NoError(t, os.WriteFile(file, []byte(uwyoSample), 0o644))

	r, err := New("uwyo", Options{Filename: file}, config.Runtime{}, discardLogger())
	require.NoError(t, err)

	snd, err := r.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "94975", snd.StationID)
	assert.Len(t, snd.Levels, 4)
}
