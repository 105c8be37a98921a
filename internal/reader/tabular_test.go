package reader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/sounding"
)

func TestParseTabular(t *testing.T) {
	t.Run("six column file with comments", func(t *testing.T) {
		src := strings.NewReader(`# pressure height temp dewpoint dir speed
1000.0    111  25.0  20.0  180  10
 850.0   1457  15.0  10.0  200  20

 500.0   5572 -10.0 -20.0  270  35
`)
		snd, err := parseTabular(src)
		require.NoError(t, err)
		require.Len(t, snd.Levels, 3)
		assert.Equal(t, "tabular", snd.Source)
		assert.Equal(t, 1000.0, snd.Levels[0].Pressure)
		assert.Equal(t, 20.0, snd.Levels[0].Dewpoint)
		assert.Equal(t, 270.0, snd.Levels[2].WindDir)
		assert.True(t, snd.HasWind())
	})

	t.Run("four column file has no wind", func(t *testing.T) {
		src := strings.NewReader("1000 111 25 20\n850 1457 15 10\n")
		snd, err := parseTabular(src)
		require.NoError(t, err)
		require.Len(t, snd.Levels, 2)
		assert.True(t, sounding.IsMissing(snd.Levels[0].WindDir))
		assert.False(t, snd.HasWind())
	})

	t.Run("sentinels become missing", func(t *testing.T) {
		src := strings.NewReader("1000 111 25 -9999 180 10\n850 99999 15 10 200 20\n")
		snd, err := parseTabular(src)
		require.NoError(t, err)
		assert.True(t, sounding.IsMissing(snd.Levels[0].Dewpoint))
		assert.True(t, sounding.IsMissing(snd.Levels[1].Height))
	})

	t.Run("wrong column count", func(t *testing.T) {
		_, err := parseTabular(strings.NewReader("1000 111 25\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("non numeric value", func(t *testing.T) {
		_, err := parseTabular(strings.NewReader("1000 111 25 abc\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "column 4")
	})

	t.Run("increasing pressure fails validation", func(t *testing.T) {
		_, err := parseTabular(strings.NewReader("850 1457 15 10\n1000 111 25 20\n"))
		assert.Error(t, err)
	})
}

func TestTabularRead(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "snd.txt")
	require.NoError(t, os.WriteFile(file, []byte("1000 111 25 20\n850 1457 15 10\n"), 0o644))

	r, err := New("tabular", Options{Filename: file}, config.Runtime{}, discardLogger())
	require.NoError(t, err)

	snd, err := r.Read(context.Background())
	require.NoError(t, err)
	assert.Len(t, snd.Levels, 2)
}

func TestTabularReadMissingFile(t *testing.T) {
	r, err := New("tabular", Options{Filename: filepath.Join(t.TempDir(), "nope.txt")}, config.Runtime{}, discardLogger())
	require.NoError(t, err)

	_, err = r.Read(context.Background())
	assert.Error(t, err)
}
