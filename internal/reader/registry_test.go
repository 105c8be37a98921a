package reader

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skewt/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		opts    Options
		wantErr string
	}{
		{name: "blank needs nothing", token: "blank"},
		{name: "tabular with file", token: "tabular", opts: Options{Filename: "snd.txt"}},
		{name: "tabular without file", token: "tabular", wantErr: `input type "tabular" requires -f filename`},
		{name: "cm1 without path", token: "cm1", wantErr: `input type "cm1" requires -p path`},
		{name: "uwyoweb without station", token: "uwyoweb", wantErr: `input type "uwyoweb" requires --station id`},
		{name: "unknown type", token: "grib", wantErr: `unknown input data type: "grib"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.token, tt.opts)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidateUnknownTypeSentinel(t *testing.T) {
	err := Validate("nope", Options{})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestValidateMissingFieldType(t *testing.T) {
	err := Validate("wrf", Options{})
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "wrf", mfe.Type)
	assert.Equal(t, "-f filename", mfe.Field)
}

func TestNewBlankYieldsNilReader(t *testing.T) {
	r, err := New("blank", Options{}, config.Runtime{}, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestNewRejectsBeforeBuilding(t *testing.T) {
	r, err := New("tabular", Options{}, config.Runtime{}, discardLogger())
	require.Error(t, err)
	assert.Nil(t, r)
}

func TestTypes(t *testing.T) {
	got := Types()
	assert.Equal(t, []string{"blank", "cm1", "cm1hdf5", "tabular", "uwyo", "uwyoweb", "wrf"}, got)
}

func TestOptionsFile(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "filename only", opts: Options{Filename: "snd.txt"}, want: "snd.txt"},
		{name: "path joins relative", opts: Options{Path: "/data/run1", Filename: "snd.txt"}, want: "/data/run1/snd.txt"},
		{name: "absolute filename wins", opts: Options{Path: "/data/run1", Filename: "/tmp/snd.txt"}, want: "/tmp/snd.txt"},
		{name: "path only", opts: Options{Path: "/data/run1/input_sounding"}, want: "/data/run1/input_sounding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.file())
		})
	}
}
