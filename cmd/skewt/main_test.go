package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "chart.png")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no arguments", args: nil, want: exitUsage},
		{name: "missing output file", args: []string{"blank"}, want: exitUsage},
		{name: "unknown input type", args: []string{"grib", out}, want: exitUsage},
		{name: "tabular without file", args: []string{"tabular", out}, want: exitUsage},
		{name: "uwyoweb without station", args: []string{"uwyoweb", out}, want: exitUsage},
		{name: "bad flag", args: []string{"blank", out, "-bogus"}, want: exitUsage},
		{name: "unreadable input", args: []string{"tabular", out, "-f", filepath.Join(dir, "nope.txt")}, want: exitRead},
		{name: "version", args: []string{"--version"}, want: exitOK},
		{name: "help", args: []string{"--help"}, want: exitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			got := run(context.Background(), tt.args, &stderr)
			assert.Equal(t, tt.want, got)
			if tt.want == exitUsage {
				assert.NotEmpty(t, stderr.String())
			}
		})
	}

	// None of the failing invocations may leave an output file behind.
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunBlankChart(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "blank.png")

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"blank", out}, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestRunTabularSounding(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "snd.txt")
	require.NoError(t, os.WriteFile(in, []byte("1000 111 25 20 180 10\n850 1457 15 10 200 20\n500 5572 -12 -25 270 35\n"), 0o644))
	out := filepath.Join(dir, "chart.pdf")

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"tabular", out, "-f", in, "--title", "Test Sounding"}, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRunWriteFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "missing", "chart.png")

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"blank", out}, &stderr)
	assert.Equal(t, exitWrite, code)
}
