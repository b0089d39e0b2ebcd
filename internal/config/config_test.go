package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{
			name:   "single input, defaults",
			mutate: func(o *Options) { o.Inputs = []string{"a.png"} },
		},
		{
			name:    "no inputs",
			mutate:  func(o *Options) {},
			wantErr: true,
		},
		{
			name:   "check mode needs no inputs",
			mutate: func(o *Options) { o.CheckOnly = true },
		},
		{
			name: "output file and dir conflict",
			mutate: func(o *Options) {
				o.Inputs = []string{"a.png"}
				o.OutputFile = "out.jpg"
				o.OutputDir = "out"
			},
			wantErr: true,
		},
		{
			name: "output file with many inputs",
			mutate: func(o *Options) {
				o.Inputs = []string{"a.png", "b.png"}
				o.OutputFile = "out.jpg"
			},
			wantErr: true,
		},
		{
			name: "bad color mode",
			mutate: func(o *Options) {
				o.Inputs = []string{"a.png"}
				o.ColorMode = "sometimes"
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := Default()
			tc.mutate(&o)
			err := o.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExplicitOutput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)

		wantPath string
		wantOK   bool
	}{
		{
			name:   "swap mode",
			mutate: func(o *Options) {},
			wantOK: false,
		},
		{
			name:     "output file wins",
			mutate:   func(o *Options) { o.OutputFile = "exact.jpg" },
			wantPath: "exact.jpg", wantOK: true,
		},
		{
			name:     "prefix gains extension",
			mutate:   func(o *Options) { o.OutputPrefix = "pics/out" },
			wantPath: "pics/out.jpg", wantOK: true,
		},
		{
			name:     "dir keeps stem, swaps extension",
			mutate:   func(o *Options) { o.OutputDir = "converted" },
			wantPath: filepath.Join("converted", "photo.jpg"), wantOK: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := Default()
			tc.mutate(&o)
			got, ok := o.ExplicitOutput(filepath.Join("in", "photo.png"), "jpg")
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantPath, got)
			}
		})
	}
}

func TestShouldReplace(t *testing.T) {
	o := Default()
	assert.True(t, o.ShouldReplace())
	o.OutputDir = "out"
	assert.False(t, o.ShouldReplace())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"no_grow: true\nkeep_going: false\ncolor: never\ntools:\n  gm: /opt/gm/bin/gm\n",
	), 0o644))

	o := Default()
	o.ConfigFile = path
	require.NoError(t, o.LoadFile(func(string) bool { return false }))

	assert.True(t, o.NoGrow)
	assert.False(t, o.KeepGoing)
	assert.Equal(t, ColorNever, o.ColorMode)
	assert.Equal(t, "/opt/gm/bin/gm", o.Tools["gm"])
}

func TestLoadFileFlagWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: never\n"), 0o644))

	o := Default()
	o.ConfigFile = path
	o.ColorMode = ColorAlways
	changed := func(name string) bool { return name == "color" }
	require.NoError(t, o.LoadFile(changed))

	assert.Equal(t, ColorAlways, o.ColorMode)
}

func TestLoadFileExplicitMissing(t *testing.T) {
	o := Default()
	o.ConfigFile = filepath.Join(t.TempDir(), "nope.yaml")
	assert.Error(t, o.LoadFile(func(string) bool { return false }))
}
