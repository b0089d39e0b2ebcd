// Package config holds runtime options: defaults, CLI flag binding, YAML
// config-file defaults, and validation. Precedence is defaults < config
// file < flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Options holds all runtime settings. Populated by [Default], optionally
// overlaid by a config file, then mutated by flag parsing before being
// passed (by pointer) to packages that need it.
type Options struct {
	// Inputs are the files to convert (positional args).
	Inputs []string

	// Output destination. At most one of the three may be set; when none
	// is, each input is replaced in place via a temp file.
	OutputFile   string // -o: explicit output file (single input only).
	OutputPrefix string // -p: output path without extension.
	OutputDir    string // -d: output directory, input basename kept.

	// Behavior.
	NoGrow    bool // -G: discard output that grew past the input.
	DryRun    bool // -n: print commands, run nothing.
	KeepGoing bool // Default: true. Cleared by --fail-fast.

	// Display and logging.
	ColorMode ColorMode // Default: "auto".
	Verbose   bool
	LogFile   string // Optional diagnostics file.
	CheckOnly bool   // Run --check diagnostics and exit.

	// ConfigFile is an explicit --config path; empty means the default
	// location (and a missing default file is not an error).
	ConfigFile string

	// Tools maps binary names to configured paths (config file only).
	Tools map[string]string
}

// Default returns an Options with all defaults applied.
func Default() Options {
	return Options{
		KeepGoing: true,
		ColorMode: ColorAuto,
	}
}

// Validate checks cross-field constraints after flags and config file have
// been applied.
func (o *Options) Validate() error {
	if len(o.Inputs) == 0 && !o.CheckOnly {
		return errors.New("no input files given")
	}

	set := 0
	for _, v := range []string{o.OutputFile, o.OutputPrefix, o.OutputDir} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return errors.New("--output-file, --output-prefix, and --output-dir are mutually exclusive")
	}
	if o.OutputFile != "" && len(o.Inputs) > 1 {
		return errors.New("--output-file only makes sense with a single input")
	}

	switch o.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always, or never)", o.ColorMode)
	}
	return nil
}

// ShouldReplace reports whether outputs replace their inputs in place
// (true exactly when no output destination was configured).
func (o *Options) ShouldReplace() bool {
	return o.OutputFile == "" && o.OutputPrefix == "" && o.OutputDir == ""
}

// ExplicitOutput resolves the configured output path for an input and the
// tool's target extension (without dot). The second return is false when no
// destination is configured and the caller must allocate a temp file.
func (o *Options) ExplicitOutput(input, ext string) (string, bool) {
	switch {
	case o.OutputFile != "":
		return o.OutputFile, true
	case o.OutputPrefix != "":
		return o.OutputPrefix + "." + ext, true
	case o.OutputDir != "":
		base := filepath.Base(input)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		return filepath.Join(o.OutputDir, stem+"."+ext), true
	default:
		return "", false
	}
}
