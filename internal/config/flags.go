package config

// This file binds Options fields to cobra flags. Flags are registered with
// defaults already in place; the config file is applied afterwards to any
// flag the user did not pass explicitly (see file.go).

import "github.com/spf13/cobra"

// BindFlags registers all flags on cmd, bound to fields of o.
func BindFlags(cmd *cobra.Command, o *Options) {
	f := cmd.Flags()

	f.StringVarP(&o.OutputFile, "output-file", "o", o.OutputFile,
		"Output file (single input only)")
	f.StringVarP(&o.OutputPrefix, "output-prefix", "p", o.OutputPrefix,
		"Output file without extension")
	f.StringVarP(&o.OutputDir, "output-dir", "d", o.OutputDir,
		"Output directory")

	f.BoolVarP(&o.NoGrow, "no-grow", "G", o.NoGrow,
		"Discard output file if it ended up being bigger than the input file")
	f.BoolVarP(&o.DryRun, "dry-run", "n", o.DryRun,
		"Print the conversion command, but do not run it")

	failFast := f.Bool("fail-fast", !o.KeepGoing,
		"Stop the batch on the first conversion failure")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("fail-fast") {
			o.KeepGoing = !*failFast
		}
	}

	f.StringVar((*string)(&o.ColorMode), "color", string(o.ColorMode),
		"ANSI colors: auto | always | never")
	f.BoolVarP(&o.Verbose, "verbose", "v", o.Verbose,
		"Enable debug logging")
	f.StringVar(&o.LogFile, "log-file", o.LogFile,
		"Append diagnostics to a file")
	f.BoolVar(&o.CheckOnly, "check", o.CheckOnly,
		"Run system diagnostics and exit")
	f.StringVar(&o.ConfigFile, "config", "",
		"Config file (default ~/.config/shrinkray/config.yaml)")
}
