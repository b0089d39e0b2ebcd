// Command shrink-ray converts images and videos to smaller formats in
// batch: JPEG via GraphicsMagick, VP9/Opus WebM via ffmpeg. By default
// every input is replaced in place through a crash-safe temp-file swap.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/backmassage/shrinkray/internal/check"
	"github.com/backmassage/shrinkray/internal/config"
	"github.com/backmassage/shrinkray/internal/logging"
	"github.com/backmassage/shrinkray/internal/marker"
	"github.com/backmassage/shrinkray/internal/pipeline"
	"github.com/backmassage/shrinkray/internal/tool"
)

// version is set at build time via -ldflags. It must be strict semver: it
// is embedded in the conversion marker written into every output file.
var version = "1.2.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	opts := config.Default()
	exit := 0

	cmd := &cobra.Command{
		Use:     "shrink-ray [flags] file...",
		Short:   "Shrink images and videos with GraphicsMagick and ffmpeg",
		Version: version,
		Long: `shrink-ray converts images to JPEG and videos to VP9/Opus WebM to
reclaim disk space. Without an output flag each input is replaced in
place; already-converted files are recognized by an embedded marker
and skipped.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Inputs = args
			if err := opts.LoadFile(cmd.Flags().Changed); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			log, err := logging.NewLogger(&opts)
			if err != nil {
				return err
			}
			defer log.Close()

			if opts.CheckOnly {
				cache := tool.NewCache()
				cache.Overrides = opts.Tools
				check.RunCheck(cache, log)
				return nil
			}

			m, err := marker.New(version)
			if err != nil {
				return fmt.Errorf("build version %q is not semver: %w", version, err)
			}

			exit = pipeline.New(&opts, log, m).Run()
			return nil
		},
	}
	config.BindFlags(cmd, &opts)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "shrink-ray: %v\n", err)
		return 2
	}
	return exit
}
