// Package shrink implements the conversion transaction: idempotency check,
// supervised tool invocation, output validation, and the crash-safe
// replace that swaps a converted file into its input's place.
package shrink

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/shrinkray/internal/config"
	"github.com/backmassage/shrinkray/internal/identify"
	"github.com/backmassage/shrinkray/internal/logging"
	"github.com/backmassage/shrinkray/internal/marker"
	"github.com/backmassage/shrinkray/internal/stats"
	"github.com/backmassage/shrinkray/internal/supervise"
	"github.com/backmassage/shrinkray/internal/tempname"
	"github.com/backmassage/shrinkray/internal/tool"
)

// Converter runs one conversion transaction per input file. It borrows the
// batch driver's caches and sinks; it owns nothing across jobs.
type Converter struct {
	Opts      *config.Options
	Tools     *tool.Cache
	Ident     *identify.Identifier
	Sink      supervise.Sink
	Log       *logging.Logger
	Marker    marker.Marker
	Interrupt <-chan os.Signal
}

// Convert takes one input file through identify → idempotency check →
// supervised invocation → validation → replace. The returned Delta is
// meaningful only on nil error (or with ErrDryRun, where it is zero).
//
// Failure semantics: unsupported and already-converted inputs come back as
// skip-classified errors (see IsSkip); ErrCancelled aborts the whole
// batch; everything else fails this job only.
func (c *Converter) Convert(input string) (stats.Delta, error) {
	fi, err := os.Lstat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return stats.Delta{}, &NotFoundError{Path: input}
		}
		return stats.Delta{}, fmt.Errorf("stat %s: %w", input, err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return stats.Delta{}, &SymlinkError{Path: input}
	}

	mime, err := c.Ident.File(input)
	if err != nil {
		return stats.Delta{}, err
	}
	c.Log.Debug("identified %s as %q", input, mime)

	t, err := tool.Select(c.Tools, mime)
	if err != nil {
		return stats.Delta{}, err
	}
	if t == nil {
		return stats.Delta{}, &UnsupportedError{Path: input, Mime: mime}
	}

	if err := c.checkMarker(t, input); err != nil {
		return stats.Delta{}, err
	}

	output, swap := c.resolveOutput(input, t)

	// A dry run must leave the filesystem alone, including the output
	// directory, so it comes before MkdirAll.
	if c.Opts.DryRun {
		c.printCommands(t, input, output)
		return stats.Delta{}, ErrDryRun
	}

	// filepath.Dir returns "." for a bare filename, which is exactly the
	// directory we want in that case.
	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats.Delta{}, fmt.Errorf("create output directory %s: %w", dir, err)
	}

	if err := c.invoke(t, input, output); err != nil {
		c.removePartial(output)
		return stats.Delta{}, err
	}

	delta, err := c.measure(fi, input, output)
	if err != nil {
		return stats.Delta{}, err
	}

	if c.Opts.NoGrow && !delta.IsSmaller() {
		c.Log.Debug("conversion grew file, removing %s", output)
		if err := os.Remove(output); err != nil {
			return delta, fmt.Errorf("remove grown output: %w", err)
		}
		return delta, nil
	}

	if swap {
		if err := c.Replace(input, output); err != nil {
			return delta, err
		}
	}
	return delta, nil
}

// checkMarker probes the input's metadata for a previous run's marker.
// Unparsable comments are "no marker": a foreign comment is ErrNotMarker
// and silently ignored, a shrink-ray comment with a broken version is
// logged and ignored.
func (c *Converter) checkMarker(t *tool.Tool, input string) error {
	var text string
	var found bool
	var err error

	switch t.Kind {
	case tool.KindImage:
		text, found, err = imageComment(t.Binary, input)
	case tool.KindVideo:
		text, found, err = videoComment(c.Tools, input)
	}
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	m, err := marker.Parse(text)
	switch {
	case err == nil:
		return &AlreadyConvertedError{Marker: m}
	case errors.Is(err, marker.ErrNotMarker):
		c.Log.Debug("comment on %s is not ours: %q", input, text)
		return nil
	default:
		c.Log.Warn("comment on %s looks like a marker but did not parse: %v", input, err)
		return nil
	}
}

// resolveOutput picks the output path: the configured destination, or a
// fresh temp name for in-place replacement.
func (c *Converter) resolveOutput(input string, t *tool.Tool) (string, bool) {
	output, explicit := c.Opts.ExplicitOutput(input, t.Extension())
	swap := !explicit
	if swap {
		output = tempname.Allocate(input, "."+t.Extension())
		c.Log.Debug("chose temporary output file %s", output)
	}
	return output, swap
}

// invoke dispatches to the tool family's conversion passes.
func (c *Converter) invoke(t *tool.Tool, input, output string) error {
	switch t.Kind {
	case tool.KindImage:
		return c.convertImage(t.Binary, input, output)
	case tool.KindVideo:
		return c.convertVideo(t.Binary, input, output)
	}
	return fmt.Errorf("unknown tool kind %d", t.Kind)
}

// supervised runs one command under the process supervisor and folds its
// outcome into the error taxonomy. Cancellation takes precedence over
// whatever exit status the interrupted child produced.
func (c *Converter) supervised(cmd *exec.Cmd, toolName, input string) error {
	outcome, err := supervise.Run(cmd, input, c.Sink, c.Interrupt)
	if err != nil {
		return err
	}
	if outcome.Cancelled {
		return ErrCancelled
	}
	if outcome.ExitCode != 0 {
		return &InvocationError{Tool: toolName, ExitCode: outcome.ExitCode}
	}
	return nil
}

// measure stats both files and carries the input's mtime onto the output,
// so an in-place replacement does not look like a fresh file.
func (c *Converter) measure(inputInfo os.FileInfo, input, output string) (stats.Delta, error) {
	outInfo, err := os.Stat(output)
	if err != nil {
		return stats.Delta{}, fmt.Errorf("stat output %s: %w", output, err)
	}
	if err := os.Chtimes(output, time.Now(), inputInfo.ModTime()); err != nil {
		return stats.Delta{}, fmt.Errorf("copy mtime onto %s: %w", output, err)
	}
	return stats.NewDelta(uint64(inputInfo.Size()), uint64(outInfo.Size())), nil
}

// removePartial deletes a partially created output after a failed or
// cancelled invocation. Best-effort: deletion failure is logged, the
// original invocation error stays the one reported.
func (c *Converter) removePartial(output string) {
	if _, err := os.Lstat(output); err != nil {
		return
	}
	c.Log.Debug("conversion failed, removing %s", output)
	c.removeQuiet(output, "output file")
}

func (c *Converter) removeQuiet(path, what string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.Log.Error("failed to delete %s %s: %v", what, path, err)
	}
}

// printCommands writes the argv lines a dry run would have executed.
func (c *Converter) printCommands(t *tool.Tool, input, output string) {
	switch t.Kind {
	case tool.KindImage:
		fmt.Println(strings.Join(imageArgs(t.Binary, input, c.Marker.String(), output), " "))
	case tool.KindVideo:
		logBase := passLogBase(output)
		fmt.Println(strings.Join(videoArgsPass1(t.Binary, input, logBase), " "))
		fmt.Println(strings.Join(videoArgsPass2(t.Binary, input, c.Marker.String(), logBase, output), " "))
	}
}
