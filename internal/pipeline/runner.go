// Package pipeline drives one batch run: a strictly sequential loop over
// the input files, folding every per-file outcome into statistics and
// result lines, then printing the summary and deciding the exit status.
package pipeline

import (
	"errors"
	"os"
	"os/signal"

	"github.com/backmassage/shrinkray/internal/config"
	"github.com/backmassage/shrinkray/internal/display"
	"github.com/backmassage/shrinkray/internal/identify"
	"github.com/backmassage/shrinkray/internal/logging"
	"github.com/backmassage/shrinkray/internal/marker"
	"github.com/backmassage/shrinkray/internal/shrink"
	"github.com/backmassage/shrinkray/internal/stats"
	"github.com/backmassage/shrinkray/internal/term"
	"github.com/backmassage/shrinkray/internal/tool"
)

// Runner owns everything shared across one batch run: the renderer, the
// interrupt channel, and the statistics. One Runner per process.
type Runner struct {
	Opts      *config.Options
	Log       *logging.Logger
	Render    *display.Renderer
	Marker    marker.Marker
	Interrupt chan os.Signal

	stats stats.Statistics
}

// New builds a Runner wired to stdout and the process interrupt signal.
func New(opts *config.Options, log *logging.Logger, m marker.Marker) *Runner {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	return &Runner{
		Opts:      opts,
		Log:       log,
		Render:    display.NewRenderer(os.Stdout, term.IsTerminal(os.Stdout)),
		Marker:    m,
		Interrupt: interrupt,
	}
}

// Run converts every input in order, prints the summary, and returns the
// process exit code: zero exactly when nothing failed and the run was not
// cancelled.
func (r *Runner) Run() int {
	defer signal.Stop(r.Interrupt)

	cache := tool.NewCache()
	cache.Overrides = r.Opts.Tools
	conv := &shrink.Converter{
		Opts:      r.Opts,
		Tools:     cache,
		Ident:     identify.New(),
		Sink:      r.Render,
		Log:       r.Log,
		Marker:    r.Marker,
		Interrupt: r.Interrupt,
	}

	cancelled := false
	for _, input := range r.Opts.Inputs {
		// A ctrl-C between jobs (during a skip, say) must not be lost.
		if pending(r.Interrupt) {
			r.Render.Cancelled(input)
			cancelled = true
			break
		}
		if !r.job(conv, input, &cancelled) {
			break
		}
	}

	r.Render.Summary(&r.stats)
	if cancelled || r.stats.Failed() > 0 {
		return 1
	}
	return 0
}

// job converts one input and folds the outcome. It returns false when the
// batch must stop: cancellation, a failure under --fail-fast, or an error
// outside the per-file taxonomy.
func (r *Runner) job(conv *shrink.Converter, input string, cancelled *bool) bool {
	delta, err := conv.Convert(input)
	switch {
	case err == nil && delta.IsSmaller():
		r.stats.Shrink(delta)
		r.Render.Shrunk(input, delta)
	case err == nil:
		r.stats.Grow(delta)
		r.Render.Grew(input, delta)
	case errors.Is(err, shrink.ErrCancelled):
		r.Render.Cancelled(input)
		*cancelled = true
		return false
	case shrink.IsSkip(err):
		r.stats.Skip()
		r.Render.Skip(input, err.Error())
	default:
		r.stats.Fail()
		r.Render.Fail(input, err.Error())
		if !perFile(err) {
			r.Log.Error("aborting run: %v", err)
			return false
		}
		return r.Opts.KeepGoing
	}
	return true
}

// perFile reports whether err condemns only this input. Anything outside
// this taxonomy is an environment problem (unwritable directory, failing
// disk) that the next job would hit too, so the run stops.
func perFile(err error) bool {
	var (
		notFound    *shrink.NotFoundError
		symlink     *shrink.SymlinkError
		invocation  *shrink.InvocationError
		destination *shrink.DestinationExistsError
		toolMissing *tool.NotFoundError
		envMissing  *tool.EnvNotFoundError
	)
	return errors.As(err, &notFound) ||
		errors.As(err, &symlink) ||
		errors.As(err, &invocation) ||
		errors.As(err, &destination) ||
		errors.As(err, &toolMissing) ||
		errors.As(err, &envMissing)
}

func pending(interrupt <-chan os.Signal) bool {
	select {
	case <-interrupt:
		return true
	default:
		return false
	}
}
