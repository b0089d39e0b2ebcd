// Package supervise runs one external compressor invocation under a
// single event loop that simultaneously waits on child exit, child
// stdout/stderr lines, a progress timer, and an interactive cancel signal.
//
// One coordinator, not separate reader/timer tasks, gives a well-defined
// interleaving (buffered lines are drained before exit is observed) and
// exactly one place deciding the terminal outcome. The supervisor
// guarantees that no child outlives Run and that the in-progress status
// line is cleared on every exit path.
package supervise

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// tickInterval drives the spinner animation and "cancelling" re-render.
const tickInterval = 100 * time.Millisecond

// Sink consumes progress events for one supervised invocation. The batch
// driver passes its renderer; tests pass a recorder.
type Sink interface {
	StartProcessing(file string)
	UpdateProcessing(file string, tick int, cancelling bool)
	ForwardLine(file string, tick int, cancelling bool, line string)
	EndProcessing()
}

// Outcome is the terminal result of one invocation. Produced exactly once;
// never retried internally.
type Outcome struct {
	// ExitCode is the child's exit status; -1 when the child was killed
	// by a signal.
	ExitCode int
	// Cancelled is set when an interrupt was forwarded before the child
	// exited. It takes precedence over ExitCode: a cancelled child that
	// happens to exit non-zero is still "cancelled", not "failed".
	Cancelled bool
}

// Success reports a clean, uncancelled zero exit.
func (o Outcome) Success() bool {
	return !o.Cancelled && o.ExitCode == 0
}

// Run spawns cmd and supervises it until exit. stdin is closed; stdout and
// stderr are captured line-wise and forwarded to sink as progress
// annotations. Values on interrupt request cancellation: the first one
// forwards os.Interrupt to the child (advisory, never a hard kill), later
// ones are ignored. Run keeps servicing all sources until the child
// actually exits, draining late output.
//
// The returned error is non-nil only for supervision failures (spawn,
// wait, signal forwarding); an ordinary non-zero exit is reported through
// the Outcome.
func Run(cmd *exec.Cmd, file string, sink Sink, interrupt <-chan os.Signal) (Outcome, error) {
	cmd.Stdin = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Outcome{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Outcome{}, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf("spawn %s: %w", cmd.Path, err)
	}

	var readers sync.WaitGroup
	outLines := readLines(stdout, &readers)
	errLines := readLines(stderr, &readers)

	// Wait must not run before both pipes are drained, so exit is always
	// observed after the last buffered line.
	waitCh := make(chan error, 1)
	go func() {
		readers.Wait()
		waitCh <- cmd.Wait()
	}()

	sink.StartProcessing(file)
	defer sink.EndProcessing()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	tick := 0
	cancelled := false

	for {
		select {
		case err := <-waitCh:
			if err == nil {
				return Outcome{ExitCode: 0, Cancelled: cancelled}, nil
			}
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return Outcome{ExitCode: exitErr.ExitCode(), Cancelled: cancelled}, nil
			}
			return Outcome{Cancelled: cancelled}, fmt.Errorf("wait for %s: %w", cmd.Path, err)

		case <-ticker.C:
			tick++
			sink.UpdateProcessing(file, tick, cancelled)

		case line, ok := <-errLines:
			if !ok {
				errLines = nil
				continue
			}
			sink.ForwardLine(file, tick, cancelled, line)

		case line, ok := <-outLines:
			if !ok {
				outLines = nil
				continue
			}
			sink.ForwardLine(file, tick, cancelled, line)

		case <-interrupt:
			if cancelled {
				continue
			}
			cancelled = true
			if err := cmd.Process.Signal(os.Interrupt); err != nil {
				if errors.Is(err, os.ErrProcessDone) {
					continue
				}
				return Outcome{Cancelled: true}, fmt.Errorf("forward interrupt: %w", err)
			}
		}
	}
}

// readLines feeds lines from r into the returned channel and closes it on
// EOF. The WaitGroup is released once the reader is done, gating Wait.
// Lines are read without a length cap: a pathological child line must not
// stall the reader and back up the pipe.
func readLines(r io.Reader, wg *sync.WaitGroup) <-chan string {
	ch := make(chan string)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(ch)
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				ch <- strings.TrimRight(line, "\r\n")
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}
