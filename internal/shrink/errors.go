package shrink

import (
	"errors"
	"fmt"

	"github.com/backmassage/shrinkray/internal/marker"
)

// ErrCancelled reports an operator-interrupted conversion. It stops the
// whole batch rather than skipping one file.
var ErrCancelled = errors.New("cancelled")

// ErrDryRun reports that the conversion command was printed instead of
// run. Counted as a skip by the driver.
var ErrDryRun = errors.New("dry run")

// NotFoundError reports a missing input file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input file %q not found", e.Path)
}

// SymlinkError reports a symlinked input, which is refused rather than
// silently converted through.
type SymlinkError struct {
	Path string
}

func (e *SymlinkError) Error() string {
	return fmt.Sprintf("input file %q is a symlink", e.Path)
}

// UnsupportedError reports an input whose type has no compressor. A skip,
// not a failure.
type UnsupportedError struct {
	Path string
	Mime string
}

func (e *UnsupportedError) Error() string {
	if e.Mime == "" {
		return fmt.Sprintf("input file %q could not be identified", e.Path)
	}
	return fmt.Sprintf("unsupported file format: %s", e.Mime)
}

// AlreadyConvertedError reports an input that carries a conversion marker
// from a previous run. A skip, not a failure.
type AlreadyConvertedError struct {
	Marker marker.Marker
}

func (e *AlreadyConvertedError) Error() string {
	return fmt.Sprintf("already converted by %s", e.Marker)
}

// InvocationError reports a compressor that exited non-zero.
type InvocationError struct {
	Tool     string
	ExitCode int
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s invocation failed, exit status %d", e.Tool, e.ExitCode)
}

// DestinationExistsError reports a replace collision: the destination of
// the in-place swap already exists and is not the input itself.
type DestinationExistsError struct {
	Path string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("output file %q already exists", e.Path)
}

// IsSkip reports whether err classifies the file as skipped rather than
// failed: unsupported inputs, already-converted inputs, and dry runs.
func IsSkip(err error) bool {
	var unsupported *UnsupportedError
	var already *AlreadyConvertedError
	return errors.As(err, &unsupported) || errors.As(err, &already) || errors.Is(err, ErrDryRun)
}
