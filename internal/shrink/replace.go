package shrink

// The replace transaction swaps a converted file into its input's place
// without ever leaving zero valid copies on disk. The original is
// relocated, never destroyed, until the new file has taken its name.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/shrinkray/internal/tempname"
)

// Replace substitutes output for input. The destination is the input path
// carrying the output's extension; if that differs from the input and
// already exists, nothing is mutated and the collision is an error.
//
// Sequence: (a) rename input to a fresh temp name in the same directory,
// (b) rename output to the destination, (c) delete the temp file. A
// failure in (b) leaves the original recoverable at the temp path, an
// operator-visible residue preferred over any window with no valid copy.
// A failure in (c) is logged and non-fatal: both valid copies exist, only
// cleanup is deferred.
func (c *Converter) Replace(input, output string) error {
	ext := filepath.Ext(output)
	destination := strings.TrimSuffix(input, filepath.Ext(input)) + ext
	c.Log.Debug("replacing %s with %s (as %s)", input, output, destination)

	if destination != input {
		if _, err := os.Lstat(destination); err == nil {
			return &DestinationExistsError{Path: destination}
		}
	}

	temp := tempname.Allocate(input, filepath.Ext(input))
	if err := os.Rename(input, temp); err != nil {
		return fmt.Errorf("relocate original %s: %w", input, err)
	}

	if err := os.Rename(output, destination); err != nil {
		c.Log.Error("original file preserved at %s", temp)
		return fmt.Errorf("move converted file to %s: %w", destination, err)
	}

	c.removeQuiet(temp, "relocated original")
	return nil
}
