// Package marker formats and parses the idempotency marker that converted
// files carry in their comment metadata ("shrink-ray/<version>"). A file
// whose comment parses as a marker has already been through this tool and
// must not be converted again.
package marker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Product is the marker prefix identifying this tool. Matched
// case-insensitively on parse.
const Product = "shrink-ray"

const prefix = Product + "/"

// ErrNotMarker is returned by Parse when the text does not start with the
// product prefix. Callers treat this as "no marker present", not a failure.
var ErrNotMarker = errors.New("not a shrink-ray marker")

// NotVersionError is returned by Parse when the prefix matched but the
// remainder is not a valid semantic version. Soft: logged, never fatal.
type NotVersionError struct {
	Text string
	Err  error
}

func (e *NotVersionError) Error() string {
	return fmt.Sprintf("not a valid version string: %q", e.Text)
}

func (e *NotVersionError) Unwrap() error { return e.Err }

// Marker identifies the tool and version that produced a converted file.
type Marker struct {
	Version *semver.Version
}

// New builds a Marker for the given version string. It fails only when the
// version does not parse, which for a build-time version is a programming
// error surfaced at startup.
func New(version string) (Marker, error) {
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return Marker{}, fmt.Errorf("marker version %q: %w", version, err)
	}
	return Marker{Version: v}, nil
}

// String returns the canonical marker text, e.g. "shrink-ray/1.2.0".
func (m Marker) String() string {
	return prefix + m.Version.String()
}

// Equal reports structural equality of two markers.
func (m Marker) Equal(o Marker) bool {
	return m.Version.Equal(o.Version)
}

// Parse reads a marker from comment text. The prefix comparison is
// case-insensitive over exactly len(prefix) bytes; anything shorter or with
// a different prefix is ErrNotMarker. A matching prefix followed by an
// unparsable version is a *NotVersionError.
func Parse(s string) (Marker, error) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return Marker{}, ErrNotMarker
	}

	rest := s[len(prefix):]
	v, err := semver.StrictNewVersion(rest)
	if err != nil {
		return Marker{}, &NotVersionError{Text: rest, Err: err}
	}
	return Marker{Version: v}, nil
}
