package shrink

// Comment extraction: each tool family embeds the conversion marker in its
// own metadata slot, and each has its own way of reading it back. Only the
// first matching line is used; the extracted text is trusted only after it
// passes marker.Parse.

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/shrinkray/internal/tool"
)

// imageComment reads the comment of an image via `gm identify -verbose`.
// The verbose listing carries a line starting with "Comment:"; absence
// means no comment. A failing identify is an invocation error: the file
// was already identified as an image, so gm should be able to read it.
func imageComment(gmBinary, input string) (string, bool, error) {
	out, err := output(exec.Command(gmBinary, "identify", "-verbose", input))
	if err != nil {
		return "", false, invocationErr("gm", err)
	}

	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "Comment:"); ok {
			return strings.TrimSpace(rest), true, nil
		}
	}
	return "", false, nil
}

// videoComment reads the comment tag via ffprobe. The tag shows up on
// stderr as a "COMMENT : value" metadata line; the first such line wins.
func videoComment(cache *tool.Cache, input string) (string, bool, error) {
	ffprobe, err := cache.Resolve("ffprobe")
	if err != nil {
		return "", false, err
	}

	cmd := exec.Command(ffprobe, "-hide_banner", input)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", false, invocationErr("ffprobe", err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(strings.ToUpper(line), "COMMENT") {
			continue
		}
		_, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			return "", false, nil
		}
		return strings.TrimSpace(value), true, nil
	}
	return "", false, nil
}

func output(cmd *exec.Cmd) (string, error) {
	out, err := cmd.Output()
	return string(out), err
}

// invocationErr maps an exec failure to the error taxonomy: a non-zero
// exit becomes an InvocationError, anything else passes through wrapped.
func invocationErr(toolName string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &InvocationError{Tool: toolName, ExitCode: exitErr.ExitCode()}
	}
	return fmt.Errorf("%s: %w", toolName, err)
}
