// Package check implements the --check diagnostics: it reports whether the
// external compressors are resolvable and what versions they carry, plus
// which of the encoders the video pipeline needs are compiled into ffmpeg.
// Informational only; it never stops on failure.
package check

import (
	"os/exec"
	"strings"

	"github.com/backmassage/shrinkray/internal/tool"
)

// Logger is the minimal logging surface RunCheck needs. Defined here so the
// package stays testable with a recorder instead of a real logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck reports the availability and versions of gm, ffmpeg, and
// ffprobe, resolving them the same way a real run would (config overrides,
// RAY_BIN_ environment, system path).
func RunCheck(cache *tool.Cache, log Logger) {
	log.Info("=== System Check ===")

	checkBinary(cache, log, "gm", "version")
	checkBinary(cache, log, "ffmpeg", "-version")
	checkBinary(cache, log, "ffprobe", "-version")
	checkEncoders(cache, log)
}

// checkBinary resolves one binary and logs the first line of its version
// output.
func checkBinary(cache *tool.Cache, log Logger, name, versionArg string) {
	path, err := cache.Resolve(name)
	if err != nil {
		log.Error("%s: %v", name, err)
		return
	}
	out, err := exec.Command(path, versionArg).Output()
	if err != nil {
		log.Warn("%s found at %s but version query failed: %v", name, path, err)
		return
	}
	log.Success("%s: %s", name, firstLine(string(out)))
}

// checkEncoders lists the VP9 and Opus encoders ffmpeg reports, the two the
// video pipeline depends on.
func checkEncoders(cache *tool.Cache, log Logger) {
	path, err := cache.Resolve("ffmpeg")
	if err != nil {
		return
	}
	out, err := exec.Command(path, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("could not list encoders: %v", err)
		return
	}

	log.Info("VP9/Opus encoders:")
	found := false
	for _, line := range strings.Split(string(out), "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "vp9") || strings.Contains(lower, "opus") {
			log.Info("  %s", strings.TrimSpace(line))
			found = true
		}
	}
	if !found {
		log.Error("no VP9 or Opus encoder compiled into this ffmpeg")
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return s
}
