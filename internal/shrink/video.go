package shrink

// ffmpeg converts videos to VP9/Opus WebM in two passes. Pass 1 analyzes
// without writing media (-f null) and records rate statistics in a pass-log
// file; pass 2 does the real encode, strips all source metadata, and embeds
// the marker as the comment tag. The pass-log file is removed on every
// path out of here.

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// passLogBase derives the deterministic pass-log base for an output path.
// ffmpeg appends "-0.log" to the base for the first stream.
func passLogBase(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".pass"
}

func passLogFile(base string) string {
	return base + "-0.log"
}

// videoArgsPass1 builds the analysis pass argv: video only, no output file.
func videoArgsPass1(binary, input, logBase string) []string {
	return []string{
		binary,
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", input,
		"-c:v", "vp9", "-an", "-sn",
		"-strict", "-2", "-row-mt", "1",
		"-pass", "1", "-passlogfile", logBase,
		"-f", "null", "-",
	}
}

// videoArgsPass2 builds the encode pass argv with the marker metadata.
func videoArgsPass2(binary, input, markerText, logBase, output string) []string {
	return []string{
		binary,
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", input,
		"-c:v", "vp9", "-c:a", "opus",
		"-strict", "-2", "-row-mt", "1",
		"-map_metadata", "-1",
		"-metadata", "comment=" + markerText,
		"-pass", "2", "-passlogfile", logBase,
		"-f", "webm",
		output,
	}
}

// convertVideo runs both supervised ffmpeg passes.
func (c *Converter) convertVideo(binary, input, output string) error {
	logBase := passLogBase(output)

	pass1 := videoArgsPass1(binary, input, logBase)
	cmd := exec.Command(pass1[0], pass1[1:]...)
	if err := c.supervised(cmd, "ffmpeg", input); err != nil {
		c.removeQuiet(passLogFile(logBase), "pass log file")
		return err
	}

	pass2 := videoArgsPass2(binary, input, c.Marker.String(), logBase, output)
	cmd = exec.Command(pass2[0], pass2[1:]...)
	err := c.supervised(cmd, "ffmpeg", input)
	c.removeQuiet(passLogFile(logBase), "pass log file")
	return err
}
