package shrink

// GraphicsMagick converts any supported still image to JPEG in a single
// pass. -strip drops all existing metadata before -comment embeds the
// marker, so a re-run sees exactly one comment.

import "os/exec"

// imageArgs builds the gm argv for one image conversion.
func imageArgs(binary, input, markerText, output string) []string {
	return []string{
		binary,
		"convert", input,
		"-strip",
		"-comment", markerText,
		"jpeg:" + output,
	}
}

// convertImage runs the single supervised gm pass.
func (c *Converter) convertImage(binary, input, output string) error {
	argv := imageArgs(binary, input, c.Marker.String(), output)
	cmd := exec.Command(argv[0], argv[1:]...)
	return c.supervised(cmd, "gm", input)
}
