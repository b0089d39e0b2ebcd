// Package identify maps file contents to a MIME type by sniffing the first
// bytes. An unclassifiable file is reported as "no type", not an error;
// only I/O failures propagate.
package identify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLimit caps how much of a file is read for identification.
const sniffLimit = 1024

// unknown is the detector's catch-all answer for unrecognized content.
const unknown = "application/octet-stream"

// Identifier sniffs MIME types from file contents. One instance is owned by
// the batch driver and shared across jobs.
type Identifier struct{}

// New returns a ready Identifier.
func New() *Identifier {
	mimetype.SetLimit(sniffLimit)
	return &Identifier{}
}

// File identifies path by content. It returns "" when the content is not
// recognizable as a concrete type; open and read failures are returned as
// errors.
func (id *Identifier) File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("identify %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("identify %s: %w", path, err)
	}

	return id.Bytes(buf[:n]), nil
}

// Bytes identifies raw content. Answers that are not well-formed
// "type/subtype", and the detector's octet-stream fallback, count as
// unidentified.
func (id *Identifier) Bytes(buf []byte) string {
	mime := mimetype.Detect(buf).String()

	// Drop parameters such as "; charset=utf-8".
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	if mime == unknown || !strings.Contains(mime, "/") {
		return ""
	}
	return mime
}
