// Package tool maps identified MIME types to the external compressor that
// handles them and resolves compressor binaries on the system. Two tool
// families exist: GraphicsMagick for still images and ffmpeg for videos.
// Dispatch is by explicit Kind matching, not interfaces, so every call site
// handles both families exhaustively.
package tool

import "fmt"

// Kind selects the tool family.
type Kind int

const (
	// KindImage converts still images to JPEG via GraphicsMagick.
	KindImage Kind = iota
	// KindVideo converts videos to VP9/Opus WebM via ffmpeg.
	KindVideo
)

// Tool is a resolved compressor: its family plus the binary path found for
// it on this system.
type Tool struct {
	Kind   Kind
	Binary string
}

// Name returns the tool's binary name as used for resolution, error
// messages, and env overrides.
func (t Tool) Name() string {
	switch t.Kind {
	case KindImage:
		return "gm"
	case KindVideo:
		return "ffmpeg"
	}
	panic(fmt.Sprintf("unknown tool kind %d", t.Kind))
}

// Extension returns the output file extension (without dot) the tool
// produces.
func (t Tool) Extension() string {
	switch t.Kind {
	case KindImage:
		return "jpg"
	case KindVideo:
		return "webm"
	}
	panic(fmt.Sprintf("unknown tool kind %d", t.Kind))
}

// Select maps a MIME type to the tool handling it. A nil Tool with nil
// error means the type is unsupported (a skip for the caller, not a
// failure). Animated GIFs cannot be converted to a single JPEG, so
// image/gif is excluded wholesale.
//
// TODO: support single-frame GIFs once frame counting is cheap enough.
func Select(cache *Cache, mime string) (*Tool, error) {
	switch {
	case mime == "image/gif":
		return nil, nil
	case hasPrefix(mime, "image/"):
		return resolve(cache, KindImage)
	case hasPrefix(mime, "video/"):
		return resolve(cache, KindVideo)
	default:
		return nil, nil
	}
}

func resolve(cache *Cache, kind Kind) (*Tool, error) {
	t := Tool{Kind: kind}
	binary, err := cache.Resolve(t.Name())
	if err != nil {
		return nil, err
	}
	t.Binary = binary
	return &t, nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
