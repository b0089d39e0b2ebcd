// Package stats provides the per-file size Delta and the run-wide
// Statistics accumulator. Both are plain values folded strictly
// sequentially by the batch driver; no locking is needed.
package stats

// Delta compares an original file size against its converted size.
// Immutable once measured.
type Delta struct {
	Original uint64
	New      uint64
}

// NewDelta builds a Delta from the measured sizes.
func NewDelta(original, new uint64) Delta {
	return Delta{Original: original, New: new}
}

// IsSmaller reports whether the conversion did not grow the file.
// Equal sizes count as smaller.
func (d Delta) IsSmaller() bool {
	return d.Original >= d.New
}

// Difference returns the absolute size difference in bytes.
func (d Delta) Difference() uint64 {
	if d.Original > d.New {
		return d.Original - d.New
	}
	return d.New - d.Original
}

// Ratio returns the difference relative to the original size. It is NaN
// for a zero-byte original; callers format it, they do not branch on it.
func (d Delta) Ratio() float64 {
	return float64(d.Difference()) / float64(d.Original)
}

// Statistics accumulates per-file outcomes across one batch run.
type Statistics struct {
	processed uint64
	saved     uint64
	wasted    uint64
	shrunk    int
	grew      int
	skipped   int
	failed    int
}

// Shrink records a conversion whose output was not larger than the input.
func (s *Statistics) Shrink(d Delta) {
	s.processed += d.Original
	s.saved += d.Difference()
	s.shrunk++
}

// Grow records a conversion whose output was larger than the input.
func (s *Statistics) Grow(d Delta) {
	s.processed += d.Original
	s.wasted += d.Difference()
	s.grew++
}

// Skip records a file that was not converted (unsupported type or already
// carrying a marker).
func (s *Statistics) Skip() {
	s.skipped++
}

// Fail records a file whose conversion errored.
func (s *Statistics) Fail() {
	s.failed++
}

// Shrunk returns the number of files that got smaller.
func (s *Statistics) Shrunk() int { return s.shrunk }

// Grew returns the number of files that got larger.
func (s *Statistics) Grew() int { return s.grew }

// Skipped returns the number of files skipped.
func (s *Statistics) Skipped() int { return s.skipped }

// Failed returns the number of files that failed.
func (s *Statistics) Failed() int { return s.failed }

// Saved returns the total bytes saved by shrinking conversions.
func (s *Statistics) Saved() uint64 { return s.saved }

// Wasted returns the total bytes added by growing conversions.
func (s *Statistics) Wasted() uint64 { return s.wasted }

// Delta returns a synthetic aggregate over the whole run: all processed
// bytes against what they became.
func (s *Statistics) Delta() Delta {
	return NewDelta(s.processed, s.processed-s.saved+s.wasted)
}
