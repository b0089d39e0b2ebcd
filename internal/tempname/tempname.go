// Package tempname allocates collision-free candidate filenames next to an
// existing file. Allocation is a pure existence check: the path is not
// created, so callers must claim it promptly. Uniqueness is probabilistic
// (36^8 candidates per stem), not an exclusive lock.
package tempname

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	length   = 8
)

// Allocate returns a path in base's directory built from base's stem, a
// dash, a random alphanumeric suffix, and the given extension suffix
// (including its dot, or empty for none). It retries with a fresh suffix
// only while the candidate demonstrably exists; an unstattable candidate
// (unreadable parent, say) is handed back for the caller's rename to
// surface the real error.
func Allocate(base, suffix string) string {
	dir := filepath.Dir(base)
	stem := strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	prefix := filepath.Join(dir, stem) + "-"

	for {
		var b strings.Builder
		b.WriteString(prefix)
		for i := 0; i < length; i++ {
			b.WriteByte(alphabet[rand.Intn(len(alphabet))])
		}
		b.WriteString(suffix)

		candidate := b.String()
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}
