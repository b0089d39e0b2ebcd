package tempname

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateDoesNotExist(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o644))

	got := Allocate(base, ".jpg")

	_, err := os.Lstat(got)
	assert.True(t, os.IsNotExist(err), "allocated path must not exist")
	assert.Equal(t, dir, filepath.Dir(got))
	assert.True(t, strings.HasPrefix(filepath.Base(got), "photo-"))
	assert.True(t, strings.HasSuffix(got, ".jpg"))
}

func TestAllocateSuffixless(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "clip.mkv")

	got := Allocate(base, "")
	assert.Empty(t, filepath.Ext(got))
	assert.True(t, strings.HasPrefix(filepath.Base(got), "clip-"))
}

func TestAllocatePairwiseDistinct(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "video.webm")

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		got := Allocate(base, ".webm")
		assert.False(t, seen[got], "duplicate candidate %s", got)
		seen[got] = true
	}
}

func TestAllocateRetriesPastExisting(t *testing.T) {
	// Random suffix length 8 over a 36-character alphabet makes an
	// accidental collision with a pre-existing file effectively
	// impossible; instead verify the existence check by confirming a
	// fresh candidate never matches files we just created.
	dir := t.TempDir()
	base := filepath.Join(dir, "doc.pdf")

	for i := 0; i < 20; i++ {
		got := Allocate(base, ".pdf")
		require.NoError(t, os.WriteFile(got, []byte("claimed"), 0o644))
	}

	got := Allocate(base, ".pdf")
	_, err := os.Lstat(got)
	assert.True(t, os.IsNotExist(err))
}

func TestAllocateReturnsOnUnstattableCandidate(t *testing.T) {
	// A regular file in the parent position makes every candidate Lstat
	// fail with ENOTDIR rather than "not exist". Allocation must still
	// terminate and hand the path back.
	dir := t.TempDir()
	notADir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	got := Allocate(filepath.Join(notADir, "photo.png"), ".jpg")
	assert.Equal(t, notADir, filepath.Dir(got))
	assert.True(t, strings.HasSuffix(got, ".jpg"))
}
