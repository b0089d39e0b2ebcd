package shrink

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/shrinkray/internal/config"
)

func TestReplaceSwapsAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "photo.png", []byte("original"))
	output := writeInput(t, dir, "photo-tmp123.jpg", []byte("converted"))

	c := testConverter(t, config.Default())
	require.NoError(t, c.Replace(input, output))

	data, err := os.ReadFile(filepath.Join(dir, "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "converted", string(data))

	_, err = os.Lstat(input)
	assert.True(t, os.IsNotExist(err), "input must be gone after the swap")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp residue after a clean swap")
}

func TestReplaceSameExtension(t *testing.T) {
	// A webm input shrunk to webm: destination equals the input path.
	dir := t.TempDir()
	input := writeInput(t, dir, "clip.webm", []byte("original original"))
	output := writeInput(t, dir, "clip-tmp456.webm", []byte("converted"))

	c := testConverter(t, config.Default())
	require.NoError(t, c.Replace(input, output))

	data, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, "converted", string(data))
}

func TestReplaceDestinationExists(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "photo.png", []byte("original"))
	output := writeInput(t, dir, "photo-tmp789.jpg", []byte("converted"))
	collision := writeInput(t, dir, "photo.jpg", []byte("unrelated"))

	c := testConverter(t, config.Default())
	err := c.Replace(input, output)

	var exists *DestinationExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, collision, exists.Path)

	// Nothing was mutated: all three files still hold their bytes.
	for path, want := range map[string]string{
		input:     "original",
		output:    "converted",
		collision: "unrelated",
	} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}
