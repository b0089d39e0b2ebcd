package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/shrinkray/internal/config"
)

func TestNewLoggerNoFile(t *testing.T) {
	opts := config.Default()
	opts.ColorMode = config.ColorNever
	l, err := NewLogger(&opts)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestNewLoggerWithFile(t *testing.T) {
	opts := config.Default()
	opts.ColorMode = config.ColorNever
	opts.LogFile = filepath.Join(t.TempDir(), "shrinkray.log")

	l, err := NewLogger(&opts)
	require.NoError(t, err)
	l.Info("to file")
	l.Debug("invisible without verbose")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(opts.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "INFO")
	assert.Contains(t, string(b), "to file")
	assert.NotContains(t, string(b), "invisible")
}

func TestDebugVerbose(t *testing.T) {
	opts := config.Default()
	opts.ColorMode = config.ColorNever
	opts.Verbose = true
	opts.LogFile = filepath.Join(t.TempDir(), "shrinkray.log")

	l, err := NewLogger(&opts)
	require.NoError(t, err)
	l.Debug("visible")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(opts.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "visible")
}
