package marker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	versions := []string{
		"1.2.0",
		"0.1.0",
		"2.0.0-rc.1",
		"1.0.0-alpha+build.17",
		"10.20.30",
	}

	for _, v := range versions {
		t.Run(v, func(t *testing.T) {
			m, err := New(v)
			require.NoError(t, err)

			parsed, err := Parse(m.String())
			require.NoError(t, err)
			assert.True(t, m.Equal(parsed))
		})
	}
}

func TestParsePrefix(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "short", text: "shrink"},
		{name: "wrong product", text: "other-tool/1.2.0"},
		{name: "missing slash", text: "shrink-ray 1.2.0"},
		{name: "prefix only of longer word", text: "shrink-rays/1.2.0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text)
			assert.ErrorIs(t, err, ErrNotMarker)
		})
	}
}

func TestParseCaseInsensitivePrefix(t *testing.T) {
	for _, text := range []string{"SHRINK-RAY/1.2.0", "Shrink-Ray/1.2.0"} {
		m, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", m.Version.String())
	}
}

func TestParseBadVersion(t *testing.T) {
	cases := []string{
		"shrink-ray/",
		"shrink-ray/banana",
		"shrink-ray/1.2",
		"shrink-ray/v1.2.0 extra",
	}

	for _, text := range cases {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(text)
			var nv *NotVersionError
			assert.True(t, errors.As(err, &nv), "want NotVersionError, got %v", err)
		})
	}
}

func TestString(t *testing.T) {
	m, err := New("1.2.0")
	require.NoError(t, err)
	assert.Equal(t, "shrink-ray/1.2.0", m.String())
}
