package expopush

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipPolicy(t *testing.T) {
	t.Run("Threshold - boundary is exclusive", func(t *testing.T) {
		policy := DefaultGzipPolicy()
		assert.False(t, policy.compress(1024))
		assert.True(t, policy.compress(1025))
		assert.False(t, policy.compress(0))
	})

	t.Run("Threshold - custom value", func(t *testing.T) {
		policy := GzipPolicy{Mode: GzipThreshold, Threshold: 10}
		assert.False(t, policy.compress(10))
		assert.True(t, policy.compress(11))
	})

	t.Run("Threshold - zero falls back to the default", func(t *testing.T) {
		policy := GzipPolicy{Mode: GzipThreshold}
		assert.False(t, policy.compress(1024))
		assert.True(t, policy.compress(1025))
	})

	t.Run("Always and Never ignore size", func(t *testing.T) {
		always := GzipPolicy{Mode: GzipAlways}
		assert.True(t, always.compress(0))
		assert.True(t, always.compress(1))

		never := GzipPolicy{Mode: GzipNever}
		assert.False(t, never.compress(1<<20))
	})
}

func TestParseGzipMode(t *testing.T) {
	for _, valid := range []string{"threshold", "never", "always"} {
		mode, err := ParseGzipMode(valid)
		require.NoError(t, err)
		assert.Equal(t, GzipMode(valid), mode)
	}

	_, err := ParseGzipMode("sometimes")
	assert.Error(t, err)
}

func TestGzipBody(t *testing.T) {
	original := bytes.Repeat([]byte(`{"to":"ExpoPushToken[abc]"}`), 64)

	compressed, err := gzipBody(original)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(original))

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	decompressed, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}
