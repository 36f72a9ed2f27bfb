package utils

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func brotliCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecompressResponse(t *testing.T) {
	original := []byte(`{"error":{"message":"overloaded"}}`)

	tests := []struct {
		name     string
		encoding string
		data     []byte
		expected []byte
	}{
		{
			name:     "gzip",
			encoding: "gzip",
			data:     gzipCompress(t, original),
			expected: original,
		},
		{
			name:     "brotli",
			encoding: "br",
			data:     brotliCompress(t, original),
			expected: original,
		},
		{
			name:     "zstd",
			encoding: "zstd",
			data:     zstdCompress(t, original),
			expected: original,
		},
		{
			name:     "no encoding passes through",
			encoding: "",
			data:     original,
			expected: original,
		},
		{
			name:     "unknown encoding passes through",
			encoding: "deflate",
			data:     original,
			expected: original,
		},
		{
			name:     "corrupt gzip falls back to original",
			encoding: "gzip",
			data:     []byte("not gzip"),
			expected: []byte("not gzip"),
		},
		{
			name:     "empty data",
			encoding: "gzip",
			data:     nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecompressResponse(tt.encoding, tt.data))
		})
	}
}

func TestStreamBufferPool(t *testing.T) {
	buf := GetStreamBuffer()
	require.NotNil(t, buf)
	assert.Len(t, *buf, 4096)
	PutStreamBuffer(buf)
	PutStreamBuffer(nil)
}
