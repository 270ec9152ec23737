package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and retrieves objects", func(t *testing.T) {
		stub := NewStubObjectStorage()
		require.NoError(t, stub.Upload(ctx, "statements/a.pdf", []byte("doc"), "application/pdf"))

		data, err := stub.Download(ctx, "statements/a.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("doc"), data)
		assert.True(t, stub.Exists("statements/a.pdf"))
		assert.Equal(t, 1, stub.Len())
	})

	t.Run("download of a missing key fails", func(t *testing.T) {
		stub := NewStubObjectStorage()
		_, err := stub.Download(ctx, "missing")
		assert.Error(t, err)
	})

	t.Run("presigns stored objects only", func(t *testing.T) {
		stub := NewStubObjectStorage()
		require.NoError(t, stub.Upload(ctx, "statements/a.pdf", []byte("doc"), "application/pdf"))

		url, err := stub.PresignDownload(ctx, "statements/a.pdf", "statement.pdf", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "statements/a.pdf")
		assert.Contains(t, url, "statement.pdf")

		_, err = stub.PresignDownload(ctx, "missing", "statement.pdf", 15*time.Minute)
		assert.Error(t, err)
	})

	t.Run("stored bytes are isolated from the caller's slice", func(t *testing.T) {
		stub := NewStubObjectStorage()
		payload := []byte("original")
		require.NoError(t, stub.Upload(ctx, "k", payload, "text/plain"))
		payload[0] = 'X'

		data, err := stub.Download(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), data)
	})
}
