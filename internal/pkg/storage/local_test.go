package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("report body"), "tasks/t1/abc.pdf", UploadOptions{AllowedExts: []string{".pdf"}})
	require.NoError(t, err)
	assert.Equal(t, "tasks/t1/abc.pdf", key)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "report body", string(body))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape.txt", "tasks/../../escape.txt", "/etc/passwd", ""} {
		_, err := s.Upload(context.Background(), strings.NewReader("x"), key, UploadOptions{})
		assert.ErrorIs(t, err, ErrInvalidPath, key)
	}
}

func TestLocalStorage_UploadLimits(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(ctx, strings.NewReader("12345"), "a/exact.txt", UploadOptions{MaxSize: 5})
	require.NoError(t, err)

	_, err = s.Upload(ctx, strings.NewReader("123456"), "a/big.txt", UploadOptions{MaxSize: 5})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	ok, err := s.Exists(ctx, "a/big.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Upload(ctx, strings.NewReader("x"), "a/run.exe", UploadOptions{AllowedExts: []string{".pdf"}})
	assert.ErrorIs(t, err, ErrExtNotAllowed)
}
