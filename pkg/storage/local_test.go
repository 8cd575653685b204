package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStorage(LocalConfig{BasePath: dir})
	require.NoError(t, err)
	return s, dir
}

func TestLocalWriteRead(t *testing.T) {
	s, _ := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "uploads/a.txt", strings.NewReader("hello"), 5, "text/plain"))

	rc, err := s.Read(ctx, "uploads/a.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	ok, err := s.Exists(ctx, "uploads/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "uploads/missing.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalWriteLeavesNoTempFiles(t *testing.T) {
	s, dir := newLocal(t)

	require.NoError(t, s.Write(context.Background(), "uploads/a.txt", strings.NewReader("x"), 1, ""))

	entries, err := os.ReadDir(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".upload-"), "temp file left behind: %s", e.Name())
	}
}

func TestLocalKeyCannotEscapeBase(t *testing.T) {
	s, dir := newLocal(t)

	outside := filepath.Join(filepath.Dir(dir), "escape.txt")
	os.Remove(outside)

	// The traversal key collapses to the base dir, where the final rename
	// cannot land. Either way nothing appears outside the base.
	s.Write(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "")
	assert.NoFileExists(t, outside)

	ok, err := s.Exists(context.Background(), "../escape.txt")
	require.NoError(t, err)
	assert.True(t, ok, "escaping keys resolve inside the base dir")
}

func TestLocalListAndDelete(t *testing.T) {
	s, _ := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "uploads/a.txt", strings.NewReader("aa"), 2, ""))
	require.NoError(t, s.Write(ctx, "uploads/b.txt", strings.NewReader("bbb"), 3, ""))
	require.NoError(t, s.Write(ctx, "other/c.txt", strings.NewReader("c"), 1, ""))

	infos, err := s.List(ctx, "uploads")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.True(t, strings.HasPrefix(info.Key, "uploads/"))
		assert.Positive(t, info.Size)
		assert.WithinDuration(t, time.Now(), info.LastModified, time.Minute)
	}

	require.NoError(t, s.Delete(ctx, "uploads/a.txt"))
	ok, err := s.Exists(ctx, "uploads/a.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is not an error.
	assert.NoError(t, s.Delete(ctx, "uploads/a.txt"))
}

func TestLocalGetURL(t *testing.T) {
	s, _ := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "uploads/a.txt", strings.NewReader("x"), 1, ""))

	url, err := s.GetURL(ctx, "uploads/a.txt", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.txt", url)

	_, err = s.GetURL(ctx, "uploads/missing.txt", time.Hour)
	assert.Error(t, err)
}
