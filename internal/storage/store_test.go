package storage_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestLocalStoreSave(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := storage.NewLocalStore(root)

	t.Run("ImageForCourse", func(t *testing.T) {
		obj, err := store.Save(ctx, storage.CategoryCourses, "cover.png", bytes.NewReader(pngHeader))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(obj.URL, "/uploads/courses/"))
		assert.True(t, strings.HasSuffix(obj.URL, ".png"))
		assert.Equal(t, "image/png", obj.MIME)
		assert.Equal(t, int64(len(pngHeader)), obj.Size)

		written, err := os.ReadFile(filepath.Join(root, "courses", obj.Name))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, written)
	})

	t.Run("PDFForSubmission", func(t *testing.T) {
		obj, err := store.Save(ctx, storage.CategorySubmissions, "essay.pdf", strings.NewReader("%PDF-1.4\n1 0 obj\n"))
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", obj.MIME)
	})

	t.Run("PlainTextForSubmission", func(t *testing.T) {
		_, err := store.Save(ctx, storage.CategorySubmissions, "notes.txt", strings.NewReader("my answer"))
		assert.NoError(t, err)
	})

	t.Run("TextRejectedForCourseImage", func(t *testing.T) {
		_, err := store.Save(ctx, storage.CategoryCourses, "cover.txt", strings.NewReader("not an image"))
		assert.True(t, errors.Is(err, apperror.ErrValidation), "got %v", err)
	})

	t.Run("TooLarge", func(t *testing.T) {
		data := append(append([]byte{}, pngHeader...), make([]byte, storage.MaxSize(storage.CategoryProfiles))...)
		_, err := store.Save(ctx, storage.CategoryProfiles, "big.png", bytes.NewReader(data))
		assert.True(t, errors.Is(err, apperror.ErrValidation), "got %v", err)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := store.Save(ctx, storage.CategorySubmissions, "empty.pdf", bytes.NewReader(nil))
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("UniqueNames", func(t *testing.T) {
		a, err := store.Save(ctx, storage.CategoryCourses, "same.png", bytes.NewReader(pngHeader))
		require.NoError(t, err)
		b, err := store.Save(ctx, storage.CategoryCourses, "same.png", bytes.NewReader(pngHeader))
		require.NoError(t, err)
		assert.NotEqual(t, a.URL, b.URL)
	})
}

func TestLocalStoreRemove(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := storage.NewLocalStore(root)

	obj, err := store.Save(ctx, storage.CategorySubmissions, "essay.pdf", strings.NewReader("%PDF-1.4\n1 0 obj\n"))
	require.NoError(t, err)
	file := filepath.Join(root, "submissions", obj.Name)
	require.FileExists(t, file)

	require.NoError(t, store.Remove(ctx, obj))
	assert.NoFileExists(t, file)

	t.Run("AlreadyGone", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, obj))
	})

	t.Run("OutsideUploads", func(t *testing.T) {
		assert.Error(t, store.Remove(ctx, &storage.Object{URL: "/etc/passwd"}))
		assert.Error(t, store.Remove(ctx, &storage.Object{URL: "/uploads/../secret"}))
	})
}
