package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStoreDisabled(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(false, dir, zerolog.Nop())

	require.NoError(t, store.Prepare())
	assert.Empty(t, store.SaveUpload("a.jpg", []byte("raw")))
	assert.Empty(t, store.SaveResult("a.jpg", []byte("annotated")))
	assert.Empty(t, store.SavePDF([]byte("%PDF-")))

	// Nothing may touch the filesystem while the toggle is off.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestArtifactStoreEnabled(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(true, dir, zerolog.Nop())
	require.NoError(t, store.Prepare())

	t.Run("SaveUpload", func(t *testing.T) {
		url := store.SaveUpload("road.jpg", []byte("raw"))
		assert.Equal(t, "/static/uploads/road.jpg", url)
		data, err := os.ReadFile(filepath.Join(dir, "uploads", "road.jpg"))
		require.NoError(t, err)
		assert.Equal(t, []byte("raw"), data)
	})

	t.Run("SaveResultPrefixesName", func(t *testing.T) {
		url := store.SaveResult("road.jpg", []byte("annotated"))
		assert.Equal(t, "/static/results/result_road.jpg", url)
	})

	t.Run("SavePDFFixedName", func(t *testing.T) {
		url := store.SavePDF([]byte("%PDF-"))
		assert.Equal(t, "/static/pdfs/complaint.pdf", url)
	})

	t.Run("SaveFailureIsNotFatal", func(t *testing.T) {
		url := store.save("missing-dir", "x.bin", []byte("x"))
		assert.Empty(t, url)
	})
}

func TestArtifactStoreResolve(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(true, dir, zerolog.Nop())
	require.NoError(t, store.Prepare())
	require.NotEmpty(t, store.SaveResult("a.jpg", []byte("x")))

	t.Run("ExistingArtifact", func(t *testing.T) {
		path, ok := store.Resolve("/static/results/result_a.jpg")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(dir, "results", "result_a.jpg"), path)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, ok := store.Resolve("/static/results/nope.jpg")
		assert.False(t, ok)
	})

	t.Run("OutsideStaticRoot", func(t *testing.T) {
		_, ok := store.Resolve("/uploads/a.jpg")
		assert.False(t, ok)
	})

	t.Run("TraversalStaysConfined", func(t *testing.T) {
		_, ok := store.Resolve("/static/../../etc/passwd")
		assert.False(t, ok)
	})

	t.Run("DisabledStoreResolvesNothing", func(t *testing.T) {
		off := NewArtifactStore(false, dir, zerolog.Nop())
		_, ok := off.Resolve("/static/results/result_a.jpg")
		assert.False(t, ok)
	})
}
