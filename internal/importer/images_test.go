package importer

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/internal/catalog/memstore"
	"wpbreez_sync/pkg/business/service"
)

func newTestImageImporter(t *testing.T, media catalog.MediaLibrary, dir string) *ImageImporter {
	t.Helper()
	return NewImageImporter(media, dir, http.DefaultClient, service.NewTextService(), io.Discard)
}

func TestUploadSameURLDownloadsOnce(t *testing.T) {
	ctx := context.Background()
	images := newImageServer(t)
	store := memstore.New()
	dir := t.TempDir()
	im := newTestImageImporter(t, store, dir)

	url := images.URL + "/img/photo%201.jpg"
	first, err := im.Upload(ctx, url)
	require.NoError(t, err)
	second, err := im.Upload(ctx, url)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, images.hits.Load())
	assert.Equal(t, 1, im.Downloads())

	upload, ok := store.Upload(first)
	require.True(t, ok)
	assert.Equal(t, "photo-1.jpg", upload.Title)
	assert.Equal(t, "image/jpeg", upload.MimeType)

	_, err = os.Stat(filepath.Join(dir, "photo-1.jpg"))
	assert.NoError(t, err)

	// новый импортер находит файл по заголовку в медиатеке
	again, err := newTestImageImporter(t, store, dir).Upload(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.EqualValues(t, 1, images.hits.Load())
}

func TestUploadReusesExistingAttachment(t *testing.T) {
	store := memstore.New()
	existing := store.SeedAttachment(catalog.Attachment{Title: "lg.png"})
	im := newTestImageImporter(t, store, t.TempDir())

	id, err := im.Upload(context.Background(), "http://127.0.0.1:1/img/lg.png?v=2")
	require.NoError(t, err)
	assert.Equal(t, existing, id)
	assert.Zero(t, im.Downloads())
}

func TestUploadDownloadFailures(t *testing.T) {
	images := newImageServer(t)
	store := memstore.New()
	im := newTestImageImporter(t, store, t.TempDir())

	_, err := im.Upload(context.Background(), images.URL+"/missing.jpg")
	var downloadErr *DownloadError
	require.ErrorAs(t, err, &downloadErr)
	assert.Equal(t, http.StatusNotFound, downloadErr.StatusCode)

	_, err = im.Upload(context.Background(), images.URL+"/empty.jpg")
	require.ErrorAs(t, err, &downloadErr)
	assert.Zero(t, downloadErr.StatusCode)

	attachments, err := store.Attachments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, attachments)
}

func TestUploadDirNotWritable(t *testing.T) {
	images := newImageServer(t)
	store := memstore.New()

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	im := newTestImageImporter(t, store, filepath.Join(blocker, "uploads"))

	_, err := im.Upload(context.Background(), images.URL+"/img/a.jpg")
	assert.ErrorIs(t, err, ErrUploadDirNotWritable)
	assert.Zero(t, images.hits.Load())
}

func TestUploadInvalidURL(t *testing.T) {
	im := newTestImageImporter(t, memstore.New(), t.TempDir())

	_, err := im.Upload(context.Background(), "http://example.com/")
	assert.Error(t, err)
}

func TestAssignImagesOnlyTopsUp(t *testing.T) {
	ctx := context.Background()
	images := newImageServer(t)
	store := memstore.New()
	im := newTestImageImporter(t, store, t.TempDir())

	full := &catalog.Product{ImageID: 50, GalleryImageIDs: []int{51}}
	im.assignImages(ctx, full, []string{images.URL + "/img/1.jpg", images.URL + "/img/2.jpg"})
	assert.Equal(t, 50, full.ImageID)
	assert.Equal(t, []int{51}, full.GalleryImageIDs)
	assert.Zero(t, images.hits.Load())

	featuredOnly := &catalog.Product{ImageID: 50}
	im.assignImages(ctx, featuredOnly, []string{images.URL + "/img/1.jpg", images.URL + "/img/2.jpg"})
	assert.Equal(t, 50, featuredOnly.ImageID)
	require.Len(t, featuredOnly.GalleryImageIDs, 1)

	galleryOnly := &catalog.Product{GalleryImageIDs: []int{60}}
	im.assignImages(ctx, galleryOnly, []string{images.URL + "/img/1.jpg", images.URL + "/img/2.jpg"})
	assert.NotZero(t, galleryOnly.ImageID)
	assert.Equal(t, []int{60}, galleryOnly.GalleryImageIDs)
}

func TestDetectMimeTypeFallsBackToContent(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, "image/png", detectMimeType("noext", png))
	assert.Equal(t, "image/jpeg", detectMimeType("a.jpg", nil))
}
