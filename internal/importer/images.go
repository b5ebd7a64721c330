package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/pkg/business/service"
	"wpbreez_sync/pkg/logger"
)

var ErrUploadDirNotWritable = errors.New("upload directory is not writable")

// DownloadError - изображение не скачалось; вложение в этом случае не создается.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("download %s: %v", e.URL, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("download %s: status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("download %s: empty body", e.URL)
	}
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

type ImageImporter struct {
	media     catalog.MediaLibrary
	client    *http.Client
	uploadDir string
	text      service.ITextService
	log       logger.Logger

	// title -> attachment id, строится при первом обращении
	index map[string]int

	downloads int
}

func NewImageImporter(media catalog.MediaLibrary, uploadDir string, client *http.Client, text service.ITextService, writer io.Writer) *ImageImporter {
	return &ImageImporter{
		media:     media,
		client:    client,
		uploadDir: uploadDir,
		text:      text,
		log:       logger.NewLogger(writer, "[ImageImporter]"),
	}
}

// Downloads - сколько файлов реально скачано этим импортером.
func (im *ImageImporter) Downloads() int {
	return im.downloads
}

// Upload возвращает id вложения для url. Файл с тем же именем повторно не скачивается.
func (im *ImageImporter) Upload(ctx context.Context, rawURL string) (int, error) {
	name, err := imageBaseName(rawURL)
	if err != nil {
		return 0, err
	}

	if err := im.loadIndex(ctx); err != nil {
		return 0, err
	}

	title := im.text.SanitizeFileName(name)
	if id, ok := im.lookup(name, title); ok {
		return id, nil
	}
	if title == "" {
		return 0, fmt.Errorf("image %s: empty file name after sanitizing", rawURL)
	}

	if err := ensureWritable(im.uploadDir); err != nil {
		return 0, err
	}

	data, err := im.download(ctx, rawURL)
	if err != nil {
		return 0, err
	}

	file := filepath.Join(im.uploadDir, title)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUploadDirNotWritable, err)
	}

	id, err := im.media.UploadAttachment(ctx, catalog.Upload{
		FileName: title,
		Title:    title,
		MimeType: detectMimeType(title, data),
		Data:     data,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to register attachment %s: %w", title, err)
	}

	im.index[name] = id
	im.index[title] = id
	im.log.Debug("uploaded %s as attachment %d", title, id)
	return id, nil
}

func (im *ImageImporter) lookup(name, title string) (int, bool) {
	if id, ok := im.index[name]; ok {
		return id, true
	}
	id, ok := im.index[title]
	return id, ok
}

func (im *ImageImporter) loadIndex(ctx context.Context) error {
	if im.index != nil {
		return nil
	}

	attachments, err := im.media.Attachments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list media library: %w", err)
	}

	im.index = make(map[string]int, len(attachments))
	for _, a := range attachments {
		if _, ok := im.index[a.Title]; !ok {
			im.index[a.Title] = a.ID
		}
	}
	return nil
}

func (im *ImageImporter) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	im.downloads++

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DownloadError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}
	if len(data) == 0 {
		return nil, &DownloadError{URL: rawURL}
	}
	return data, nil
}

// assignImages только добавляет изображения: существующие не удаляются и не переставляются.
func (im *ImageImporter) assignImages(ctx context.Context, product *catalog.Product, urls []string) {
	if len(urls) == 0 {
		return
	}

	existing := len(product.GalleryImageIDs)
	if product.ImageID != 0 {
		existing++
	}
	if len(urls) <= existing {
		return
	}

	var ids []int
	for _, u := range urls {
		id, err := im.Upload(ctx, u)
		if err != nil {
			im.log.Error("image %s for %q: %v", u, product.SKU, err)
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}

	if product.ImageID == 0 {
		product.ImageID = ids[0]
	}
	if len(product.GalleryImageIDs) == 0 && len(ids) > 1 {
		product.GalleryImageIDs = append([]int(nil), ids[1:]...)
	}
}

func imageBaseName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid image url %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid image url %q: no file name", rawURL)
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name, nil
}

func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUploadDirNotWritable, dir, err)
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUploadDirNotWritable, dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// detectMimeType: по расширению, как WordPress; по содержимому, если расширение неизвестно.
func detectMimeType(fileName string, data []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(fileName)); byExt != "" {
		mt, _, err := mime.ParseMediaType(byExt)
		if err == nil {
			return mt
		}
		return byExt
	}
	return mimetype.Detect(data).String()
}
