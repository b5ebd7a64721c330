package woocommerce

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/pkg/business/service"
)

const mediaEndpoint = "/wp-json/wp/v2/media"

type MediaClient struct {
	BaseClient
}

func NewMediaClient(storeURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer) *MediaClient {
	return &MediaClient{
		BaseClient: *NewBaseClient(storeURL, auth, limiter, writer, "[WP MediaClient]"),
	}
}

func (c *MediaClient) Attachments(ctx context.Context) ([]catalog.Attachment, error) {
	extra := url.Values{
		"context": []string{"edit"},
		"_fields": []string{"id,title,source_url,mime_type"},
	}

	var attachments []catalog.Attachment
	for page, pages := 1, 1; page <= pages; page++ {
		var batch []mediaDTO
		header, err := c.doRequest(ctx, http.MethodGet, mediaEndpoint, pageQuery(page, extra), nil, &batch)
		if err != nil {
			return nil, fmt.Errorf("list media page %d: %w", page, err)
		}
		pages = totalPages(header)
		for _, m := range batch {
			attachments = append(attachments, m.toAttachment())
		}
	}
	return attachments, nil
}

// UploadAttachment грузит файл сырым телом; WordPress сам строит миниатюры.
func (c *MediaClient) UploadAttachment(ctx context.Context, upload catalog.Upload) (int, error) {
	headers := map[string]string{
		"Accept":              "application/json",
		"Content-Type":        upload.MimeType,
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": upload.FileName}),
	}
	query := url.Values{"title": []string{upload.Title}}

	var created mediaDTO
	if _, err := c.send(ctx, http.MethodPost, mediaEndpoint, query, bytes.NewReader(upload.Data), headers, &created); err != nil {
		return 0, fmt.Errorf("upload media %s: %w", upload.FileName, err)
	}
	if err := requireID(created.ID, "upload media"); err != nil {
		return 0, err
	}
	return created.ID, nil
}
