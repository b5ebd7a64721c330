package woocommerce

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/kolo/xmlrpc"
	"golang.org/x/time/rate"

	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/metrics"
	"wpbreez_sync/pkg/logger"
)

const xmlrpcPath = "/xmlrpc.php"

// XMLRPCMedia - медиатека через XML-RPC WordPress, для сайтов с закрытым REST media.
type XMLRPCMedia struct {
	endpoint  string
	user      string
	password  string
	transport http.RoundTripper
	limiter   *rate.Limiter
	log       logger.Logger
}

func NewXMLRPCMedia(storeURL, user, password string, limiter *rate.Limiter, writer io.Writer) *XMLRPCMedia {
	return &XMLRPCMedia{
		endpoint: storeURL + xmlrpcPath,
		user:     user,
		password: password,
		limiter:  limiter,
		log:      logger.NewLogger(writer, "[WP XMLRPC]"),
	}
}

func (m *XMLRPCMedia) call(ctx context.Context, method string, args []interface{}, reply interface{}) error {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	client, err := xmlrpc.NewClient(m.endpoint, m.transport)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	started := time.Now()
	if err := client.Call(method, args, reply); err != nil {
		metrics.RecordUpstream(metrics.UpstreamWordPressRPC, method, 0, time.Since(started))
		return fmt.Errorf("%s failed: %w", method, err)
	}
	metrics.RecordUpstream(metrics.UpstreamWordPressRPC, method, http.StatusOK, time.Since(started))
	return nil
}

func (m *XMLRPCMedia) Attachments(ctx context.Context) ([]catalog.Attachment, error) {
	var attachments []catalog.Attachment
	for offset := 0; ; offset += perPage {
		filter := map[string]interface{}{"number": perPage, "offset": offset}
		args := []interface{}{0, m.user, m.password, filter}

		var batch []map[string]interface{}
		if err := m.call(ctx, "wp.getMediaLibrary", args, &batch); err != nil {
			return nil, err
		}
		for _, item := range batch {
			attachments = append(attachments, catalog.Attachment{
				ID:       toInt(item["attachment_id"]),
				Title:    toString(item["title"]),
				URL:      toString(item["link"]),
				MimeType: toString(item["type"]),
			})
		}
		if len(batch) < perPage {
			break
		}
	}
	m.log.Debug("media library: %d attachments", len(attachments))
	return attachments, nil
}

func (m *XMLRPCMedia) UploadAttachment(ctx context.Context, upload catalog.Upload) (int, error) {
	data := map[string]interface{}{
		"name":      upload.FileName,
		"type":      upload.MimeType,
		"bits":      xmlrpc.Base64(base64.StdEncoding.EncodeToString(upload.Data)),
		"overwrite": false,
	}
	args := []interface{}{0, m.user, m.password, data}

	var reply map[string]interface{}
	if err := m.call(ctx, "wp.uploadFile", args, &reply); err != nil {
		return 0, err
	}

	id := toInt(reply["id"])
	if id == 0 {
		id = toInt(reply["attachment_id"])
	}
	if err := requireID(id, "wp.uploadFile"); err != nil {
		return 0, err
	}
	return id, nil
}

func toInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(t)
		return n
	default:
		return 0
	}
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
