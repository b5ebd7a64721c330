package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"wpbreez_sync/metrics"
	"wpbreez_sync/pkg/business/service"
	"wpbreez_sync/pkg/logger"
)

const perPage = 100

// APIError - ответ WordPress/WooCommerce с кодом ошибки.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: status %d: %s: %s", e.Method, e.Endpoint, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Endpoint, e.StatusCode)
}

type BaseClient struct {
	StoreURL string
	log      logger.Logger
	client   *http.Client
	auth     service.AuthEngine
	limiter  *rate.Limiter
}

func NewBaseClient(storeURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer, logPrefix string) *BaseClient {
	return &BaseClient{
		StoreURL: storeURL,
		log:      logger.NewLogger(writer, logPrefix),
		client:   &http.Client{Timeout: 60 * time.Second},
		auth:     auth,
		limiter:  limiter,
	}
}

// doRequest отправляет JSON и декодирует JSON-ответ в response (если не nil).
func (c *BaseClient) doRequest(ctx context.Context, method, endpoint string, query url.Values, requestBody, response interface{}) (http.Header, error) {
	var body io.Reader
	headers := map[string]string{"Accept": "application/json"}
	if requestBody != nil {
		bodyBytes, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
		headers["Content-Type"] = "application/json"
	}
	return c.send(ctx, method, endpoint, query, body, headers, response)
}

func (c *BaseClient) send(ctx context.Context, method, endpoint string, query url.Values, body io.Reader, headers map[string]string, response interface{}) (http.Header, error) {
	c.log.Debug("%s %s", method, endpoint)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	target := c.StoreURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.auth != nil {
		c.auth.SetApiKey(req)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordUpstream(metrics.UpstreamWooCommerce, method, 0, time.Since(started))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()
	metrics.RecordUpstream(metrics.UpstreamWooCommerce, method, resp.StatusCode, time.Since(started))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode}
		_ = json.Unmarshal(respBody, apiErr)
		return nil, apiErr
	}

	if response != nil {
		if err := json.Unmarshal(respBody, response); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
		}
	}
	return resp.Header, nil
}

// totalPages читает X-WP-TotalPages; без заголовка считаем, что страница одна.
func totalPages(header http.Header) int {
	n, err := strconv.Atoi(header.Get("X-WP-TotalPages"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func pageQuery(page int, extra url.Values) url.Values {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	return q
}
