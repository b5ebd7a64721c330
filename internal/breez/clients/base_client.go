package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"wpbreez_sync/metrics"
	"wpbreez_sync/pkg/business/service"
	"wpbreez_sync/pkg/logger"
)

type BaseClient struct {
	ApiURL  string
	log     logger.Logger
	client  *http.Client
	auth    service.AuthEngine
	limiter *rate.Limiter
}

func NewBaseClient(apiURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer, logPrefix string) *BaseClient {
	return &BaseClient{
		ApiURL:  apiURL,
		log:     logger.NewLogger(writer, logPrefix),
		client:  &http.Client{Timeout: 30 * time.Second},
		auth:    auth,
		limiter: limiter,
	}
}

func (c *BaseClient) doRequest(ctx context.Context, method, endpoint string, query url.Values, response interface{}) error {
	c.log.Debug("Got signal for %s", endpoint)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	target := c.ApiURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.auth != nil {
		c.auth.SetApiKey(req)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordUpstream(metrics.UpstreamBreez, method, 0, time.Since(started))
		select {
		case <-ctx.Done():
			return fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()
	metrics.RecordUpstream(metrics.UpstreamBreez, method, resp.StatusCode, time.Since(started))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: non-OK status: %d", method, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
	}

	return nil
}
