package clients

import (
	"context"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/pkg/business/service"
)

type BrandsClient struct {
	BaseClient
}

func NewBrandsClient(apiURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer) *BrandsClient {
	return &BrandsClient{
		BaseClient: *NewBaseClient(apiURL, auth, limiter, writer, "[Breez BrandsClient]"),
	}
}

func (c *BrandsClient) Fetch(ctx context.Context) ([]models.Brand, error) {
	var brands models.Ordered[models.Brand]
	if err := c.doRequest(ctx, http.MethodGet, "/brands/", nil, &brands); err != nil {
		return nil, err
	}
	return models.BrandsFrom(brands), nil
}
