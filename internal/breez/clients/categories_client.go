package clients

import (
	"context"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/pkg/business/service"
)

type CategoriesClient struct {
	BaseClient
}

func NewCategoriesClient(apiURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer) *CategoriesClient {
	return &CategoriesClient{
		BaseClient: *NewBaseClient(apiURL, auth, limiter, writer, "[Breez CategoriesClient]"),
	}
}

func (c *CategoriesClient) Fetch(ctx context.Context) ([]models.Category, error) {
	var categories models.Ordered[models.Category]
	if err := c.doRequest(ctx, http.MethodGet, "/categories/", nil, &categories); err != nil {
		return nil, err
	}
	return models.CategoriesFrom(categories), nil
}
