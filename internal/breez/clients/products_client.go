package clients

import (
	"context"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/pkg/business/service"
)

type ProductsClient struct {
	BaseClient
}

func NewProductsClient(apiURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer) *ProductsClient {
	return &ProductsClient{
		BaseClient: *NewBaseClient(apiURL, auth, limiter, writer, "[Breez ProductsClient]"),
	}
}

// Fetch возвращает весь каталог в порядке фида; окно страницы считает вызывающий.
func (c *ProductsClient) Fetch(ctx context.Context) ([]models.Product, error) {
	var products models.Ordered[models.Product]
	if err := c.doRequest(ctx, http.MethodGet, "/products/", nil, &products); err != nil {
		return nil, err
	}
	return models.ProductsFrom(products), nil
}
