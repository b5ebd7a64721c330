package clients

import (
	"context"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/pkg/business/service"
)

type StocksClient struct {
	BaseClient
}

func NewStocksClient(apiURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer) *StocksClient {
	return &StocksClient{
		BaseClient: *NewBaseClient(apiURL, auth, limiter, writer, "[Breez StocksClient]"),
	}
}

func (c *StocksClient) Fetch(ctx context.Context) ([]models.Stock, error) {
	var stocks models.Ordered[models.Stock]
	if err := c.doRequest(ctx, http.MethodGet, "/leftoversnew/", nil, &stocks); err != nil {
		return nil, err
	}
	out := make([]models.Stock, 0, len(stocks))
	for _, e := range stocks {
		out = append(out, e.Value)
	}
	return out, nil
}
