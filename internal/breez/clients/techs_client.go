package clients

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/pkg/business/service"
)

type TechsClient struct {
	BaseClient
}

func NewTechsClient(apiURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer) *TechsClient {
	return &TechsClient{
		BaseClient: *NewBaseClient(apiURL, auth, limiter, writer, "[Breez TechsClient]"),
	}
}

// Fetch отдает характеристики одного товара. Ответ - объект {id: {techs: [...]}}.
func (c *TechsClient) Fetch(ctx context.Context, productID int) ([]models.Tech, error) {
	key := strconv.Itoa(productID)
	query := url.Values{"id": []string{key}}

	var sets models.Ordered[models.TechSet]
	if err := c.doRequest(ctx, http.MethodGet, "/tech/", query, &sets); err != nil {
		return nil, err
	}

	for _, e := range sets {
		if e.Key == key {
			return e.Value.Techs, nil
		}
	}
	return nil, nil
}
