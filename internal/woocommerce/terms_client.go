package woocommerce

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/pkg/business/service"
)

const termsEndpoint = "/wp-json/wp/v2/product_cat"

// TermsClient работает с product_cat через REST WordPress: только там доступна мета термина.
type TermsClient struct {
	BaseClient
}

func NewTermsClient(storeURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer) *TermsClient {
	return &TermsClient{
		BaseClient: *NewBaseClient(storeURL, auth, limiter, writer, "[WC TermsClient]"),
	}
}

func (c *TermsClient) Terms(ctx context.Context) ([]catalog.Term, error) {
	var terms []catalog.Term
	extra := url.Values{"context": []string{"edit"}, "hide_empty": []string{"false"}}

	for page, pages := 1, 1; page <= pages; page++ {
		var batch []termDTO
		header, err := c.doRequest(ctx, http.MethodGet, termsEndpoint, pageQuery(page, extra), nil, &batch)
		if err != nil {
			return nil, fmt.Errorf("list product_cat page %d: %w", page, err)
		}
		pages = totalPages(header)
		for _, t := range batch {
			terms = append(terms, t.toTerm())
		}
	}
	return terms, nil
}

func (c *TermsClient) CreateTerm(ctx context.Context, term *catalog.Term) (int, error) {
	var created termDTO
	dto := termFrom(term)
	dto.ID = 0
	if _, err := c.doRequest(ctx, http.MethodPost, termsEndpoint, nil, dto, &created); err != nil {
		return 0, fmt.Errorf("create product_cat %q: %w", term.Slug, err)
	}
	if err := requireID(created.ID, "create product_cat"); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *TermsClient) UpdateTerm(ctx context.Context, term *catalog.Term) error {
	endpoint := fmt.Sprintf("%s/%d", termsEndpoint, term.ID)
	if _, err := c.doRequest(ctx, http.MethodPost, endpoint, nil, termFrom(term), nil); err != nil {
		return fmt.Errorf("update product_cat %d: %w", term.ID, err)
	}
	return nil
}
