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

const productsEndpoint = "/wp-json/wc/v3/products"

type ProductsClient struct {
	BaseClient
}

func NewProductsClient(storeURL string, auth service.AuthEngine, limiter *rate.Limiter, writer io.Writer) *ProductsClient {
	return &ProductsClient{
		BaseClient: *NewBaseClient(storeURL, auth, limiter, writer, "[WC ProductsClient]"),
	}
}

func (c *ProductsClient) Products(ctx context.Context, status string) ([]*catalog.Product, error) {
	extra := url.Values{}
	if status != "" {
		extra.Set("status", status)
	} else {
		extra.Set("status", "any")
	}
	// в view-контексте description приходит отрендеренным
	extra.Set("context", "edit")

	var products []*catalog.Product
	for page, pages := 1, 1; page <= pages; page++ {
		var batch []productDTO
		header, err := c.doRequest(ctx, http.MethodGet, productsEndpoint, pageQuery(page, extra), nil, &batch)
		if err != nil {
			return nil, fmt.Errorf("list products page %d: %w", page, err)
		}
		pages = totalPages(header)
		for _, p := range batch {
			products = append(products, p.toProduct())
		}
	}
	c.log.Log("Loaded %d products (status %q)", len(products), status)
	return products, nil
}

func (c *ProductsClient) CreateProduct(ctx context.Context, product *catalog.Product) (int, error) {
	dto := productFrom(product)
	dto.ID = 0

	var created productDTO
	if _, err := c.doRequest(ctx, http.MethodPost, productsEndpoint, nil, dto, &created); err != nil {
		return 0, fmt.Errorf("create product %q: %w", product.SKU, err)
	}
	if err := requireID(created.ID, "create product"); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *ProductsClient) UpdateStock(ctx context.Context, update catalog.StockUpdate) error {
	endpoint := fmt.Sprintf("%s/%d", productsEndpoint, update.ProductID)
	if _, err := c.doRequest(ctx, http.MethodPut, endpoint, nil, stockFrom(update), nil); err != nil {
		return fmt.Errorf("update stock of product %d: %w", update.ProductID, err)
	}
	return nil
}

func (c *ProductsClient) UpdateAttributes(ctx context.Context, productID int, attributes []catalog.Attribute) error {
	endpoint := fmt.Sprintf("%s/%d", productsEndpoint, productID)
	if _, err := c.doRequest(ctx, http.MethodPut, endpoint, nil, attributesFrom(attributes), nil); err != nil {
		return fmt.Errorf("update attributes of product %d: %w", productID, err)
	}
	return nil
}
