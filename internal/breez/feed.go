package breez

import (
	"context"
	"io"

	"golang.org/x/time/rate"

	"wpbreez_sync/config"
	"wpbreez_sync/internal/breez/clients"
	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/pkg/business/service"
)

// Feed - удаленный каталог Breez. Все клиенты делят один лимитер.
type Feed struct {
	categories *clients.CategoriesClient
	brands     *clients.BrandsClient
	products   *clients.ProductsClient
	stocks     *clients.StocksClient
	techs      *clients.TechsClient
}

func NewFeed(cfg config.BreezConfig, writer io.Writer) *Feed {
	limiter := rate.NewLimiter(rate.Limit(cfg.Rate.RequestsPerSecond), cfg.Rate.Burst)

	var auth service.AuthEngine
	if basic := service.NewBasicAuth(cfg.Login, cfg.Password); basic != nil {
		auth = basic
	}

	return &Feed{
		categories: clients.NewCategoriesClient(cfg.ApiURL, auth, limiter, writer),
		brands:     clients.NewBrandsClient(cfg.ApiURL, auth, limiter, writer),
		products:   clients.NewProductsClient(cfg.ApiURL, auth, limiter, writer),
		stocks:     clients.NewStocksClient(cfg.ApiURL, auth, limiter, writer),
		techs:      clients.NewTechsClient(cfg.ApiURL, auth, limiter, writer),
	}
}

func (f *Feed) Categories(ctx context.Context) ([]models.Category, error) {
	return f.categories.Fetch(ctx)
}

func (f *Feed) Brands(ctx context.Context) ([]models.Brand, error) {
	return f.brands.Fetch(ctx)
}

func (f *Feed) Products(ctx context.Context) ([]models.Product, error) {
	return f.products.Fetch(ctx)
}

func (f *Feed) Stocks(ctx context.Context) ([]models.Stock, error) {
	return f.stocks.Fetch(ctx)
}

func (f *Feed) ProductTechs(ctx context.Context, productID int) ([]models.Tech, error) {
	return f.techs.Fetch(ctx, productID)
}
