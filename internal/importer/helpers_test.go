package importer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"wpbreez_sync/config/values"
	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/internal/catalog/memstore"
)

type fakeFeed struct {
	categories []models.Category
	brands     []models.Brand
	products   []models.Product
	stocks     []models.Stock
	techs      map[int][]models.Tech
	err        error
	techErr    error
}

func (f *fakeFeed) Categories(context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

func (f *fakeFeed) Brands(context.Context) ([]models.Brand, error) {
	return f.brands, f.err
}

func (f *fakeFeed) Products(context.Context) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeFeed) Stocks(context.Context) ([]models.Stock, error) {
	return f.stocks, f.err
}

func (f *fakeFeed) ProductTechs(_ context.Context, id int) ([]models.Tech, error) {
	if f.techErr != nil {
		return nil, f.techErr
	}
	return f.techs[id], nil
}

// failingStore роняет создание отдельных терминов и товаров.
type failingStore struct {
	*memstore.Store
	termSlug string
	sku      string
}

var errStoreDown = errors.New("store is down")

func (s *failingStore) CreateTerm(ctx context.Context, term *catalog.Term) (int, error) {
	if term.Slug == s.termSlug {
		return 0, errStoreDown
	}
	return s.Store.CreateTerm(ctx, term)
}

func (s *failingStore) CreateProduct(ctx context.Context, product *catalog.Product) (int, error) {
	if product.SKU == s.sku {
		return 0, errStoreDown
	}
	return s.Store.CreateProduct(ctx, product)
}

func (s *failingStore) failsFor(productID int) bool {
	p, ok := s.Store.Product(productID)
	return ok && p.SKU == s.sku
}

func (s *failingStore) UpdateStock(ctx context.Context, update catalog.StockUpdate) error {
	if s.failsFor(update.ProductID) {
		return errStoreDown
	}
	return s.Store.UpdateStock(ctx, update)
}

func (s *failingStore) UpdateAttributes(ctx context.Context, productID int, attributes []catalog.Attribute) error {
	if s.failsFor(productID) {
		return errStoreDown
	}
	return s.Store.UpdateAttributes(ctx, productID, attributes)
}

// imageServer отдает картинки по /img/*, считает скачивания.
type imageServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newImageServer(t *testing.T) *imageServer {
	t.Helper()
	srv := &imageServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.hits.Add(1)
		switch {
		case strings.HasPrefix(r.URL.Path, "/img/"):
			w.Write([]byte("\xff\xd8\xff\xe0 fake jpeg " + r.URL.Path))
		case r.URL.Path == "/empty.jpg":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestSynchronizer(t *testing.T, feed Feed, store catalog.Store, pageSize int) *Synchronizer {
	t.Helper()
	return NewSynchronizer(feed, store, values.SyncValues{
		PageSize:  pageSize,
		UploadDir: t.TempDir(),
	}, io.Discard)
}
