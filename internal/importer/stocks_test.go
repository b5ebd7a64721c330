package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/internal/catalog/memstore"
)

func TestImportProductStocksNormalizesArticul(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	id := store.Seed(&catalog.Product{SKU: "A-1x00", Status: catalog.StatusPublish, Price: 1, RegularPrice: 2})

	feed := &fakeFeed{stocks: []models.Stock{{
		Articul:  "A-1х00",
		Quantity: 5,
		Price:    models.StockPrice{Base: 100, RIC: 150},
	}}}
	sync := newTestSynchronizer(t, feed, store, 0)

	result, err := sync.ImportProductStocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Matched)

	p, ok := store.Product(id)
	require.True(t, ok)
	assert.Equal(t, 100.0, p.Price)
	assert.Equal(t, 150.0, p.RegularPrice)
	assert.Equal(t, 5, p.StockQuantity)
	assert.Equal(t, catalog.StockStatusInStock, p.StockStatus)
	assert.Equal(t, catalog.StatusPublish, p.Status)
}

func TestImportProductStocksDraftsOnlyMatchedWithoutBasePrice(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	zero := store.Seed(&catalog.Product{SKU: "Z", Status: catalog.StatusPublish, Price: 7, RegularPrice: 9})
	good := store.Seed(&catalog.Product{SKU: "G", Status: catalog.StatusPublish})
	gone := store.Seed(&catalog.Product{SKU: "GONE", Status: catalog.StatusPublish, StockQuantity: 3})
	store.Seed(&catalog.Product{SKU: "", Status: catalog.StatusPublish})
	store.Seed(&catalog.Product{SKU: "DRAFT", Status: catalog.StatusDraft, StockQuantity: 8})

	feed := &fakeFeed{stocks: []models.Stock{
		{Articul: "Z", Quantity: 2, Price: models.StockPrice{Base: 0, RIC: 5}},
		{Articul: "G", Quantity: 4, Price: models.StockPrice{Base: 10, RIC: 20}},
		{Articul: "G", Quantity: 99, Price: models.StockPrice{Base: 1, RIC: 1}},
		{Articul: "DRAFT", Quantity: 1, Price: models.StockPrice{Base: 1}},
	}}
	sync := newTestSynchronizer(t, feed, store, 0)

	result, err := sync.ImportProductStocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Updated)
	assert.Equal(t, 1, result.Drafted)

	p, _ := store.Product(zero)
	assert.Equal(t, catalog.StatusDraft, p.Status)
	assert.Equal(t, 7.0, p.Price)
	assert.Equal(t, 9.0, p.RegularPrice)
	assert.Equal(t, 2, p.StockQuantity)

	p, _ = store.Product(good)
	assert.Equal(t, catalog.StatusPublish, p.Status)
	assert.Equal(t, 10.0, p.Price)
	assert.Equal(t, 20.0, p.RegularPrice)
	assert.Equal(t, 4, p.StockQuantity)

	p, _ = store.Product(gone)
	assert.Zero(t, p.StockQuantity)
	assert.Equal(t, catalog.StockStatusOutOfStock, p.StockStatus)

	drafts, err := store.Products(ctx, catalog.StatusDraft)
	require.NoError(t, err)
	for _, d := range drafts {
		if d.SKU == "DRAFT" {
			assert.Equal(t, 8, d.StockQuantity)
		}
	}
}

func TestImportProductStocksKeepsRegularPriceWithoutRIC(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	id := store.Seed(&catalog.Product{
		SKU: "A", Name: "Кондиционер", Description: "<p>описание</p>",
		Status: catalog.StatusPublish, Price: 120, RegularPrice: 130, CategoryIDs: []int{4},
	})

	feed := &fakeFeed{stocks: []models.Stock{{Articul: "A", Quantity: 1, Price: models.StockPrice{Base: 110, RIC: 0}}}}
	sync := newTestSynchronizer(t, feed, store, 0)

	_, err := sync.ImportProductStocks(ctx)
	require.NoError(t, err)

	p, _ := store.Product(id)
	assert.Equal(t, 110.0, p.Price)
	assert.Equal(t, 130.0, p.RegularPrice)
	assert.Equal(t, "Кондиционер", p.Name)
	assert.Equal(t, "<p>описание</p>", p.Description)
	assert.Equal(t, []int{4}, p.CategoryIDs)
}

func TestImportProductStocksEmptyFeedIsNoop(t *testing.T) {
	store := memstore.New()
	id := store.Seed(&catalog.Product{SKU: "A", Status: catalog.StatusPublish, StockQuantity: 3})
	sync := newTestSynchronizer(t, &fakeFeed{}, store, 0)

	result, err := sync.ImportProductStocks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Updated)

	p, _ := store.Product(id)
	assert.Equal(t, 3, p.StockQuantity)
}

func TestImportProductStocksSaveFailureContinues(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memstore.New(), sku: "BAD"}
	store.Seed(&catalog.Product{SKU: "BAD", Status: catalog.StatusPublish})
	store.Seed(&catalog.Product{SKU: "OK", Status: catalog.StatusPublish})

	feed := &fakeFeed{stocks: []models.Stock{{Articul: "OK", Quantity: 1, Price: models.StockPrice{Base: 1, RIC: 1}}}}
	sync := newTestSynchronizer(t, feed, store, 0)

	result, err := sync.ImportProductStocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "BAD", result.Failures[0].SKU)
}
