package importer

import (
	"context"
	"fmt"
	"strings"

	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/metrics"
)

// ImportProductStocks обновляет остатки и цены всех опубликованных товаров по артикулу.
func (s *Synchronizer) ImportProductStocks(ctx context.Context) (*StockResult, error) {
	remote, err := s.feed.Stocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breez stocks: %w", err)
	}

	result := &StockResult{}
	if len(remote) == 0 {
		return result, nil
	}

	sess := s.newSession()
	products, err := sess.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	index := s.stockIndex(remote)
	counter := metrics.FromContext(ctx)
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sku := strings.TrimSpace(p.SKU)
		if sku == "" {
			continue
		}

		update := catalog.StockUpdate{ProductID: p.ID}
		quantity := 0
		if stock, ok := index[s.text.NormalizeArticul(sku)]; ok {
			result.Matched++
			quantity = int(stock.Quantity)
			// base <= 0: товар уходит в черновик, обе цены в магазине остаются прежними.
			// ric <= 0: регулярная цена остаётся прежней, base становится ценой продажи.
			if stock.Price.Base <= 0 {
				update.Status = catalog.StatusDraft
				result.Drafted++
			} else {
				update.Price = float64(stock.Price.Base)
				update.RegularPrice = p.RegularPrice
				if stock.Price.RIC > 0 {
					update.RegularPrice = float64(stock.Price.RIC)
				}
			}
		}
		if quantity < 0 {
			quantity = 0
		}

		update.StockQuantity = quantity
		if quantity > 0 {
			update.StockStatus = catalog.StockStatusInStock
		} else {
			update.StockStatus = catalog.StockStatusOutOfStock
		}

		if err := s.store.UpdateStock(ctx, update); err != nil {
			s.log.Error("stock update for %q: %v", sku, err)
			result.Failures = append(result.Failures, Failure{
				RemoteID: p.RemoteID(), SKU: sku, Reason: ReasonProductSaveFailed, Err: err,
			})
			counter.Failed()
			continue
		}
		result.Updated++
		counter.Updated()
	}

	s.log.Log("Stocks synced: %d updated, %d matched, %d drafted, %d failed",
		result.Updated, result.Matched, result.Drafted, len(result.Failures))
	return result, nil
}

// stockIndex: нормализованный артикул -> первая запись с этим артикулом.
func (s *Synchronizer) stockIndex(stocks []models.Stock) map[string]models.Stock {
	index := make(map[string]models.Stock, len(stocks))
	for _, st := range stocks {
		key := s.text.NormalizeArticul(strings.TrimSpace(st.Articul))
		if key == "" {
			continue
		}
		if _, ok := index[key]; !ok {
			index[key] = st
		}
	}
	return index
}
