package importer

import (
	"context"
	"fmt"
	"strings"

	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/metrics"
)

// ImportProducts создает товары из одной страницы фида.
// Окно страницы фиксированное: offset (page-1)*size, длина size.
// Следующую страницу запускает вызывающий, пока Window не станет 0.
func (s *Synchronizer) ImportProducts(ctx context.Context, page int) (*PageResult, error) {
	if page < 1 {
		page = 1
	}

	remote, err := s.feed.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breez products: %w", err)
	}

	window := pageWindow(remote, page, s.opts.PageSize)
	result := &PageResult{Page: page, Window: len(window), Created: []int{}}
	if len(window) == 0 {
		return result, nil
	}

	sess := s.newSession()
	if _, err := sess.skuIndex(ctx); err != nil {
		return nil, err
	}
	if err := sess.loadTerms(ctx); err != nil {
		return nil, err
	}

	counter := metrics.FromContext(ctx)
	for _, rp := range window {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sku := strings.TrimSpace(rp.Articul)
		if rp.Price.RIC <= 0 || sku == "" || sess.hasSKU(sku) {
			result.Skipped++
			counter.Skipped()
			continue
		}

		id, failure := s.createProduct(ctx, sess, rp, sku)
		if failure != nil {
			s.log.Error("%v", failure)
			result.Failures = append(result.Failures, *failure)
			counter.Failed()
			continue
		}
		result.Created = append(result.Created, id)
		counter.Created()
	}

	s.log.Log("Products page %d: window %d, created %d, skipped %d, failed %d",
		page, result.Window, len(result.Created), result.Skipped, len(result.Failures))
	return result, nil
}

func pageWindow(products []models.Product, page, size int) []models.Product {
	offset := (page - 1) * size
	if offset >= len(products) {
		return nil
	}
	end := offset + size
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}

func (s *Synchronizer) createProduct(ctx context.Context, sess *session, rp models.Product, sku string) (int, *Failure) {
	product := &catalog.Product{
		Name:              rp.Title,
		Slug:              s.text.Slugify(rp.Title),
		SKU:               sku,
		Description:       s.text.DecodeEntities(rp.Description),
		ShortDescription:  s.text.DecodeEntities(rp.UTP),
		Price:             float64(rp.Price.RRC),
		RegularPrice:      float64(rp.Price.RRC),
		CatalogVisibility: catalog.VisibilityVisible,
		Status:            catalog.StatusPublish,
		ManageStock:       true,
		StockQuantity:     0,
		StockStatus:       catalog.StockStatusOutOfStock,
		Backorders:        catalog.BackordersNo,
		ReviewsAllowed:    true,
		SoldIndividually:  false,
		Virtual:           false,
		Downloadable:      false,
	}

	for _, termID := range []int{
		sess.termIDByMeta(catalog.MetaCategoryID, rp.CategoryID.String()),
		sess.termIDByMeta(catalog.MetaBrandID, rp.BrandID.String()),
	} {
		if termID != 0 {
			product.CategoryIDs = append(product.CategoryIDs, termID)
		}
	}

	sess.images.assignImages(ctx, product, rp.Images)
	product.SetMeta(catalog.MetaProductID, rp.ID.String())

	id, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		return 0, &Failure{RemoteID: int(rp.ID), SKU: sku, Reason: ReasonProductSaveFailed, Err: err}
	}
	product.ID = id
	sess.addProduct(product)

	// товар уже создан: ошибка характеристик только логируется
	if _, err := s.importProductTechs(ctx, product, int(rp.ID)); err != nil {
		s.log.Error("techs for product %d (remote %d): %v", id, rp.ID, err)
	}
	return id, nil
}
