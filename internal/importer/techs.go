package importer

import (
	"context"
	"fmt"

	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/metrics"
)

// ImportProductTechs полностью заменяет атрибуты товара характеристиками из фида.
// remoteID 0 - взять из меты breez_product_id. Пустой список характеристик - ничего не делать.
func (s *Synchronizer) ImportProductTechs(ctx context.Context, product *catalog.Product, remoteID int) error {
	_, err := s.importProductTechs(ctx, product, remoteID)
	return err
}

func (s *Synchronizer) importProductTechs(ctx context.Context, product *catalog.Product, remoteID int) (bool, error) {
	if product == nil {
		return false, nil
	}
	if remoteID == 0 {
		remoteID = product.RemoteID()
	}
	if remoteID == 0 {
		return false, nil
	}

	techs, err := s.feed.ProductTechs(ctx, remoteID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch techs for %d: %w", remoteID, err)
	}
	if len(techs) == 0 {
		return false, nil
	}

	attributes := make([]catalog.Attribute, 0, len(techs))
	for _, t := range techs {
		attributes = append(attributes, catalog.Attribute{
			Name:      t.Title,
			Options:   []string{t.Value},
			Position:  int(t.Order),
			Visible:   true,
			Variation: false,
		})
	}

	if err := s.store.UpdateAttributes(ctx, product.ID, attributes); err != nil {
		return false, fmt.Errorf("failed to save attributes of product %d: %w", product.ID, err)
	}
	product.Attributes = attributes
	return true, nil
}

// ImportAllProductTechs пересинхронизирует характеристики всех опубликованных товаров.
func (s *Synchronizer) ImportAllProductTechs(ctx context.Context) (*TechResult, error) {
	sess := s.newSession()
	products, err := sess.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	result := &TechResult{}
	counter := metrics.FromContext(ctx)
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		updated, err := s.importProductTechs(ctx, p, 0)
		switch {
		case err != nil:
			s.log.Error("techs for product %d: %v", p.ID, err)
			result.Failures = append(result.Failures, Failure{
				RemoteID: p.RemoteID(), SKU: p.SKU, Reason: ReasonTechsFailed, Err: err,
			})
			counter.Failed()
		case updated:
			result.Updated++
			counter.Updated()
		default:
			result.Skipped++
			counter.Skipped()
		}
	}

	s.log.Log("Techs synced: %d updated, %d skipped, %d failed", result.Updated, result.Skipped, len(result.Failures))
	return result, nil
}
