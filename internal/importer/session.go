package importer

import (
	"context"
	"fmt"
	"strings"

	"wpbreez_sync/internal/catalog"
)

// session - индексы одного вызова операции. Между вызовами не живут.
type session struct {
	store  catalog.Store
	status string
	images *ImageImporter

	products []*catalog.Product
	skus     map[string]struct{}

	termsLoaded bool
	bySlug      map[string]*catalog.Term
	byMeta      map[string]map[string]int
}

func (s *session) loadProducts(ctx context.Context) ([]*catalog.Product, error) {
	if s.products != nil {
		return s.products, nil
	}

	products, err := s.store.Products(ctx, s.status)
	if err != nil {
		return nil, fmt.Errorf("failed to list local products: %w", err)
	}

	s.products = products
	if s.products == nil {
		s.products = []*catalog.Product{}
	}
	return s.products, nil
}

func (s *session) skuIndex(ctx context.Context) (map[string]struct{}, error) {
	if s.skus != nil {
		return s.skus, nil
	}

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	s.skus = make(map[string]struct{}, len(products))
	for _, p := range products {
		if sku := strings.TrimSpace(p.SKU); sku != "" {
			s.skus[sku] = struct{}{}
		}
	}
	return s.skus, nil
}

func (s *session) hasSKU(sku string) bool {
	_, ok := s.skus[sku]
	return ok
}

func (s *session) addProduct(p *catalog.Product) {
	s.products = append(s.products, p)
	if s.skus != nil && p.SKU != "" {
		s.skus[p.SKU] = struct{}{}
	}
}

func (s *session) loadTerms(ctx context.Context) error {
	if s.termsLoaded {
		return nil
	}

	terms, err := s.store.Terms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list local terms: %w", err)
	}

	s.bySlug = make(map[string]*catalog.Term, len(terms))
	s.byMeta = make(map[string]map[string]int)
	for i := range terms {
		s.indexTerm(&terms[i])
	}
	s.termsLoaded = true
	return nil
}

func (s *session) indexTerm(t *catalog.Term) {
	s.bySlug[t.Slug] = t
	for _, key := range []string{catalog.MetaCategoryID, catalog.MetaBrandID} {
		value := t.MetaValue(key)
		if value == "" {
			continue
		}
		if s.byMeta[key] == nil {
			s.byMeta[key] = make(map[string]int)
		}
		// первый найденный термин выигрывает
		if _, ok := s.byMeta[key][value]; !ok {
			s.byMeta[key][value] = t.ID
		}
	}
}

func (s *session) termBySlug(slug string) *catalog.Term {
	return s.bySlug[slug]
}

// termIDByMeta возвращает 0, если термин не найден.
func (s *session) termIDByMeta(key, value string) int {
	if value == "" || value == "0" {
		return 0
	}
	return s.byMeta[key][value]
}
