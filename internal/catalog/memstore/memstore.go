// Package memstore - каталог в памяти: тесты и запуск с -dry-run.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"wpbreez_sync/internal/catalog"
)

type Store struct {
	mu          sync.Mutex
	nextID      int
	terms       []catalog.Term
	products    []*catalog.Product
	attachments []catalog.Attachment
	uploads     map[int]catalog.Upload
}

var _ catalog.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1, uploads: make(map[int]catalog.Upload)}
}

func (s *Store) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func cloneTerm(t catalog.Term) catalog.Term {
	if t.Meta != nil {
		meta := make(map[string]string, len(t.Meta))
		for k, v := range t.Meta {
			meta[k] = v
		}
		t.Meta = meta
	}
	return t
}

func (s *Store) Terms(_ context.Context) ([]catalog.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Term, 0, len(s.terms))
	for _, t := range s.terms {
		out = append(out, cloneTerm(t))
	}
	return out, nil
}

func (s *Store) CreateTerm(_ context.Context, term *catalog.Term) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.terms {
		if t.Slug == term.Slug {
			return 0, fmt.Errorf("term slug %q already exists", term.Slug)
		}
	}
	term.ID = s.id()
	s.terms = append(s.terms, cloneTerm(*term))
	return term.ID, nil
}

func (s *Store) UpdateTerm(_ context.Context, term *catalog.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.terms {
		if s.terms[i].ID == term.ID {
			s.terms[i] = cloneTerm(*term)
			return nil
		}
	}
	return fmt.Errorf("term %d: %w", term.ID, catalog.ErrNotFound)
}

func (s *Store) Products(_ context.Context, status string) ([]*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*catalog.Product
	for _, p := range s.products {
		if status == "" || p.Status == status {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (s *Store) CreateProduct(_ context.Context, product *catalog.Product) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.id()
	s.products = append(s.products, product.Clone())
	return product.ID, nil
}

func (s *Store) UpdateStock(_ context.Context, update catalog.StockUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(update.ProductID)
	if p == nil {
		return fmt.Errorf("product %d: %w", update.ProductID, catalog.ErrNotFound)
	}
	if update.Status != "" {
		p.Status = update.Status
	}
	if update.Price > 0 {
		p.Price = update.Price
		if update.RegularPrice > 0 {
			p.RegularPrice = update.RegularPrice
		}
	}
	p.ManageStock = true
	p.StockQuantity = update.StockQuantity
	p.StockStatus = update.StockStatus
	return nil
}

func (s *Store) UpdateAttributes(_ context.Context, productID int, attributes []catalog.Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(productID)
	if p == nil {
		return fmt.Errorf("product %d: %w", productID, catalog.ErrNotFound)
	}
	p.Attributes = make([]catalog.Attribute, len(attributes))
	for i, a := range attributes {
		a.Options = append([]string(nil), a.Options...)
		p.Attributes[i] = a
	}
	return nil
}

func (s *Store) find(id int) *catalog.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) Attachments(_ context.Context) ([]catalog.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]catalog.Attachment(nil), s.attachments...), nil
}

func (s *Store) UploadAttachment(_ context.Context, upload catalog.Upload) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id()
	s.attachments = append(s.attachments, catalog.Attachment{
		ID:       id,
		Title:    upload.Title,
		URL:      "memory://" + upload.FileName,
		MimeType: upload.MimeType,
	})
	s.uploads[id] = upload
	return id, nil
}

// Product - текущая версия товара по id (для проверок в тестах).
func (s *Store) Product(id int) (*catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return nil, false
}

func (s *Store) Upload(id int) (catalog.Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.uploads[id]
	return u, ok
}

// Seed добавляет товар как есть, сохраняя ID если он задан.
func (s *Store) Seed(product *catalog.Product) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == 0 {
		product.ID = s.id()
	} else if product.ID >= s.nextID {
		s.nextID = product.ID + 1
	}
	s.products = append(s.products, product.Clone())
	return product.ID
}

func (s *Store) SeedTerm(term catalog.Term) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if term.ID == 0 {
		term.ID = s.id()
	} else if term.ID >= s.nextID {
		s.nextID = term.ID + 1
	}
	s.terms = append(s.terms, cloneTerm(term))
	return term.ID
}

func (s *Store) SeedAttachment(a catalog.Attachment) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == 0 {
		a.ID = s.id()
	} else if a.ID >= s.nextID {
		s.nextID = a.ID + 1
	}
	s.attachments = append(s.attachments, a)
	return a.ID
}
