package importer

import (
	"context"
	"fmt"
	"strconv"

	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/metrics"
)

// ImportCategories создает или обновляет термины по slug. Возвращает id только созданных.
func (s *Synchronizer) ImportCategories(ctx context.Context) ([]int, error) {
	remote, err := s.feed.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breez categories: %w", err)
	}

	created := []int{}
	if len(remote) == 0 {
		return created, nil
	}

	sess := s.newSession()
	if err := sess.loadTerms(ctx); err != nil {
		return nil, err
	}

	byID := make(map[int]models.Category, len(remote))
	for _, c := range remote {
		byID[int(c.ID)] = c
	}

	counter := metrics.FromContext(ctx)
	for _, c := range remote {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if c.Title == "" || c.Slug == "" {
			s.log.Debug("category %d skipped: empty title or chpu", c.ID)
			counter.Skipped()
			continue
		}

		parent := s.resolveCategoryParent(sess, byID, c)
		term, isNew, err := s.upsertTerm(ctx, sess, c.Title, c.Slug, parent, catalog.MetaCategoryID, int(c.ID))
		if err != nil {
			s.log.Error("Error while creating category %q: %v", c.Slug, err)
			counter.Failed()
			continue
		}
		if isNew {
			created = append(created, term.ID)
		}
	}

	s.log.Log("Categories imported: %d created of %d", len(created), len(remote))
	return created, nil
}

// resolveCategoryParent: явный parent_id, если фид его отдает, иначе level -
// id родительской записи в той же выгрузке. Неразрешенный родитель - корень.
func (s *Synchronizer) resolveCategoryParent(sess *session, byID map[int]models.Category, c models.Category) int {
	ref := int(c.ParentID)
	if ref <= 0 {
		ref = int(c.Level)
	}
	if ref <= 0 || ref == int(c.ID) {
		return 0
	}

	if parent, ok := byID[ref]; ok && parent.Slug != "" {
		if term := sess.termBySlug(parent.Slug); term != nil {
			return term.ID
		}
	}
	return sess.termIDByMeta(catalog.MetaCategoryID, strconv.Itoa(ref))
}

// ImportBrands раскладывает бренды под общий корневой термин.
func (s *Synchronizer) ImportBrands(ctx context.Context) ([]int, error) {
	remote, err := s.feed.Brands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breez brands: %w", err)
	}

	created := []int{}
	if len(remote) == 0 {
		return created, nil
	}

	sess := s.newSession()
	if err := sess.loadTerms(ctx); err != nil {
		return nil, err
	}

	rootID, err := s.brandRoot(ctx, sess)
	if err != nil {
		return nil, err
	}

	counter := metrics.FromContext(ctx)
	for _, b := range remote {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if b.Title == "" || b.Slug == "" {
			s.log.Debug("brand %d skipped: empty title or chpu", b.ID)
			counter.Skipped()
			continue
		}

		term, isNew, err := s.upsertTerm(ctx, sess, b.Title, b.Slug, rootID, catalog.MetaBrandID, int(b.ID))
		if err != nil {
			s.log.Error("Error while creating brand %q: %v", b.Slug, err)
			counter.Failed()
			continue
		}
		if !isNew {
			continue
		}

		if b.Image != "" {
			s.attachBrandThumbnail(ctx, sess, term, b.Image)
		}
		created = append(created, term.ID)
	}

	s.log.Log("Brands imported: %d created of %d", len(created), len(remote))
	return created, nil
}

func (s *Synchronizer) brandRoot(ctx context.Context, sess *session) (int, error) {
	if term := sess.termBySlug(s.opts.BrandRootSlug); term != nil {
		return term.ID, nil
	}

	root := &catalog.Term{Name: s.opts.BrandRootLabel, Slug: s.opts.BrandRootSlug}
	id, err := s.store.CreateTerm(ctx, root)
	if err != nil {
		return 0, fmt.Errorf("failed to create brand root term %q: %w", s.opts.BrandRootSlug, err)
	}
	root.ID = id
	sess.indexTerm(root)
	return id, nil
}

// Миниатюра ставится только при первом создании бренда; ошибка не мешает импорту.
func (s *Synchronizer) attachBrandThumbnail(ctx context.Context, sess *session, term *catalog.Term, imageURL string) {
	imageID, err := sess.images.Upload(ctx, imageURL)
	if err != nil {
		s.log.Error("brand %d thumbnail %s: %v", term.ID, imageURL, err)
		return
	}

	term.SetMeta(catalog.MetaThumbnail, strconv.Itoa(imageID))
	if err := s.store.UpdateTerm(ctx, term); err != nil {
		s.log.Error("brand %d thumbnail meta: %v", term.ID, err)
	}
}

// upsertTerm: isNew только для впервые созданного термина.
func (s *Synchronizer) upsertTerm(ctx context.Context, sess *session, name, slug string, parent int, metaKey string, remoteID int) (term *catalog.Term, isNew bool, err error) {
	counter := metrics.FromContext(ctx)
	remote := strconv.Itoa(remoteID)

	if existing := sess.termBySlug(slug); existing != nil {
		if parent == existing.ID {
			parent = existing.Parent
		}

		updated := *existing
		updated.Meta = nil
		for k, v := range existing.Meta {
			updated.SetMeta(k, v)
		}
		changed := updated.Name != name || updated.Parent != parent
		if updated.MetaValue(metaKey) == "" {
			updated.SetMeta(metaKey, remote)
			changed = true
		}
		if !changed {
			counter.Skipped()
			return existing, false, nil
		}

		updated.Name = name
		updated.Parent = parent
		if err := s.store.UpdateTerm(ctx, &updated); err != nil {
			return nil, false, fmt.Errorf("update term %d: %w", existing.ID, err)
		}
		*existing = updated
		sess.indexTerm(existing)
		counter.Updated()
		return existing, false, nil
	}

	term = &catalog.Term{Name: name, Slug: slug, Parent: parent}
	term.SetMeta(metaKey, remote)
	id, err := s.store.CreateTerm(ctx, term)
	if err != nil {
		return nil, false, err
	}
	term.ID = id
	sess.indexTerm(term)
	counter.Created()
	return term, true, nil
}
