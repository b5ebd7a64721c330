// Package importer переносит каталог Breez в локальный магазин:
// категории, бренды, товары, характеристики, изображения, остатки и цены.
package importer

import (
	"context"
	"io"
	"net/http"
	"time"

	"wpbreez_sync/config/values"
	"wpbreez_sync/internal/breez/models"
	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/pkg/business/service"
	"wpbreez_sync/pkg/logger"
)

// Feed - удаленный каталог. Реализуется breez.Feed.
type Feed interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Brands(ctx context.Context) ([]models.Brand, error)
	Products(ctx context.Context) ([]models.Product, error)
	Stocks(ctx context.Context) ([]models.Stock, error)
	ProductTechs(ctx context.Context, productID int) ([]models.Tech, error)
}

type Synchronizer struct {
	feed   Feed
	store  catalog.Store
	text   service.ITextService
	client *http.Client
	opts   values.SyncValues
	log    logger.Logger
	writer io.Writer
}

type Option func(*Synchronizer)

// WithHTTPClient задает клиент для скачивания изображений.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Synchronizer) {
		s.client = client
	}
}

func WithTextService(text service.ITextService) Option {
	return func(s *Synchronizer) {
		s.text = text
	}
}

func NewSynchronizer(feed Feed, store catalog.Store, opts values.SyncValues, writer io.Writer, options ...Option) *Synchronizer {
	opts.ApplyDefaults()

	s := &Synchronizer{
		feed:   feed,
		store:  store,
		text:   service.NewTextService(),
		client: &http.Client{Timeout: 60 * time.Second},
		opts:   opts,
		log:    logger.NewLogger(writer, "[Importer]"),
		writer: writer,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// NewImageImporter - импортер изображений со своим индексом медиатеки.
func (s *Synchronizer) NewImageImporter() *ImageImporter {
	return NewImageImporter(s.store, s.opts.UploadDir, s.client, s.text, s.writer)
}

func (s *Synchronizer) newSession() *session {
	return &session{
		store:  s.store,
		status: s.opts.ProductStatus,
		images: s.NewImageImporter(),
	}
}
