// Package catalog описывает локальный каталог магазина: термины product_cat,
// товары и медиатеку. Реализации: woocommerce (REST/XML-RPC) и memstore.
package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("catalog: not found")

const (
	MetaCategoryID = "breeze_category_id"
	MetaBrandID    = "breez_brand_id"
	MetaProductID  = "breez_product_id"
	MetaThumbnail  = "thumbnail_id"
)

const (
	StatusPublish = "publish"
	StatusDraft   = "draft"

	StockStatusInStock    = "instock"
	StockStatusOutOfStock = "outofstock"

	VisibilityVisible = "visible"
	BackordersNo      = "no"
)

type TermStore interface {
	Terms(ctx context.Context) ([]Term, error)
	CreateTerm(ctx context.Context, term *Term) (int, error)
	UpdateTerm(ctx context.Context, term *Term) error
}

type ProductStore interface {
	// Products возвращает товары с указанным статусом; пустой статус - все.
	Products(ctx context.Context, status string) ([]*Product, error)
	CreateProduct(ctx context.Context, product *Product) (int, error)
	// UpdateStock и UpdateAttributes меняют только свои поля, остальное в магазине не трогается.
	UpdateStock(ctx context.Context, update StockUpdate) error
	UpdateAttributes(ctx context.Context, productID int, attributes []Attribute) error
}

type MediaLibrary interface {
	Attachments(ctx context.Context) ([]Attachment, error)
	UploadAttachment(ctx context.Context, upload Upload) (int, error)
}

type Store interface {
	TermStore
	ProductStore
	MediaLibrary
}
