package woocommerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"wpbreez_sync/internal/catalog"
)

type termDTO struct {
	ID     int     `json:"id,omitempty"`
	Name   string  `json:"name"`
	Slug   string  `json:"slug"`
	Parent int     `json:"parent"`
	Meta   metaMap `json:"meta,omitempty"`
}

// metaMap: пустая мета приходит из PHP массивом [].
type metaMap map[string]metaValue

func (m *metaMap) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		*m = nil
		return nil
	}
	var values map[string]metaValue
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*m = values
	return nil
}

// metaValue: register_meta с single=false отдает массив, с single=true - скаляр.
type metaValue string

func (m *metaValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = metaValue(stringify(raw))
	return nil
}

func stringify(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []interface{}:
		if len(v) == 0 {
			return ""
		}
		return stringify(v[0])
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func (t termDTO) toTerm() catalog.Term {
	term := catalog.Term{ID: t.ID, Name: t.Name, Slug: t.Slug, Parent: t.Parent}
	for k, v := range t.Meta {
		if v != "" {
			term.SetMeta(k, string(v))
		}
	}
	return term
}

func termFrom(t *catalog.Term) termDTO {
	dto := termDTO{ID: t.ID, Name: t.Name, Slug: t.Slug, Parent: t.Parent}
	if len(t.Meta) > 0 {
		dto.Meta = make(metaMap, len(t.Meta))
		for k, v := range t.Meta {
			dto.Meta[k] = metaValue(v)
		}
	}
	return dto
}

type idDTO struct {
	ID int `json:"id"`
}

type attributeDTO struct {
	Name      string   `json:"name"`
	Options   []string `json:"options"`
	Position  int      `json:"position"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
}

type metaDataDTO struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Чужую мету товара не читаем и не перезаписываем.
var productMetaKeys = []string{catalog.MetaProductID}

type productDTO struct {
	ID                int            `json:"id,omitempty"`
	Name              string         `json:"name"`
	Slug              string         `json:"slug,omitempty"`
	SKU               string         `json:"sku"`
	Description       string         `json:"description"`
	ShortDescription  string         `json:"short_description"`
	Status            string         `json:"status"`
	CatalogVisibility string         `json:"catalog_visibility,omitempty"`
	Price             string         `json:"price,omitempty"`
	RegularPrice      string         `json:"regular_price"`
	SalePrice         string         `json:"sale_price"`
	ManageStock       bool           `json:"manage_stock"`
	StockQuantity     *int           `json:"stock_quantity"`
	StockStatus       string         `json:"stock_status,omitempty"`
	Backorders        string         `json:"backorders,omitempty"`
	ReviewsAllowed    bool           `json:"reviews_allowed"`
	SoldIndividually  bool           `json:"sold_individually"`
	Virtual           bool           `json:"virtual"`
	Downloadable      bool           `json:"downloadable"`
	Categories        []idDTO        `json:"categories"`
	Images            []idDTO        `json:"images"`
	Attributes        []attributeDTO `json:"attributes"`
	MetaData          []metaDataDTO  `json:"meta_data,omitempty"`
}

func formatPrice(v float64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// priceFields: WooCommerce не принимает price напрямую; цена ниже регулярной уходит в sale_price.
func priceFields(price, regular float64) (regularPrice, salePrice string) {
	regularPrice = formatPrice(regular)
	if regularPrice == "" {
		return formatPrice(price), ""
	}
	if price > 0 && price != regular {
		salePrice = formatPrice(price)
	}
	return regularPrice, salePrice
}

func productFrom(p *catalog.Product) productDTO {
	qty := p.StockQuantity
	dto := productDTO{
		ID:                p.ID,
		Name:              p.Name,
		Slug:              p.Slug,
		SKU:               p.SKU,
		Description:       p.Description,
		ShortDescription:  p.ShortDescription,
		Status:            p.Status,
		CatalogVisibility: p.CatalogVisibility,
		ManageStock:       p.ManageStock,
		StockQuantity:     &qty,
		StockStatus:       p.StockStatus,
		Backorders:        p.Backorders,
		ReviewsAllowed:    p.ReviewsAllowed,
		SoldIndividually:  p.SoldIndividually,
		Virtual:           p.Virtual,
		Downloadable:      p.Downloadable,
		Categories:        []idDTO{},
		Images:            []idDTO{},
		Attributes:        []attributeDTO{},
	}
	dto.RegularPrice, dto.SalePrice = priceFields(p.Price, p.RegularPrice)

	for _, id := range p.CategoryIDs {
		dto.Categories = append(dto.Categories, idDTO{ID: id})
	}
	if p.ImageID != 0 {
		dto.Images = append(dto.Images, idDTO{ID: p.ImageID})
	}
	for _, id := range p.GalleryImageIDs {
		dto.Images = append(dto.Images, idDTO{ID: id})
	}
	for _, a := range p.Attributes {
		dto.Attributes = append(dto.Attributes, attributeDTO(a))
	}
	for _, key := range productMetaKeys {
		if v := p.MetaValue(key); v != "" {
			dto.MetaData = append(dto.MetaData, metaDataDTO{Key: key, Value: v})
		}
	}
	return dto
}

// stockDTO - тело частичного PUT: остальные поля товара в магазине остаются как были.
type stockDTO struct {
	Status        string  `json:"status,omitempty"`
	RegularPrice  *string `json:"regular_price,omitempty"`
	SalePrice     *string `json:"sale_price,omitempty"`
	ManageStock   bool    `json:"manage_stock"`
	StockQuantity int     `json:"stock_quantity"`
	StockStatus   string  `json:"stock_status,omitempty"`
}

func stockFrom(u catalog.StockUpdate) stockDTO {
	dto := stockDTO{
		Status:        u.Status,
		ManageStock:   true,
		StockQuantity: u.StockQuantity,
		StockStatus:   u.StockStatus,
	}
	if u.Price > 0 {
		regular, sale := priceFields(u.Price, u.RegularPrice)
		dto.RegularPrice, dto.SalePrice = &regular, &sale
	}
	return dto
}

type attributesDTO struct {
	Attributes []attributeDTO `json:"attributes"`
}

func attributesFrom(attributes []catalog.Attribute) attributesDTO {
	dto := attributesDTO{Attributes: make([]attributeDTO, 0, len(attributes))}
	for _, a := range attributes {
		dto.Attributes = append(dto.Attributes, attributeDTO(a))
	}
	return dto
}

func (d productDTO) toProduct() *catalog.Product {
	p := &catalog.Product{
		ID:                d.ID,
		Name:              d.Name,
		Slug:              d.Slug,
		SKU:               d.SKU,
		Description:       d.Description,
		ShortDescription:  d.ShortDescription,
		Status:            d.Status,
		CatalogVisibility: d.CatalogVisibility,
		RegularPrice:      parsePrice(d.RegularPrice),
		Price:             parsePrice(d.Price),
		ManageStock:       d.ManageStock,
		StockStatus:       d.StockStatus,
		Backorders:        d.Backorders,
		ReviewsAllowed:    d.ReviewsAllowed,
		SoldIndividually:  d.SoldIndividually,
		Virtual:           d.Virtual,
		Downloadable:      d.Downloadable,
	}
	if d.StockQuantity != nil {
		p.StockQuantity = *d.StockQuantity
	}
	if p.Price == 0 {
		p.Price = p.RegularPrice
	}
	for _, c := range d.Categories {
		p.CategoryIDs = append(p.CategoryIDs, c.ID)
	}
	for i, img := range d.Images {
		if i == 0 {
			p.ImageID = img.ID
			continue
		}
		p.GalleryImageIDs = append(p.GalleryImageIDs, img.ID)
	}
	for _, a := range d.Attributes {
		p.Attributes = append(p.Attributes, catalog.Attribute(a))
	}
	for _, m := range d.MetaData {
		for _, key := range productMetaKeys {
			if m.Key == key {
				p.SetMeta(key, stringify(m.Value))
			}
		}
	}
	return p
}

type renderedDTO struct {
	Raw      string `json:"raw"`
	Rendered string `json:"rendered"`
}

type mediaDTO struct {
	ID        int         `json:"id"`
	Title     renderedDTO `json:"title"`
	SourceURL string      `json:"source_url"`
	MimeType  string      `json:"mime_type"`
}

func (m mediaDTO) toAttachment() catalog.Attachment {
	title := m.Title.Raw
	if title == "" {
		title = m.Title.Rendered
	}
	return catalog.Attachment{ID: m.ID, Title: title, URL: m.SourceURL, MimeType: m.MimeType}
}

func requireID(id int, what string) error {
	if id == 0 {
		return fmt.Errorf("%s: response without id", what)
	}
	return nil
}
