package catalog

import "strconv"

type Term struct {
	ID     int
	Name   string
	Slug   string
	Parent int
	Meta   map[string]string
}

func (t *Term) MetaValue(key string) string {
	if t.Meta == nil {
		return ""
	}
	return t.Meta[key]
}

func (t *Term) SetMeta(key, value string) {
	if t.Meta == nil {
		t.Meta = make(map[string]string)
	}
	t.Meta[key] = value
}

type Attribute struct {
	Name      string
	Options   []string
	Position  int
	Visible   bool
	Variation bool
}

type Product struct {
	ID                int
	Name              string
	Slug              string
	SKU               string
	Description       string
	ShortDescription  string
	Status            string
	CatalogVisibility string

	Price        float64
	RegularPrice float64

	ManageStock   bool
	StockQuantity int
	StockStatus   string
	Backorders    string

	ReviewsAllowed   bool
	SoldIndividually bool
	Virtual          bool
	Downloadable     bool

	CategoryIDs     []int
	ImageID         int
	GalleryImageIDs []int
	Attributes      []Attribute
	Meta            map[string]string
}

func (p *Product) MetaValue(key string) string {
	if p.Meta == nil {
		return ""
	}
	return p.Meta[key]
}

func (p *Product) SetMeta(key, value string) {
	if p.Meta == nil {
		p.Meta = make(map[string]string)
	}
	p.Meta[key] = value
}

// RemoteID - идентификатор товара в фиде Breez, 0 если не задан.
func (p *Product) RemoteID() int {
	id, err := strconv.Atoi(p.MetaValue(MetaProductID))
	if err != nil {
		return 0
	}
	return id
}

// Clone нужен хранилищам, отдающим товары наружу без общих срезов и карт.
func (p *Product) Clone() *Product {
	c := *p
	c.CategoryIDs = append([]int(nil), p.CategoryIDs...)
	c.GalleryImageIDs = append([]int(nil), p.GalleryImageIDs...)
	if p.Attributes != nil {
		c.Attributes = make([]Attribute, len(p.Attributes))
		for i, a := range p.Attributes {
			a.Options = append([]string(nil), a.Options...)
			c.Attributes[i] = a
		}
	}
	if p.Meta != nil {
		c.Meta = make(map[string]string, len(p.Meta))
		for k, v := range p.Meta {
			c.Meta[k] = v
		}
	}
	return &c
}

type Attachment struct {
	ID       int
	Title    string
	URL      string
	MimeType string
}

// Upload - файл для медиатеки. Title совпадает с именем файла.
type Upload struct {
	FileName string
	Title    string
	MimeType string
	Data     []byte
}

// StockUpdate - изменения товара от синхронизации остатков.
// Пустой Status и нулевой Price означают "не менять".
type StockUpdate struct {
	ProductID     int
	Status        string
	Price         float64
	RegularPrice  float64
	StockQuantity int
	StockStatus   string
}
