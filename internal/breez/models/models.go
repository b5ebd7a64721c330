package models

import "strconv"

type Category struct {
	ID       FlexInt `json:"id"`
	Title    string  `json:"title"`
	Slug     string  `json:"chpu"`
	Level    FlexInt `json:"level"`
	ParentID FlexInt `json:"parent_id"`
}

type Brand struct {
	ID    FlexInt `json:"id"`
	Title string  `json:"title"`
	Slug  string  `json:"chpu"`
	Image string  `json:"image"`
}

type ProductPrice struct {
	RIC FlexFloat `json:"ric"`
	RRC FlexFloat `json:"rrc"`
}

type Product struct {
	ID          FlexInt      `json:"id"`
	Articul     string       `json:"articul"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	UTP         string       `json:"utp"`
	Price       ProductPrice `json:"price"`
	CategoryID  FlexInt      `json:"category_id"`
	BrandID     FlexInt      `json:"brand"`
	Images      []string     `json:"images"`
}

type StockPrice struct {
	Base FlexFloat `json:"base"`
	RIC  FlexFloat `json:"ric"`
}

type Stock struct {
	Articul  string     `json:"articul"`
	Quantity FlexInt    `json:"quantity"`
	Price    StockPrice `json:"price"`
}

type Tech struct {
	Title string  `json:"title"`
	Value string  `json:"value"`
	Order FlexInt `json:"order"`
}

type TechSet struct {
	Techs []Tech `json:"techs"`
}

// Идентификатор записи фида - ключ объекта; поле id внутри записи есть не всегда.
func resolveID(key string, current FlexInt) FlexInt {
	if current != 0 {
		return current
	}
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0
	}
	return FlexInt(id)
}

func CategoriesFrom(entries Ordered[Category]) []Category {
	out := make([]Category, 0, len(entries))
	for _, e := range entries {
		c := e.Value
		c.ID = resolveID(e.Key, c.ID)
		out = append(out, c)
	}
	return out
}

func BrandsFrom(entries Ordered[Brand]) []Brand {
	out := make([]Brand, 0, len(entries))
	for _, e := range entries {
		b := e.Value
		b.ID = resolveID(e.Key, b.ID)
		out = append(out, b)
	}
	return out
}

func ProductsFrom(entries Ordered[Product]) []Product {
	out := make([]Product, 0, len(entries))
	for _, e := range entries {
		p := e.Value
		p.ID = resolveID(e.Key, p.ID)
		out = append(out, p)
	}
	return out
}
