package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedKeepsDocumentOrder(t *testing.T) {
	raw := `{"30":{"title":"C","chpu":"c"},"4":{"title":"A","chpu":"a"},"17":{"title":"B","chpu":"b"}}`

	var entries Ordered[Category]
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))

	categories := CategoriesFrom(entries)
	require.Len(t, categories, 3)
	assert.Equal(t, []FlexInt{30, 4, 17}, []FlexInt{categories[0].ID, categories[1].ID, categories[2].ID})
	assert.Equal(t, "a", categories[1].Slug)
}

func TestOrderedAcceptsEmptyArrayAndNull(t *testing.T) {
	var entries Ordered[Brand]
	require.NoError(t, json.Unmarshal([]byte(`[]`), &entries))
	assert.Empty(t, entries)

	require.NoError(t, json.Unmarshal([]byte(`null`), &entries))
	assert.Nil(t, entries)
}

func TestOrderedArrayUsesInlineID(t *testing.T) {
	var entries Ordered[Product]
	require.NoError(t, json.Unmarshal([]byte(`[{"id":7,"articul":"X"}]`), &entries))

	products := ProductsFrom(entries)
	require.Len(t, products, 1)
	assert.EqualValues(t, 7, products[0].ID)
}

func TestOrderedInlineIDAsString(t *testing.T) {
	var entries Ordered[Brand]
	require.NoError(t, json.Unmarshal([]byte(`{"x":{"id":"12","title":"LG","chpu":"lg"}}`), &entries))

	brands := BrandsFrom(entries)
	require.Len(t, brands, 1)
	assert.Equal(t, FlexInt(12), brands[0].ID)
}

func TestOrderedRejectsScalar(t *testing.T) {
	var entries Ordered[Brand]
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &entries))
}

func TestFlexNumbers(t *testing.T) {
	var p Product
	raw := `{"price":{"ric":"1 200,50","rrc":null},"category_id":"12","brand":""}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.InDelta(t, 1200.5, float64(p.Price.RIC), 0.001)
	assert.Zero(t, p.Price.RRC)
	assert.Equal(t, FlexInt(12), p.CategoryID)
	assert.Zero(t, p.BrandID)

	var s Stock
	require.NoError(t, json.Unmarshal([]byte(`{"articul":"A","quantity":">10","price":{"base":99}}`), &s))
	assert.Equal(t, FlexInt(10), s.Quantity)
	assert.InDelta(t, 99.0, float64(s.Price.Base), 0.001)

	var bad FlexFloat
	assert.Error(t, json.Unmarshal([]byte(`{}`), &bad))
}
