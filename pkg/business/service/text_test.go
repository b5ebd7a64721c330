package service

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	ts := NewTextService()

	assert.Equal(t, "lg-split-system-09", ts.Slugify("LG Split  System 09"))
	assert.Equal(t, "ac-100", ts.Slugify("AC\t100!"))
	assert.Equal(t, "-", ts.Slugify("Кондиционер Тест"))
}

func TestNormalizeArticul(t *testing.T) {
	ts := NewTextService()

	assert.Equal(t, "A-1x00", ts.NormalizeArticul("A-1х00"))
	assert.Equal(t, "XX", ts.NormalizeArticul("XX"))
}

func TestDecodeEntities(t *testing.T) {
	assert.Equal(t, "<b>Tom & Jerry</b>", NewTextService().DecodeEntities("&lt;b&gt;Tom &amp; Jerry&lt;/b&gt;"))
}

func TestSanitizeFileName(t *testing.T) {
	ts := NewTextService()

	assert.Equal(t, "photo-1.jpg", ts.SanitizeFileName("photo 1.jpg"))
	assert.Equal(t, "a-b.png", ts.SanitizeFileName("a -- b.png"))
	assert.Equal(t, "image.jpg", ts.SanitizeFileName("(image).jpg"))
}

func TestBasicAuth(t *testing.T) {
	assert.Nil(t, NewBasicAuth("", "secret"))

	auth := NewBasicAuth("ck_1", "cs_2")
	require.NotNil(t, auth)

	req := httptest.NewRequest("GET", "/", nil)
	auth.SetApiKey(req)
	user, pass, ok := req.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "ck_1", user)
	assert.Equal(t, "cs_2", pass)
	assert.Equal(t, "Y2tfMTpjc18y", auth.GetApiKey())
}
