package web

import (
	"bytes"
	"testing"
	"time"

	"farm-catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_EveryPageRenders(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	price := 8000.0
	product := models.Product{
		ID:       1,
		Name:     "Dorper Ram A",
		Category: models.CategoryRam,
		Price:    &price,
		IsActive: true,
		Media:    []models.Media{{ID: 1, MediaType: models.MediaImage, FilePath: "uploads/videos/a.jpg"}},
	}
	base := func(extra map[string]any) map[string]any {
		data := map[string]any{"WhatsAppNumber": "264811234567", "CSRFField": "", "Email": ""}
		for k, v := range extra {
			data[k] = v
		}
		return data
	}

	pages := map[string]map[string]any{
		"home.html":              base(map[string]any{"Rams": []models.Product{product}, "Beans": nil}),
		"product_detail.html":    base(map[string]any{"Product": &product}),
		"not_found.html":         base(nil),
		"error.html":             base(nil),
		"admin/login.html":       base(map[string]any{"Error": "Invalid credentials"}),
		"admin/dashboard.html":   base(map[string]any{"ProductsCount": 1, "InquiriesCount": 2, "NewInquiries": 1}),
		"admin/products.html":    base(map[string]any{"Products": []models.Product{product}}),
		"admin/new_product.html": base(map[string]any{"Form": struct{ Name, Description, Category, Price string }{Category: "ram"}}),
		"admin/inquiries.html":   base(map[string]any{"Inquiries": []models.Inquiry{{ID: 1, Name: "Ann", CreatedAt: time.Now()}}}),
		"admin/analytics.html":   base(map[string]any{"Events": []models.AnalyticsEvent{{EventName: "page_view", Metadata: "null"}}}),
	}
	for name, data := range pages {
		var buf bytes.Buffer
		require.NoError(t, tmpl.ExecuteTemplate(&buf, name, data), name)
		assert.Contains(t, buf.String(), "264811234567", name)
	}
}

func TestFuncs(t *testing.T) {
	price := Funcs["price"].(func(*float64) string)
	p := 950.0
	assert.Equal(t, "N$ 950.00", price(&p))
	assert.Equal(t, "Price on request", price(nil))
	assert.Equal(t, "/static/uploads/videos/a.mp4", Funcs["static"].(func(string) string)("uploads/videos/a.mp4"))
}
