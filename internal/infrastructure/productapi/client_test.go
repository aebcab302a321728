package productapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/otp-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `{
  "products": [
    {"id": 1, "title": "Essence Mascara", "category": "beauty", "price": 9.99,
     "discountPercentage": 7.17, "rating": 4.94, "stock": 5, "brand": "Essence",
     "tags": ["beauty", "mascara"], "reviews": [{"rating": 2, "comment": "meh", "reviewerName": "Jo"}]},
    {"id": 2, "title": "Apple", "category": "groceries", "price": 1.99, "rating": 4.1, "stock": 9}
  ],
  "total": 194, "skip": 0, "limit": 30
}`

func newTestClient(t *testing.T, cfg *config.Config, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg.ProductAPIURL = srv.URL + "/"
	if cfg.ProductAPITimeout == 0 {
		cfg.ProductAPITimeout = time.Second
	}
	return NewClient(cfg)
}

func TestFetchProducts_DecodesFirstPage(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, &config.Config{}, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePage))
	})

	page, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/products", gotPath)
	assert.Empty(t, gotQuery)
	assert.Equal(t, 194, page.Total)
	assert.Equal(t, 30, page.Limit)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Essence", page.Products[0].Brand)
	assert.Equal(t, 7.17, page.Products[0].DiscountPercentage)
	assert.Equal(t, []string{"beauty", "mascara"}, page.Products[0].Tags)
	assert.Equal(t, "Jo", page.Products[0].Reviews[0].ReviewerName)
	assert.Empty(t, page.Products[1].Brand)
}

func TestFetchProducts_EncodesPaging(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, &config.Config{ProductAPILimit: 100, ProductAPISkip: 10}, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"products":[],"total":0,"skip":10,"limit":100}`))
	})

	_, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "limit=100&skip=10", gotQuery)
}

func TestFetchProducts_EncodesSelect(t *testing.T) {
	var gotSelect, gotQuery string
	c := newTestClient(t, &config.Config{ProductAPILimit: 5, ProductAPISelect: "title,price,category"}, func(w http.ResponseWriter, r *http.Request) {
		gotSelect, gotQuery = r.URL.Query().Get("select"), r.URL.RawQuery
		_, _ = w.Write([]byte(`{"products":[],"total":0,"skip":0,"limit":5}`))
	})

	_, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "title,price,category", gotSelect)
	assert.Equal(t, "limit=5&select=title%2Cprice%2Ccategory", gotQuery)
}

func TestFetchProducts_Non2xx(t *testing.T) {
	c := newTestClient(t, &config.Config{}, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	_, err := c.FetchProducts(context.Background())
	assert.ErrorContains(t, err, "unexpected status 503")
}

func TestFetchProducts_BadJSON(t *testing.T) {
	c := newTestClient(t, &config.Config{}, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})

	_, err := c.FetchProducts(context.Background())
	assert.ErrorContains(t, err, "decode products")
}

func TestFetchProducts_Timeout(t *testing.T) {
	c := newTestClient(t, &config.Config{ProductAPITimeout: 20 * time.Millisecond}, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	_, err := c.FetchProducts(context.Background())
	assert.Error(t, err)
}
