package productapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/otp-dashboard/internal/config"
	"github.com/otp-dashboard/internal/domain"
)

// listParams are the paging knobs of GET /products. Zero values are omitted
// so the API's default page is used.
type listParams struct {
	Limit  int    `url:"limit,omitempty"`
	Skip   int    `url:"skip,omitempty"`
	Select string `url:"select,omitempty"`
}

// Client fetches products from a dummyjson-compatible API.
type Client struct {
	http    *http.Client
	baseURL string
	params  listParams
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.ProductAPITimeout},
		baseURL: strings.TrimRight(cfg.ProductAPIURL, "/"),
		params: listParams{
			Limit:  cfg.ProductAPILimit,
			Skip:   cfg.ProductAPISkip,
			Select: cfg.ProductAPISelect,
		},
	}
}

// FetchProducts performs a single GET for the first page. No retries.
func (c *Client) FetchProducts(ctx context.Context) (*domain.ProductPage, error) {
	u, err := c.productsURL()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build products request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch products: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var page domain.ProductPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return &page, nil
}

func (c *Client) productsURL() (string, error) {
	v, err := query.Values(c.params)
	if err != nil {
		return "", fmt.Errorf("encode products query: %w", err)
	}
	u := c.baseURL + "/products"
	if qs := v.Encode(); qs != "" {
		u += "?" + qs
	}
	return u, nil
}
