package woocommerce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"autosync/core/transport"

	"go.uber.org/zap"
)

// Config holds the catalog API settings.
type Config struct {
	// URL is the products endpoint (e.g. https://shop/wp-json/wc/v3/products).
	URL string `mapstructure:"url" default:""`
	// Key is the REST API consumer key.
	Key string `mapstructure:"key" default:""`
	// Secret is the REST API consumer secret.
	Secret string `mapstructure:"secret" default:""`
	// PerPage is the listing page size.
	PerPage int `mapstructure:"per_page" default:"100"`
}

// Client talks to the WooCommerce products resource.
type Client struct {
	baseURL   string
	perPage   int
	transport *transport.Client
	logger    *zap.Logger
}

// NewClient creates a catalog client. The transport must carry the basic-auth
// credentials (see transport.WithBasicAuth).
func NewClient(cfg Config, t *transport.Client, logger *zap.Logger) *Client {
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		perPage:   perPage,
		transport: t,
		logger:    logger,
	}
}

// ListPage fetches a single listing page (1-based).
func (c *Client) ListPage(ctx context.Context, page, perPage int) ([]Product, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var products []Product
	if err := c.get(ctx, c.baseURL, q, &products); err != nil {
		return nil, fmt.Errorf("failed to list products page %d: %w", page, err)
	}
	return products, nil
}

// ListAll walks every listing page and returns all products in fetch order.
func (c *Client) ListAll(ctx context.Context) ([]Product, error) {
	products, err := transport.FetchAllPages(ctx, func(ctx context.Context, page int) ([]Product, error) {
		return c.ListPage(ctx, page, c.perPage)
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Listed catalog", zap.Int("products", len(products)))
	return products, nil
}

// FindBySKU returns the products carrying the given SKU.
func (c *Client) FindBySKU(ctx context.Context, sku string) ([]Product, error) {
	q := url.Values{}
	q.Set("sku", sku)

	var products []Product
	if err := c.get(ctx, c.baseURL, q, &products); err != nil {
		return nil, fmt.Errorf("failed to look up sku %s: %w", sku, err)
	}
	return products, nil
}

// BatchCreate creates products in one batch call.
func (c *Client) BatchCreate(ctx context.Context, inputs []ProductInput) (BatchResult, error) {
	var resp batchResponse
	if err := c.post(ctx, c.baseURL+"/batch", batchRequest{Create: inputs}, &resp); err != nil {
		return BatchResult{}, fmt.Errorf("failed to create batch: %w", err)
	}
	return splitBatchItems(resp.Create), nil
}

// BatchUpdate updates products in one batch call. Every input must carry an ID.
func (c *Client) BatchUpdate(ctx context.Context, inputs []ProductInput) (BatchResult, error) {
	for _, in := range inputs {
		if in.ID == 0 {
			return BatchResult{}, fmt.Errorf("update input for sku %q has no id", in.SKU)
		}
	}
	var resp batchResponse
	if err := c.post(ctx, c.baseURL+"/batch", batchRequest{Update: inputs}, &resp); err != nil {
		return BatchResult{}, fmt.Errorf("failed to update batch: %w", err)
	}
	return splitBatchItems(resp.Update), nil
}

// ErrNotFound is returned by Delete when the product is already gone.
var ErrNotFound = errors.New("product not found")

// Delete permanently removes a product.
func (c *Client) Delete(ctx context.Context, id int) error {
	q := url.Values{}
	q.Set("force", "true")

	_, err := c.transport.Send(ctx, transport.Request{
		Method: http.MethodDelete,
		URL:    fmt.Sprintf("%s/%d", c.baseURL, id),
		Query:  q,
	})
	if err != nil {
		if transport.StatusCode(err) == http.StatusNotFound {
			return fmt.Errorf("failed to delete product %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, u string, q url.Values, out any) error {
	resp, err := c.transport.Send(ctx, transport.Request{Method: http.MethodGet, URL: u, Query: q})
	if err != nil {
		return err
	}
	return resp.DecodeJSON(out)
}

func (c *Client) post(ctx context.Context, u string, body, out any) error {
	resp, err := c.transport.Send(ctx, transport.Request{Method: http.MethodPost, URL: u, Body: body})
	if err != nil {
		return err
	}
	return resp.DecodeJSON(out)
}
