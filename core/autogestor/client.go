package autogestor

import (
	"context"
	"fmt"
	"net/http"

	"autosync/core/transport"

	"go.uber.org/zap"
)

// Config holds the source feed settings.
type Config struct {
	// URL is the full GET endpoint of the inventory feed.
	URL string `mapstructure:"url" default:""`
}

// Client reads the vehicle feed.
type Client struct {
	url       string
	transport *transport.Client
	policy    transport.Policy
	logger    *zap.Logger
}

// NewClient creates a source client. maxAttempts overrides the transport
// policy ceiling for the feed fetch when positive.
func NewClient(cfg Config, t *transport.Client, maxAttempts int, logger *zap.Logger) *Client {
	p := t.Policy()
	if maxAttempts > 0 {
		p = p.WithMaxAttempts(maxAttempts)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{url: cfg.URL, transport: t, policy: p, logger: logger}
}

// FetchVehicles returns every vehicle in the feed, in feed order.
func (c *Client) FetchVehicles(ctx context.Context) ([]Vehicle, error) {
	if c.url == "" {
		return nil, fmt.Errorf("source url is not configured")
	}

	resp, err := c.transport.SendWithPolicy(ctx, transport.Request{Method: http.MethodGet, URL: c.url}, c.policy)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}

	var f feed
	if err := resp.DecodeJSON(&f); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}

	c.logger.Debug("Fetched source feed", zap.Int("vehicles", len(f.Vehicles)))
	if f.Vehicles == nil {
		return []Vehicle{}, nil
	}
	return f.Vehicles, nil
}
