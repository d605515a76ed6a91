package api

import (
	"context"

	"car-listings-api/internal/models"
	"car-listings-api/internal/query"
)

// Search returns one window of listings.
func (c *Client) Search(ctx context.Context, w query.Window) ([]models.Listing, error) {
	var out []models.Listing
	if err := c.post(ctx, "search", "/search", w.Values(), w.Body, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Listing{}
	}
	return out, nil
}

// Count returns the number of listings matching the filter body.
func (c *Client) Count(ctx context.Context, req query.SearchRequest) (int, error) {
	var out models.CountResponse
	if err := c.post(ctx, "search_count", "/search/count", nil, req, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// DynamicOptions returns the option lists still reachable under req.
func (c *Client) DynamicOptions(ctx context.Context, req query.SearchRequest) (models.DynamicOptions, error) {
	var out models.DynamicOptions
	if err := c.post(ctx, "dynamic_filter_options", "/dynamic-filter-options", nil, req, &out); err != nil {
		return models.DynamicOptions{}, err
	}
	return out, nil
}
