package api

import (
	"context"
	"net/url"
	"strconv"

	"car-listings-api/internal/models"
	"car-listings-api/internal/query"
)

// DepreciationQuery selects one make and model, optionally narrowed by trim and websites.
type DepreciationQuery struct {
	Make     string
	Model    string
	Trim     string
	Websites string
}

func (q DepreciationQuery) values() url.Values {
	v := url.Values{}
	v.Set("make", q.Make)
	v.Set("model", q.Model)
	setIf(v, "trim", q.Trim)
	setIf(v, "websites", q.Websites)
	return v
}

// PriceSpreadQuery selects one make, model and year.
type PriceSpreadQuery struct {
	Make     string
	Model    string
	Year     int
	Trim     string
	Websites string
}

func (q PriceSpreadQuery) values() url.Values {
	v := url.Values{}
	v.Set("make", q.Make)
	v.Set("model", q.Model)
	v.Set("year", strconv.Itoa(q.Year))
	setIf(v, "trim", q.Trim)
	setIf(v, "websites", q.Websites)
	return v
}

func (c *Client) Stats(ctx context.Context, websites string) (models.Stats, error) {
	v := url.Values{}
	setIf(v, "websites", websites)

	var out models.Stats
	if err := c.get(ctx, "analytics_stats", "/api/analytics/stats", v, &out); err != nil {
		return models.Stats{}, err
	}
	return out, nil
}

// Contributors lists the top contributors, optionally restricted to websites.
func (c *Client) Contributors(ctx context.Context, limit int, websites string) (models.ContributorsResponse, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	setIf(v, "websites", websites)

	var out models.ContributorsResponse
	if err := c.get(ctx, "analytics_contributors", "/api/analytics/contributors", v, &out); err != nil {
		return models.ContributorsResponse{}, err
	}
	return out, nil
}

// SearchContributors lists the top contributors among listings matching req.
func (c *Client) SearchContributors(ctx context.Context, limit int, req query.SearchRequest) (models.ContributorsResponse, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}

	var out models.ContributorsResponse
	if err := c.post(ctx, "analytics_contributors_search", "/api/analytics/contributors", v, req, &out); err != nil {
		return models.ContributorsResponse{}, err
	}
	return out, nil
}

func (c *Client) Contributor(ctx context.Context, id string) (models.ContributorDetail, error) {
	var out models.ContributorDetail
	if err := c.get(ctx, "analytics_contributor", "/api/analytics/contributor/"+segment(id), nil, &out); err != nil {
		return models.ContributorDetail{}, err
	}
	return out, nil
}

func (c *Client) Depreciation(ctx context.Context, q DepreciationQuery) (models.Depreciation, error) {
	var out models.Depreciation
	if err := c.get(ctx, "analytics_depreciation", "/api/analytics/depreciation", q.values(), &out); err != nil {
		return models.Depreciation{}, err
	}
	return out, nil
}

func (c *Client) PriceSpread(ctx context.Context, q PriceSpreadQuery) (models.PriceSpread, error) {
	var out models.PriceSpread
	if err := c.get(ctx, "analytics_price_spread", "/api/analytics/price-spread", q.values(), &out); err != nil {
		return models.PriceSpread{}, err
	}
	return out, nil
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
