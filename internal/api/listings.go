package api

import (
	"context"

	"car-listings-api/internal/models"
)

// Listing fetches the plain listing record.
func (c *Client) Listing(ctx context.Context, id string) (models.Listing, error) {
	var out models.Listing
	if err := c.get(ctx, "listing", "/listings/"+segment(id), nil, &out); err != nil {
		return models.Listing{}, err
	}
	return out, nil
}

// EnhancedListing fetches the listing joined with its site-specific details.
func (c *Client) EnhancedListing(ctx context.Context, id string) (models.ListingDetail, error) {
	var out models.ListingDetail
	if err := c.get(ctx, "listing_enhanced", "/api/listings/"+segment(id)+"/enhanced", nil, &out); err != nil {
		return models.ListingDetail{}, err
	}
	out.Enhanced = true
	return out, nil
}
