package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"car-listings-api/internal/filters"
)

// Listing is one row of POST /search as returned by the listings API.
type Listing struct {
	ID               ID       `json:"id"`
	AdID             string   `json:"ad_id,omitempty"`
	Title            string   `json:"title"`
	Price            *float64 `json:"price,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	Brand            string   `json:"brand,omitempty"`
	Model            string   `json:"model,omitempty"`
	Trim             string   `json:"trim,omitempty"`
	Year             *int     `json:"year,omitempty"`
	Mileage          *int     `json:"mileage,omitempty"`
	LocationCity     string   `json:"location_city,omitempty"`
	LocationRegion   string   `json:"location_region,omitempty"`
	BodyType         string   `json:"body_type,omitempty"`
	FuelType         string   `json:"fuel_type,omitempty"`
	TransmissionType string   `json:"transmission_type,omitempty"`
	Condition        string   `json:"condition,omitempty"`
	Color            string   `json:"color,omitempty"`
	Seller           string   `json:"seller,omitempty"`
	SellerType       string   `json:"seller_type,omitempty"`
	Website          string   `json:"website,omitempty"`
	URL              string   `json:"url,omitempty"`
	ImageURLs        string   `json:"image_urls,omitempty"`
	PostDate         string   `json:"post_date,omitempty"`
}

// ID is a listing identifier. The API sends it as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Gallery splits the comma-separated image_urls column.
func (l Listing) Gallery() []string {
	var out []string
	for _, u := range strings.Split(l.ImageURLs, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// ListingCard is the presentation form of a Listing on a results page.
type ListingCard struct {
	Listing
	Thumbnail         string `json:"thumbnail,omitempty"`
	TransmissionLabel string `json:"transmission_label"`
	BodyTypeLabel     string `json:"body_type_label"`
}

// ListingDetail is the enhanced listing response: the listing plus
// whatever site-specific details the API could join.
type ListingDetail struct {
	Listing
	Description string            `json:"description,omitempty"`
	Details     map[string]any    `json:"details,omitempty"`
	Images      []string          `json:"images"`
	Labels      map[string]string `json:"labels,omitempty"`
	Enhanced    bool              `json:"enhanced"`
	Preview     bool              `json:"preview"`
}

// ListingsPage is one page of results for a filter state.
type ListingsPage struct {
	Listings   []ListingCard `json:"listings"`
	Total      *int          `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
	TotalPages *int          `json:"total_pages"`
	Filters    filters.State `json:"filters"`
	Query      string        `json:"query"`
	Sort       string        `json:"sort_label"`
	Duration   string        `json:"duration"`
	Cached     bool          `json:"cached"`
	CountError string        `json:"count_error,omitempty"`
}

// CountResponse is the body of POST /search/count.
type CountResponse struct {
	Total int `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
