// Package query converts a filters.State into the request shape of the search API.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"car-listings-api/internal/filters"
	"car-listings-api/pkg/utils"
)

// SearchRequest is the JSON body of POST /search, /search/count and
// /dynamic-filter-options. Every field is omitted when unset: the API reads an
// absent field as "unconstrained" but an empty string as a literal filter.
type SearchRequest struct {
	Brand            *string  `json:"brand,omitempty"`
	Model            *string  `json:"model,omitempty"`
	Trim             *string  `json:"trim,omitempty"`
	MinYear          *int     `json:"min_year,omitempty"`
	MaxYear          *int     `json:"max_year,omitempty"`
	MinPrice         *float64 `json:"min_price,omitempty"`
	MaxPrice         *float64 `json:"max_price,omitempty"`
	LocationCity     *string  `json:"location_city,omitempty"`
	LocationRegion   *string  `json:"location_region,omitempty"`
	MinMileage       *int     `json:"min_mileage,omitempty"`
	MaxMileage       *int     `json:"max_mileage,omitempty"`
	IsNew            *bool    `json:"is_new,omitempty"`
	BodyType         *string  `json:"body_type,omitempty"`
	FuelType         *string  `json:"fuel_type,omitempty"`
	TransmissionType *string  `json:"transmission_type,omitempty"`
	Condition        *string  `json:"condition,omitempty"`
	SellerType       *string  `json:"seller_type,omitempty"`
	Color            *string  `json:"color,omitempty"`
	Website          *string  `json:"website,omitempty"`
	Websites         *string  `json:"websites,omitempty"`
	MinPostDate      *string  `json:"min_post_date,omitempty"`
	MaxPostDate      *string  `json:"max_post_date,omitempty"`
	Seller           *string  `json:"seller,omitempty"`
	SortBy           *string  `json:"sort_by,omitempty"`
}

// Window is a paginated search: the body plus the limit/offset query parameters.
type Window struct {
	Body   SearchRequest
	Limit  int
	Offset int
}

// Values renders the limit/offset query string of the window.
func (w Window) Values() url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(w.Limit))
	v.Set("offset", strconv.Itoa(w.Offset))
	return v
}

// Translate maps every set field of s onto its API name. Numeric text that
// does not parse is dropped rather than sent as zero, and so are a model or
// trim without its parents and an inverted post date range.
func Translate(s filters.State) SearchRequest {
	r := filterBody(s)
	if s.Sort.Valid() {
		r.SortBy = text(s.Sort.SortBy())
	}
	return r
}

// PageRequest is the windowed request for the page s points at.
func PageRequest(s filters.State, pageSize int) Window {
	return Window{
		Body:   Translate(s),
		Limit:  pageSize,
		Offset: s.Offset(pageSize),
	}
}

// CountRequest carries the same filters as PageRequest without sort or pagination,
// so the reported total always matches the page's filter set.
func CountRequest(s filters.State) SearchRequest {
	return filterBody(s)
}

// DynamicOptionsRequest asks for the options still available under s.
func DynamicOptionsRequest(s filters.State) SearchRequest {
	return filterBody(s)
}

// WebsitesParam is the comma-joined websites value used by analytics query
// strings. It is empty when no website is selected.
func WebsitesParam(s filters.State) string {
	return strings.Join(s.Websites, ",")
}

func filterBody(s filters.State) SearchRequest {
	s = filters.Sanitize(s)
	r := SearchRequest{
		Brand:            s.Brand,
		Model:            s.Model,
		Trim:             s.Trim,
		MinYear:          whole(s.MinYear),
		MaxYear:          whole(s.MaxYear),
		MinPrice:         amount(s.MinPrice),
		MaxPrice:         amount(s.MaxPrice),
		LocationCity:     s.LocationCity,
		LocationRegion:   s.LocationRegion,
		MinMileage:       whole(s.MinMileage),
		MaxMileage:       whole(s.MaxMileage),
		IsNew:            s.IsNew,
		BodyType:         s.BodyType,
		FuelType:         s.FuelType,
		TransmissionType: s.TransmissionType,
		Condition:        s.Condition,
		SellerType:       s.SellerType,
		Color:            s.Color,
		MinPostDate:      s.MinPostDate,
		MaxPostDate:      s.MaxPostDate,
		Seller:           s.Seller,
	}

	// website and websites never travel together; the multi-select wins.
	if len(s.Websites) > 0 {
		r.Websites = text(WebsitesParam(s))
	} else {
		r.Website = s.Website
	}
	return r
}

func whole(p *string) *int {
	if p == nil {
		return nil
	}
	v, ok := utils.ParseWhole(*p)
	if !ok {
		return nil
	}
	return &v
}

func amount(p *string) *float64 {
	if p == nil {
		return nil
	}
	v, ok := utils.ParseAmount(*p)
	if !ok {
		return nil
	}
	return &v
}

func text(v string) *string {
	return filters.StringPtr(v)
}
