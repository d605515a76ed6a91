package filters

import (
	"reflect"
	"strings"
)

// Field names a single filter control. The value doubles as the URL query key.
type Field string

const (
	FieldBrand             Field = "brand"
	FieldModel             Field = "model"
	FieldTrim              Field = "trim"
	FieldMinYear           Field = "minYear"
	FieldMaxYear           Field = "maxYear"
	FieldMinPrice          Field = "minPrice"
	FieldMaxPrice          Field = "maxPrice"
	FieldLocationCity      Field = "locationCity"
	FieldLocationRegion    Field = "locationRegion"
	FieldMinMileage        Field = "minMileage"
	FieldMaxMileage        Field = "maxMileage"
	FieldIsNew             Field = "isNew"
	FieldBodyType          Field = "bodyType"
	FieldFuelType          Field = "fuelType"
	FieldTransmissionType  Field = "transmissionType"
	FieldCondition         Field = "condition"
	FieldSellerType        Field = "sellerType"
	FieldColor             Field = "color"
	FieldWebsite           Field = "website"
	FieldMinPostDate       Field = "minPostDate"
	FieldMaxPostDate       Field = "maxPostDate"
	FieldSeller            Field = "seller"
	FieldSellerDisplayName Field = "sellerDisplayName"
	FieldSort              Field = "sort"
	FieldPage              Field = "page"
)

// keys is the fixed URL key order.
var keys = []Field{
	FieldBrand, FieldModel, FieldTrim,
	FieldMinYear, FieldMaxYear, FieldMinPrice, FieldMaxPrice,
	FieldLocationCity, FieldLocationRegion,
	FieldMinMileage, FieldMaxMileage,
	FieldIsNew,
	FieldBodyType, FieldFuelType, FieldTransmissionType, FieldCondition,
	FieldSellerType, FieldColor, FieldWebsite,
	FieldMinPostDate, FieldMaxPostDate,
	FieldSeller, FieldSellerDisplayName,
	FieldSort, FieldPage,
}

// Keys returns every URL query key in its canonical order.
func Keys() []Field {
	out := make([]Field, len(keys))
	copy(out, keys)
	return out
}

// IsText reports whether f is stored as optional text on State.
func (f Field) IsText() bool {
	switch f {
	case FieldIsNew, FieldSort, FieldPage:
		return false
	}
	var s State
	return s.slot(f) != nil
}

func (f Field) String() string {
	return string(f)
}

// State is the user's current search constraints, sort order and page.
// A nil pointer (or nil Websites) is the only representation of "no constraint".
// Numeric fields keep the text the user typed; they become numbers in the query package.
type State struct {
	Brand             *string    `json:"brand,omitempty"`
	Model             *string    `json:"model,omitempty"`
	Trim              *string    `json:"trim,omitempty"`
	MinYear           *string    `json:"minYear,omitempty"`
	MaxYear           *string    `json:"maxYear,omitempty"`
	MinPrice          *string    `json:"minPrice,omitempty"`
	MaxPrice          *string    `json:"maxPrice,omitempty"`
	LocationCity      *string    `json:"locationCity,omitempty"`
	LocationRegion    *string    `json:"locationRegion,omitempty"`
	MinMileage        *string    `json:"minMileage,omitempty"`
	MaxMileage        *string    `json:"maxMileage,omitempty"`
	IsNew             *bool      `json:"isNew,omitempty"`
	BodyType          *string    `json:"bodyType,omitempty"`
	FuelType          *string    `json:"fuelType,omitempty"`
	TransmissionType  *string    `json:"transmissionType,omitempty"`
	Condition         *string    `json:"condition,omitempty"`
	SellerType        *string    `json:"sellerType,omitempty"`
	Color             *string    `json:"color,omitempty"`
	Website           *string    `json:"website,omitempty"`
	MinPostDate       *string    `json:"minPostDate,omitempty"`
	MaxPostDate       *string    `json:"maxPostDate,omitempty"`
	Seller            *string    `json:"seller,omitempty"`
	SellerDisplayName *string    `json:"sellerDisplayName,omitempty"`
	Websites          []string   `json:"websites,omitempty"`
	Sort              SortOption `json:"sort"`
	Page              int        `json:"page"`
}

// New returns an empty state on the first page with the default sort.
func New() State {
	return State{Sort: DefaultSort, Page: 1}
}

func (s *State) slot(f Field) **string {
	switch f {
	case FieldBrand:
		return &s.Brand
	case FieldModel:
		return &s.Model
	case FieldTrim:
		return &s.Trim
	case FieldMinYear:
		return &s.MinYear
	case FieldMaxYear:
		return &s.MaxYear
	case FieldMinPrice:
		return &s.MinPrice
	case FieldMaxPrice:
		return &s.MaxPrice
	case FieldLocationCity:
		return &s.LocationCity
	case FieldLocationRegion:
		return &s.LocationRegion
	case FieldMinMileage:
		return &s.MinMileage
	case FieldMaxMileage:
		return &s.MaxMileage
	case FieldBodyType:
		return &s.BodyType
	case FieldFuelType:
		return &s.FuelType
	case FieldTransmissionType:
		return &s.TransmissionType
	case FieldCondition:
		return &s.Condition
	case FieldSellerType:
		return &s.SellerType
	case FieldColor:
		return &s.Color
	case FieldWebsite:
		return &s.Website
	case FieldMinPostDate:
		return &s.MinPostDate
	case FieldMaxPostDate:
		return &s.MaxPostDate
	case FieldSeller:
		return &s.Seller
	case FieldSellerDisplayName:
		return &s.SellerDisplayName
	}
	return nil
}

// Text returns the value of a text field and whether it is set.
func (s State) Text(f Field) (string, bool) {
	p := s.slot(f)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// setText stores v on a text field, normalizing blanks to unset.
func (s *State) setText(f Field, v string) bool {
	p := s.slot(f)
	if p == nil {
		return false
	}
	*p = normalize(v)
	return true
}

// WithText returns a copy of s with one text field replaced, bypassing the
// invariants enforced by Apply. Decode uses it and then runs Sanitize.
func (s State) WithText(f Field, v string) State {
	s.setText(f, v)
	return s
}

// Clone returns a copy that shares no mutable memory with s.
func (s State) Clone() State {
	out := s
	if s.Websites != nil {
		out.Websites = append([]string(nil), s.Websites...)
	}
	return out
}

// Offset converts the 1-based page into a 0-based row offset.
func (s State) Offset(pageSize int) int {
	if s.Page < 1 || pageSize < 1 {
		return 0
	}
	return (s.Page - 1) * pageSize
}

// PageFromOffset is the inverse of State.Offset.
func PageFromOffset(offset, pageSize int) int {
	if offset < 0 || pageSize < 1 {
		return 1
	}
	return offset/pageSize + 1
}

// IsEmpty reports whether no filter is set. Sort and page are ignored.
func (s State) IsEmpty() bool {
	return sameFilters(s, New())
}

// Equal reports whether a and b hold the same filters, sort and page.
func Equal(a, b State) bool {
	return a.Sort == b.Sort && a.Page == b.Page && sameFilters(a, b)
}

// sameFilters compares the filter fields, ignoring sort and page.
func sameFilters(a, b State) bool {
	a.Page, b.Page = 0, 0
	a.Sort, b.Sort = "", ""
	if len(a.Websites) == 0 {
		a.Websites = nil
	}
	if len(b.Websites) == 0 {
		b.Websites = nil
	}
	return reflect.DeepEqual(a, b)
}

func normalize(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// StringPtr is a helper for building states in code.
func StringPtr(v string) *string {
	return normalize(v)
}

// BoolPtr is a helper for building states in code.
func BoolPtr(v bool) *bool {
	return &v
}
