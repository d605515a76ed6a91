package models

import (
	"strconv"

	"car-listings-api/internal/filters"
)

// ReferenceOptions holds the vocabularies used to populate the filter controls.
type ReferenceOptions struct {
	Makes             []string              `json:"makes"`
	Years             []int                 `json:"years"`
	Locations         []string              `json:"locations"`
	FuelTypes         []string              `json:"fuel_types"`
	BodyTypes         []string              `json:"body_types"`
	TransmissionTypes []string              `json:"transmission_types"`
	SellerTypes       []string              `json:"seller_types"`
	Colors            []string              `json:"colors"`
	Websites          []string              `json:"websites"`
	Sorts             []filters.SortChoice  `json:"sorts"`
	Labels            map[string]LabelValue `json:"labels,omitempty"`
}

// LabelValue pairs an API code with its display label.
type LabelValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DynamicOptions is the body of POST /dynamic-filter-options. A list missing
// from the response decodes to nil and means "no information".
type DynamicOptions struct {
	Brands            []string `json:"brands"`
	Models            []string `json:"models"`
	Trims             []string `json:"trims"`
	Years             []int    `json:"years"`
	LocationCities    []string `json:"location_cities"`
	LocationRegions   []string `json:"location_regions"`
	BodyTypes         []string `json:"body_types"`
	FuelTypes         []string `json:"fuel_types"`
	TransmissionTypes []string `json:"transmission_types"`
	Conditions        []string `json:"conditions"`
	SellerTypes       []string `json:"seller_types"`
	Colors            []string `json:"colors"`
	Websites          []string `json:"websites"`
}

// ByField maps each non-nil option list onto the filter field it constrains.
// Year lists bound a range rather than a selection and are not included.
func (o DynamicOptions) ByField() map[filters.Field][]string {
	out := make(map[filters.Field][]string)
	put := func(f filters.Field, v []string) {
		if v != nil {
			out[f] = v
		}
	}
	put(filters.FieldBrand, o.Brands)
	put(filters.FieldModel, o.Models)
	put(filters.FieldTrim, o.Trims)
	put(filters.FieldLocationCity, o.LocationCities)
	put(filters.FieldLocationRegion, o.LocationRegions)
	put(filters.FieldBodyType, o.BodyTypes)
	put(filters.FieldFuelType, o.FuelTypes)
	put(filters.FieldTransmissionType, o.TransmissionTypes)
	put(filters.FieldCondition, o.Conditions)
	put(filters.FieldSellerType, o.SellerTypes)
	put(filters.FieldColor, o.Colors)
	put(filters.FieldWebsite, o.Websites)
	return out
}

// YearStrings renders the year list for display.
func (o DynamicOptions) YearStrings() []string {
	if o.Years == nil {
		return nil
	}
	out := make([]string, 0, len(o.Years))
	for _, y := range o.Years {
		out = append(out, strconv.Itoa(y))
	}
	return out
}
