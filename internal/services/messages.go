package services

import (
	"errors"
	"fmt"
	"strings"

	"car-listings-api/internal/api"
)

// User-facing failure messages.
const (
	MsgListings      = "Error fetching listings. Please try again later."
	MsgListingDetail = "Error fetching listing details. Please try again later."
	MsgOptions       = "Failed to load filter options. Please try again later."
	MsgAnalytics     = "Failed to load analytics data. Please try again later."
	MsgContributor   = "Failed to load contributor data. Please try again later."
	MsgDepreciation  = "Failed to load depreciation analysis"
	MsgPriceSpread   = "Failed to load price spread analysis"
)

// ErrInsufficientYears is returned when a depreciation curve has fewer than two years.
var ErrInsufficientYears = errors.New("fewer than two years of data")

// DepreciationMessage explains a failed depreciation request. Too little data
// gets its own message rather than the generic one.
func DepreciationMessage(brand, model string, err error) string {
	if errors.Is(err, ErrInsufficientYears) || api.IsInsufficientData(err) {
		return fmt.Sprintf("Cannot calculate depreciation for %s %s. Only one year of data exists - need at least 2 years to show depreciation trends.", brand, model)
	}
	return MsgDepreciation
}

// PriceSpreadMessage explains a failed price spread request.
func PriceSpreadMessage(brand, model, trim string, year int, err error) string {
	if api.IsNotFound(err) {
		trimText := ""
		if t := strings.TrimSpace(trim); t != "" {
			trimText = " " + t
		}
		return fmt.Sprintf("No price spread data found for %s %s%s %d. Try a different trim or year.", brand, model, trimText, year)
	}
	return MsgPriceSpread
}
