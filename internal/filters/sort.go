package filters

import "strings"

// SortOption is a user-facing sort choice. Its value is what appears in the URL.
type SortOption string

const (
	SortNewlyListed     SortOption = "newly_listed"
	SortOldestListings  SortOption = "oldest_listings"
	SortLowestPrice     SortOption = "lowest_price"
	SortHighestPrice    SortOption = "highest_price"
	SortNewestModelYear SortOption = "newest_model_year"
	SortOldestModelYear SortOption = "oldest_model_year"
	SortVerifiedAccount SortOption = "verified_account"
	SortPriceAToZ       SortOption = "price_a_to_z"
	SortPriceZToA       SortOption = "price_z_to_a"
)

// DefaultSort is applied when the URL carries no sort.
const DefaultSort = SortNewlyListed

type sortEntry struct {
	option SortOption
	label  string
	sortBy string
}

var sortTable = []sortEntry{
	{SortNewlyListed, "Newly Listed", "post_date_desc"},
	{SortOldestListings, "Oldest Listings", "post_date_asc"},
	{SortLowestPrice, "Lowest Price", "price_asc"},
	{SortHighestPrice, "Highest Price", "price_desc"},
	{SortNewestModelYear, "Newest Model Year", "year_desc"},
	{SortOldestModelYear, "Oldest Model Year", "year_asc"},
	{SortVerifiedAccount, "Verified Account", "verified_seller"},
	{SortPriceAToZ, "Price A to Z", "price_asc"},
	{SortPriceZToA, "Price Z to A", "price_desc"},
}

func (o SortOption) entry() (sortEntry, bool) {
	for _, e := range sortTable {
		if e.option == o {
			return e, true
		}
	}
	return sortEntry{}, false
}

// Label is the text shown in the sort dropdown.
func (o SortOption) Label() string {
	e, _ := o.entry()
	return e.label
}

// SortBy is the value the search API expects in sort_by.
func (o SortOption) SortBy() string {
	e, _ := o.entry()
	return e.sortBy
}

// Valid reports whether o is one of the fixed options.
func (o SortOption) Valid() bool {
	_, ok := o.entry()
	return ok
}

// ParseSort accepts either the URL value or the label, case-insensitively.
func ParseSort(v string) (SortOption, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	for _, e := range sortTable {
		if strings.EqualFold(string(e.option), v) || strings.EqualFold(e.label, v) {
			return e.option, true
		}
	}
	return "", false
}

// SortChoice describes one option for rendering a dropdown.
type SortChoice struct {
	Value  SortOption `json:"value"`
	Label  string     `json:"label"`
	SortBy string     `json:"sort_by"`
}

// SortChoices lists the options in display order.
func SortChoices() []SortChoice {
	out := make([]SortChoice, 0, len(sortTable))
	for _, e := range sortTable {
		out = append(out, SortChoice{Value: e.option, Label: e.label, SortBy: e.sortBy})
	}
	return out
}
