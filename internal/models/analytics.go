package models

// Stats is the body of GET /api/analytics/stats.
type Stats struct {
	TotalListings     int            `json:"total_listings"`
	ListingsThisMonth int            `json:"listings_this_month"`
	AppliedFilters    AppliedFilters `json:"applied_filters"`
}

type AppliedFilters struct {
	Websites []string `json:"websites"`
}

// Contributor is a seller or agency aggregated by the analytics API.
type Contributor struct {
	SellerName      string  `json:"seller_name"`
	SellerID        string  `json:"seller_id"`
	AgencyName      *string `json:"agency_name,omitempty"`
	Website         string  `json:"website,omitempty"`
	TotalListings   int     `json:"total_listings"`
	ContributorType string  `json:"contributor_type"`

	// Share is the percentage of the filtered listings this contributor holds.
	Share float64 `json:"share"`
	// Link is the listings URL filtered to this contributor.
	Link string `json:"link,omitempty"`
}

// ContributorsResponse is the body of GET /api/analytics/contributors.
type ContributorsResponse struct {
	Contributors []Contributor `json:"contributors"`
	TotalCount   int           `json:"total_count"`
	// TotalListings counts listings under the same filters as Contributors,
	// when available. Contributor shares are of this total.
	TotalListings int `json:"total_listings,omitempty"`
}

type ContributorSummary struct {
	SellerName       string   `json:"seller_name"`
	SellerID         string   `json:"seller_id"`
	AgencyID         string   `json:"agency_id,omitempty"`
	ContributorType  string   `json:"contributor_type"`
	TotalListings    int      `json:"total_listings"`
	AveragePrice     *float64 `json:"average_price,omitempty"`
	TotalValue       *float64 `json:"total_value,omitempty"`
	FirstListingDate string   `json:"first_listing_date,omitempty"`
	LastListingDate  string   `json:"last_listing_date,omitempty"`
}

type DailyCount struct {
	Day           string   `json:"day"`
	ListingsCount int      `json:"listings_count"`
	AvgPrice      *float64 `json:"avg_price,omitempty"`
}

type BrandCount struct {
	Brand string  `json:"brand"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// ContributorDetail is the body of GET /api/analytics/contributor/{id}.
type ContributorDetail struct {
	Contributor       ContributorSummary `json:"contributor"`
	DailyDistribution []DailyCount       `json:"daily_distribution"`
	BrandDistribution []BrandCount       `json:"brand_distribution"`

	AveragePerDay float64 `json:"average_per_day"`
	Link          string  `json:"link,omitempty"`
}

type YearlyPrice struct {
	Year         int     `json:"year"`
	AveragePrice float64 `json:"average_price"`
	ListingCount int     `json:"listing_count"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
}

// Depreciation is the body of GET /api/analytics/depreciation.
type Depreciation struct {
	Make                        string        `json:"make"`
	Model                       string        `json:"model"`
	Trim                        *string       `json:"trim"`
	YearlyData                  []YearlyPrice `json:"yearly_data"`
	CurrentAvgPrice             float64       `json:"current_avg_price"`
	HighestAvgPrice             float64       `json:"highest_avg_price"`
	TotalDepreciationPercentage float64       `json:"total_depreciation_percentage"`
	AnnualDepreciationRate      float64       `json:"annual_depreciation_rate"`
	AnalysisPeriod              string        `json:"analysis_period"`
	DataPoints                  int           `json:"data_points"`

	// NewestFirst is YearlyData ordered by descending year for tables.
	NewestFirst []YearlyPrice `json:"newest_first,omitempty"`
}

type SpreadListing struct {
	AdID         string  `json:"ad_id"`
	URL          string  `json:"url,omitempty"`
	Title        string  `json:"title,omitempty"`
	Price        float64 `json:"price"`
	Mileage      *int    `json:"mileage,omitempty"`
	LocationCity string  `json:"location_city,omitempty"`
	Seller       string  `json:"seller,omitempty"`
	PostDate     string  `json:"post_date,omitempty"`
}

// PriceSpread is the body of GET /api/analytics/price-spread.
type PriceSpread struct {
	Make                   string          `json:"make"`
	Model                  string          `json:"model"`
	Trim                   *string         `json:"trim"`
	Year                   int             `json:"year"`
	TotalListings          int             `json:"total_listings"`
	Listings               []SpreadListing `json:"listings"`
	AveragePrice           float64         `json:"average_price"`
	MedianPrice            float64         `json:"median_price"`
	MinPrice               float64         `json:"min_price"`
	MaxPrice               float64         `json:"max_price"`
	StandardDeviation      float64         `json:"standard_deviation"`
	CoefficientOfVariation float64         `json:"coefficient_of_variation"`

	Points   []SpreadPoint `json:"points,omitempty"`
	Outliers int           `json:"outliers"`
}

// SpreadPoint is one listing on the price spread chart.
type SpreadPoint struct {
	Index   int           `json:"x"`
	Price   float64       `json:"y"`
	Outlier bool          `json:"outlier"`
	Listing SpreadListing `json:"listing"`
}
