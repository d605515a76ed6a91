package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"car-listings-api/internal/api"
	"car-listings-api/internal/filters"
	"car-listings-api/internal/models"
	"car-listings-api/internal/query"
	"car-listings-api/internal/services"
	"car-listings-api/internal/urlcodec"
)

func TestDepreciationMessages(t *testing.T) {
	insufficient := &api.StatusError{Endpoint: "analytics_depreciation", StatusCode: 400, Detail: "Insufficient data"}

	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "api reports insufficient data",
			err:  insufficient,
			want: "Cannot calculate depreciation for Toyota Supra. Only one year of data exists - need at least 2 years to show depreciation trends.",
		},
		{
			name: "single year returned",
			err:  services.ErrInsufficientYears,
			want: "Cannot calculate depreciation for Toyota Supra. Only one year of data exists - need at least 2 years to show depreciation trends.",
		},
		{
			name: "anything else",
			err:  &api.StatusError{Endpoint: "analytics_depreciation", StatusCode: 500},
			want: services.MsgDepreciation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, services.DepreciationMessage("Toyota", "Supra", tc.err))
		})
	}
}

func TestPriceSpreadMessage(t *testing.T) {
	notFound := &api.StatusError{StatusCode: 404}

	assert.Equal(t, "No price spread data found for Kia Rio LX 2019. Try a different trim or year.",
		services.PriceSpreadMessage("Kia", "Rio", "LX", 2019, notFound))
	assert.Equal(t, "No price spread data found for Kia Rio 2019. Try a different trim or year.",
		services.PriceSpreadMessage("Kia", "Rio", "", 2019, notFound))
	assert.Equal(t, services.MsgPriceSpread,
		services.PriceSpreadMessage("Kia", "Rio", "", 2019, api.ErrTransport))
}

func TestDepreciation(t *testing.T) {
	t.Run("newest first copy", func(t *testing.T) {
		fake := &fakeAPI{
			depreciation: func(q api.DepreciationQuery) (models.Depreciation, error) {
				return models.Depreciation{
					Make:  q.Make,
					Model: q.Model,
					YearlyData: []models.YearlyPrice{
						{Year: 2018, AveragePrice: 60000},
						{Year: 2020, AveragePrice: 80000},
						{Year: 2019, AveragePrice: 70000},
					},
				}, nil
			},
		}
		svc := services.NewAnalyticsService(fake, nil, zap.NewNop())

		out, err := svc.Depreciation(context.Background(), api.DepreciationQuery{Make: "Mazda", Model: "CX-5"})
		require.NoError(t, err)
		assert.Equal(t, 2018, out.YearlyData[0].Year, "api order is kept")
		require.Len(t, out.NewestFirst, 3)
		assert.Equal(t, []int{2020, 2019, 2018}, []int{out.NewestFirst[0].Year, out.NewestFirst[1].Year, out.NewestFirst[2].Year})
	})

	t.Run("one year is not a curve", func(t *testing.T) {
		fake := &fakeAPI{
			depreciation: func(api.DepreciationQuery) (models.Depreciation, error) {
				return models.Depreciation{YearlyData: []models.YearlyPrice{{Year: 2022}}}, nil
			},
		}
		svc := services.NewAnalyticsService(fake, nil, zap.NewNop())

		_, err := svc.Depreciation(context.Background(), api.DepreciationQuery{Make: "Mazda", Model: "CX-5"})
		assert.ErrorIs(t, err, services.ErrInsufficientYears)
	})

	t.Run("api 400", func(t *testing.T) {
		fake := &fakeAPI{
			depreciation: func(api.DepreciationQuery) (models.Depreciation, error) {
				return models.Depreciation{}, &api.StatusError{StatusCode: 400}
			},
		}
		svc := services.NewAnalyticsService(fake, nil, zap.NewNop())

		_, err := svc.Depreciation(context.Background(), api.DepreciationQuery{Make: "Mazda", Model: "CX-5"})
		require.Error(t, err)
		assert.Contains(t, services.DepreciationMessage("Mazda", "CX-5", err), "need at least 2 years")
	})
}

func TestIsOutlier(t *testing.T) {
	cases := []struct {
		name   string
		price  float64
		mean   float64
		stddev float64
		want   bool
	}{
		{name: "inside band", price: 110, mean: 100, stddev: 10, want: false},
		{name: "exactly two deviations", price: 120, mean: 100, stddev: 10, want: false},
		{name: "above band", price: 121, mean: 100, stddev: 10, want: true},
		{name: "below band", price: 70, mean: 100, stddev: 10, want: true},
		{name: "no spread", price: 500, mean: 100, stddev: 0, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, services.IsOutlier(tc.price, tc.mean, tc.stddev))
		})
	}
}

func TestPriceSpread(t *testing.T) {
	fake := &fakeAPI{
		priceSpread: func(q api.PriceSpreadQuery) (models.PriceSpread, error) {
			return models.PriceSpread{
				Make:              q.Make,
				Year:              q.Year,
				AveragePrice:      100000,
				StandardDeviation: 10000,
				Listings: []models.SpreadListing{
					{AdID: "a", Price: 95000},
					{AdID: "b", Price: 150000},
					{AdID: "c", Price: 104000},
				},
			}, nil
		},
	}
	svc := services.NewAnalyticsService(fake, nil, zap.NewNop())

	out, err := svc.PriceSpread(context.Background(), api.PriceSpreadQuery{Make: "Lexus", Model: "ES", Year: 2021})
	require.NoError(t, err)
	require.Len(t, out.Points, 3)
	assert.Equal(t, 1, out.Outliers)
	assert.Equal(t, 1, out.Points[0].Index)
	assert.True(t, out.Points[1].Outlier)
	assert.Equal(t, "b", out.Points[1].Listing.AdID)
	assert.Equal(t, 150000.0, out.Points[1].Price)
}

func TestContributors(t *testing.T) {
	contributors := models.ContributorsResponse{
		Contributors: []models.Contributor{
			{SellerName: "Al Jazira Motors", SellerID: "agency-1", TotalListings: 50, ContributorType: "agency"},
			{SellerName: "Fahad", SellerID: "u-9", TotalListings: 25, ContributorType: "individual"},
		},
	}
	stats := func(string) (models.Stats, error) {
		return models.Stats{TotalListings: 200}, nil
	}

	t.Run("websites only uses the query endpoint", func(t *testing.T) {
		var gotWebsites string
		fake := &fakeAPI{
			stats: stats,
			contributors: func(limit int, websites string) (models.ContributorsResponse, error) {
				assert.Equal(t, services.DefaultContributorLimit, limit)
				gotWebsites = websites
				return contributors, nil
			},
		}
		svc := services.NewAnalyticsService(fake, nil, zap.NewNop())

		websites := []string{"syarah", "dubizzle"}
		st, err := filters.Apply(filters.New(), filters.Edit{Websites: &websites})
		require.NoError(t, err)

		out, err := svc.Contributors(context.Background(), st, 0)
		require.NoError(t, err)
		assert.Equal(t, "syarah,dubizzle", gotWebsites)
		assert.Zero(t, fake.called("search_contributors"))

		assert.Equal(t, 2, out.TotalCount)
		assert.Equal(t, 200, out.TotalListings)
		assert.Equal(t, 25.0, out.Contributors[0].Share)
		assert.Equal(t, 12.5, out.Contributors[1].Share)
		assert.Equal(t, "/?sellerType=business&seller=agency-1&sellerDisplayName=Al+Jazira+Motors", out.Contributors[0].Link)
		assert.Equal(t, "/?sellerType=individual&seller=u-9&sellerDisplayName=Fahad", out.Contributors[1].Link)
	})

	t.Run("other filters post the filter body", func(t *testing.T) {
		var got, counted query.SearchRequest
		fake := &fakeAPI{
			stats: stats,
			searchContrs: func(limit int, req query.SearchRequest) (models.ContributorsResponse, error) {
				assert.Equal(t, 5, limit)
				got = req
				return contributors, nil
			},
			count: func(req query.SearchRequest) (int, error) {
				counted = req
				return 100, nil
			},
		}
		svc := services.NewAnalyticsService(fake, nil, zap.NewNop())

		st := urlcodec.DecodeString("brand=Toyota&sort=lowest_price")
		out, err := svc.Contributors(context.Background(), st, 5)
		require.NoError(t, err)
		assert.Equal(t, query.CountRequest(st), got)
		assert.Equal(t, got, counted, "shares are of the same filtered set")
		assert.Zero(t, fake.called("stats"), "the website-only total would overstate the denominator")

		assert.Equal(t, 100, out.TotalListings)
		assert.Equal(t, 50.0, out.Contributors[0].Share)
		assert.Equal(t, 25.0, out.Contributors[1].Share)
	})

	t.Run("no total, no share", func(t *testing.T) {
		fake := &fakeAPI{
			searchContrs: func(int, query.SearchRequest) (models.ContributorsResponse, error) {
				return contributors, nil
			},
			count: func(query.SearchRequest) (int, error) { return 0, errors.New("down") },
		}
		svc := services.NewAnalyticsService(fake, nil, zap.NewNop())

		out, err := svc.Contributors(context.Background(), urlcodec.DecodeString("fuelType=Hybrid"), 5)
		require.NoError(t, err)
		assert.Zero(t, out.TotalListings)
		assert.Zero(t, out.Contributors[0].Share)
	})
}

func TestContributorDetail(t *testing.T) {
	fake := &fakeAPI{
		contributor: func(id string) (models.ContributorDetail, error) {
			return models.ContributorDetail{
				Contributor: models.ContributorSummary{
					SellerName:      "Al Jazira Motors",
					SellerID:        "s-1",
					AgencyID:        id,
					ContributorType: "agency",
					TotalListings:   40,
				},
				DailyDistribution: []models.DailyCount{{Day: "2024-05-01", ListingsCount: 10}, {Day: "2024-05-02", ListingsCount: 20}, {Day: "2024-05-03", ListingsCount: 10}},
				BrandDistribution: []models.BrandCount{{Brand: "Toyota", Count: 30}, {Brand: "Lexus", Count: 10}},
			}, nil
		},
	}
	svc := services.NewAnalyticsService(fake, nil, zap.NewNop())

	out, err := svc.Contributor(context.Background(), "agency-1")
	require.NoError(t, err)
	assert.Equal(t, 75.0, out.BrandDistribution[0].Share)
	assert.Equal(t, 25.0, out.BrandDistribution[1].Share)
	assert.Equal(t, 13.3, out.AveragePerDay)
	assert.Equal(t, "/?sellerType=business&seller=agency-1&sellerDisplayName=Al+Jazira+Motors", out.Link)
}
