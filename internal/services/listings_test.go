package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"car-listings-api/internal/api"
	"car-listings-api/internal/models"
	"car-listings-api/internal/query"
	"car-listings-api/internal/services"
	"car-listings-api/internal/urlcodec"
)

func TestSearchListings(t *testing.T) {
	var (
		gotWindow query.Window
		gotCount  query.SearchRequest
	)
	fake := &fakeAPI{
		search: func(w query.Window) ([]models.Listing, error) {
			gotWindow = w
			return []models.Listing{
				{ID: "1", Title: "Sonata", TransmissionType: "2", BodyType: "3", ImageURLs: "one.jpg,two.jpg"},
				{ID: "2", Title: "Tucson", BodyType: "5"},
			}, nil
		},
		count: func(req query.SearchRequest) (int, error) {
			gotCount = req
			return 81, nil
		},
	}
	svc := services.NewListingsService(fake, nil, 40, zap.NewNop(), nil)

	st := urlcodec.DecodeString("brand=Hyundai&sort=highest_price&page=2")
	page, err := svc.SearchListings(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, 40, gotWindow.Offset)
	assert.Equal(t, query.CountRequest(st), gotCount)

	require.NotNil(t, page.Total)
	assert.Equal(t, 81, *page.Total)
	require.NotNil(t, page.TotalPages)
	assert.Equal(t, 3, *page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, "Highest Price", page.Sort)
	assert.Equal(t, "brand=Hyundai&sort=highest_price&page=2", page.Query)
	assert.Empty(t, page.CountError)

	require.Len(t, page.Listings, 2)
	assert.Equal(t, "one.jpg", page.Listings[0].Thumbnail)
	assert.Equal(t, "Automatic", page.Listings[0].TransmissionLabel)
	assert.Equal(t, "Sedan", page.Listings[0].BodyTypeLabel)
	assert.Equal(t, "N/A", page.Listings[1].TransmissionLabel)
	assert.Equal(t, "SUV", page.Listings[1].BodyTypeLabel)
}

func TestSearchListingsCountFailure(t *testing.T) {
	fake := &fakeAPI{
		search: func(query.Window) ([]models.Listing, error) {
			return []models.Listing{{ID: "1"}}, nil
		},
		count: func(query.SearchRequest) (int, error) {
			return 0, api.ErrTransport
		},
	}
	svc := services.NewListingsService(fake, nil, 40, zap.NewNop(), nil)

	page, err := svc.SearchListings(context.Background(), urlcodec.DecodeString(""))
	require.NoError(t, err, "a failed count does not fail the page")
	assert.Nil(t, page.Total)
	assert.Nil(t, page.TotalPages)
	assert.NotEmpty(t, page.CountError)
	assert.Len(t, page.Listings, 1)
}

func TestSearchListingsSearchFailure(t *testing.T) {
	fake := &fakeAPI{
		search: func(query.Window) ([]models.Listing, error) {
			return nil, &api.StatusError{Endpoint: "search", StatusCode: 500}
		},
		count: func(query.SearchRequest) (int, error) { return 3, nil },
	}
	svc := services.NewListingsService(fake, nil, 0, zap.NewNop(), nil)

	_, err := svc.SearchListings(context.Background(), urlcodec.DecodeString(""))
	require.Error(t, err)
	assert.Equal(t, 500, api.StatusCode(err))
	assert.Equal(t, services.DefaultPageSize, svc.PageSize())
}

type stubPreviewer struct {
	images []string
	err    error
	urls   []string
}

func (p *stubPreviewer) Images(_ context.Context, pageURL string) ([]string, error) {
	p.urls = append(p.urls, pageURL)
	return p.images, p.err
}

func TestListingDetail(t *testing.T) {
	t.Run("enhanced record", func(t *testing.T) {
		fake := &fakeAPI{
			enhanced: func(id string) (models.ListingDetail, error) {
				return models.ListingDetail{
					Listing:  models.Listing{ID: models.ID(id), ImageURLs: "a.jpg", TransmissionType: "1"},
					Enhanced: true,
				}, nil
			},
		}
		svc := services.NewListingsService(fake, nil, 40, zap.NewNop(), nil)

		detail, err := svc.ListingDetail(context.Background(), "7")
		require.NoError(t, err)
		assert.True(t, detail.Enhanced)
		assert.Equal(t, []string{"a.jpg"}, detail.Images)
		assert.Equal(t, "Manual", detail.Labels["transmission_type"])
		assert.Zero(t, fake.called("listing"))
	})

	t.Run("falls back to the plain record", func(t *testing.T) {
		fake := &fakeAPI{
			enhanced: func(string) (models.ListingDetail, error) {
				return models.ListingDetail{}, &api.StatusError{Endpoint: "listing_enhanced", StatusCode: 500}
			},
			listing: func(id string) (models.Listing, error) {
				return models.Listing{ID: models.ID(id), URL: "https://www.syarah.com/car/7"}, nil
			},
		}
		preview := &stubPreviewer{images: []string{"https://cdn.syarah.com/7.jpg"}}
		svc := services.NewListingsService(fake, nil, 40, zap.NewNop(), nil)
		svc.SetPreviewer(preview)

		detail, err := svc.ListingDetail(context.Background(), "7")
		require.NoError(t, err)
		assert.False(t, detail.Enhanced)
		assert.True(t, detail.Preview)
		assert.Equal(t, []string{"https://cdn.syarah.com/7.jpg"}, detail.Images)
		assert.Equal(t, []string{"https://www.syarah.com/car/7"}, preview.urls)
	})

	t.Run("preview failure leaves no images", func(t *testing.T) {
		fake := &fakeAPI{
			listing: func(id string) (models.Listing, error) {
				return models.Listing{ID: models.ID(id), URL: "https://example.com/x"}, nil
			},
		}
		svc := services.NewListingsService(fake, nil, 40, zap.NewNop(), nil)
		svc.SetPreviewer(&stubPreviewer{err: errors.New("blocked")})

		detail, err := svc.ListingDetail(context.Background(), "9")
		require.NoError(t, err)
		assert.Equal(t, []string{}, detail.Images)
		assert.False(t, detail.Preview)
	})

	t.Run("both endpoints fail", func(t *testing.T) {
		fake := &fakeAPI{
			listing: func(string) (models.Listing, error) {
				return models.Listing{}, &api.StatusError{Endpoint: "listing", StatusCode: 404}
			},
		}
		svc := services.NewListingsService(fake, nil, 40, zap.NewNop(), nil)

		_, err := svc.ListingDetail(context.Background(), "404")
		assert.True(t, api.IsNotFound(err))
	})
}
