package services_test

import (
	"context"
	"errors"
	"sync"

	"car-listings-api/internal/api"
	"car-listings-api/internal/models"
	"car-listings-api/internal/query"
)

var errNotStubbed = errors.New("not stubbed")

// fakeAPI stands in for *api.Client. Unset funcs fail with errNotStubbed.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	search       func(query.Window) ([]models.Listing, error)
	count        func(query.SearchRequest) (int, error)
	listing      func(string) (models.Listing, error)
	enhanced     func(string) (models.ListingDetail, error)
	dynamic      func(query.SearchRequest) (models.DynamicOptions, error)
	lists        map[string][]string
	years        []int
	stats        func(string) (models.Stats, error)
	contributors func(int, string) (models.ContributorsResponse, error)
	searchContrs func(int, query.SearchRequest) (models.ContributorsResponse, error)
	contributor  func(string) (models.ContributorDetail, error)
	depreciation func(api.DepreciationQuery) (models.Depreciation, error)
	priceSpread  func(api.PriceSpreadQuery) (models.PriceSpread, error)
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Search(_ context.Context, w query.Window) ([]models.Listing, error) {
	f.record("search")
	if f.search == nil {
		return nil, errNotStubbed
	}
	return f.search(w)
}

func (f *fakeAPI) Count(_ context.Context, req query.SearchRequest) (int, error) {
	f.record("count")
	if f.count == nil {
		return 0, errNotStubbed
	}
	return f.count(req)
}

func (f *fakeAPI) Listing(_ context.Context, id string) (models.Listing, error) {
	f.record("listing")
	if f.listing == nil {
		return models.Listing{}, errNotStubbed
	}
	return f.listing(id)
}

func (f *fakeAPI) EnhancedListing(_ context.Context, id string) (models.ListingDetail, error) {
	f.record("enhanced")
	if f.enhanced == nil {
		return models.ListingDetail{}, errNotStubbed
	}
	return f.enhanced(id)
}

func (f *fakeAPI) DynamicOptions(_ context.Context, req query.SearchRequest) (models.DynamicOptions, error) {
	f.record("dynamic")
	if f.dynamic == nil {
		return models.DynamicOptions{}, errNotStubbed
	}
	return f.dynamic(req)
}

func (f *fakeAPI) list(name string) ([]string, error) {
	f.record(name)
	v, ok := f.lists[name]
	if !ok {
		return nil, errNotStubbed
	}
	return v, nil
}

func (f *fakeAPI) Makes(context.Context) ([]string, error)     { return f.list("makes") }
func (f *fakeAPI) Locations(context.Context) ([]string, error) { return f.list("locations") }
func (f *fakeAPI) FuelTypes(context.Context) ([]string, error) { return f.list("fuel_types") }
func (f *fakeAPI) BodyTypes(context.Context) ([]string, error) { return f.list("body_types") }
func (f *fakeAPI) SellerTypes(context.Context) ([]string, error) {
	return f.list("seller_types")
}
func (f *fakeAPI) TransmissionTypes(context.Context) ([]string, error) {
	return f.list("transmission_types")
}
func (f *fakeAPI) Colors(context.Context) ([]string, error)   { return f.list("colors") }
func (f *fakeAPI) Websites(context.Context) ([]string, error) { return f.list("websites") }

func (f *fakeAPI) Models(_ context.Context, brand string) ([]string, error) {
	return f.list("models:" + brand)
}

func (f *fakeAPI) Trims(_ context.Context, brand, model string) ([]string, error) {
	return f.list("trims:" + brand + ":" + model)
}

func (f *fakeAPI) Years(context.Context, string, string) ([]int, error) {
	f.record("years")
	if f.years == nil {
		return nil, errNotStubbed
	}
	return append([]int(nil), f.years...), nil
}

func (f *fakeAPI) Stats(_ context.Context, websites string) (models.Stats, error) {
	f.record("stats")
	if f.stats == nil {
		return models.Stats{}, errNotStubbed
	}
	return f.stats(websites)
}

func (f *fakeAPI) Contributors(_ context.Context, limit int, websites string) (models.ContributorsResponse, error) {
	f.record("contributors")
	if f.contributors == nil {
		return models.ContributorsResponse{}, errNotStubbed
	}
	return f.contributors(limit, websites)
}

func (f *fakeAPI) SearchContributors(_ context.Context, limit int, req query.SearchRequest) (models.ContributorsResponse, error) {
	f.record("search_contributors")
	if f.searchContrs == nil {
		return models.ContributorsResponse{}, errNotStubbed
	}
	return f.searchContrs(limit, req)
}

func (f *fakeAPI) Contributor(_ context.Context, id string) (models.ContributorDetail, error) {
	f.record("contributor")
	if f.contributor == nil {
		return models.ContributorDetail{}, errNotStubbed
	}
	return f.contributor(id)
}

func (f *fakeAPI) Depreciation(_ context.Context, q api.DepreciationQuery) (models.Depreciation, error) {
	f.record("depreciation")
	if f.depreciation == nil {
		return models.Depreciation{}, errNotStubbed
	}
	return f.depreciation(q)
}

func (f *fakeAPI) PriceSpread(_ context.Context, q api.PriceSpreadQuery) (models.PriceSpread, error) {
	f.record("price_spread")
	if f.priceSpread == nil {
		return models.PriceSpread{}, errNotStubbed
	}
	return f.priceSpread(q)
}
