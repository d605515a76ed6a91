package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"car-listings-api/internal/api"
	"car-listings-api/internal/filters"
	"car-listings-api/internal/models"
	"car-listings-api/internal/query"
	"car-listings-api/internal/urlcodec"
	"car-listings-api/pkg/cache"
	"car-listings-api/pkg/logging"
	"car-listings-api/pkg/utils"
)

// OutlierDeviations is how many standard deviations from the mean a price
// must lie to be flagged as an outlier.
const OutlierDeviations = 2.0

// DefaultContributorLimit matches the analytics API default.
const DefaultContributorLimit = 20

type AnalyticsAPI interface {
	Stats(ctx context.Context, websites string) (models.Stats, error)
	Contributors(ctx context.Context, limit int, websites string) (models.ContributorsResponse, error)
	SearchContributors(ctx context.Context, limit int, req query.SearchRequest) (models.ContributorsResponse, error)
	Count(ctx context.Context, req query.SearchRequest) (int, error)
	Contributor(ctx context.Context, id string) (models.ContributorDetail, error)
	Depreciation(ctx context.Context, q api.DepreciationQuery) (models.Depreciation, error)
	PriceSpread(ctx context.Context, q api.PriceSpreadQuery) (models.PriceSpread, error)
}

type AnalyticsService struct {
	api   AnalyticsAPI
	cache *cache.RedisCache
	log   *zap.Logger
}

func NewAnalyticsService(api AnalyticsAPI, c *cache.RedisCache, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{api: api, cache: c, log: logging.OrNop(log)}
}

// Stats returns listing totals, restricted to st's websites when any are selected.
func (s *AnalyticsService) Stats(ctx context.Context, st filters.State) (*models.Stats, error) {
	websites := query.WebsitesParam(st)
	out, err := remember(ctx, s, cache.Key("analytics", "stats", websites), func(ctx context.Context) (models.Stats, error) {
		return s.api.Stats(ctx, websites)
	})
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	if out.AppliedFilters.Websites == nil {
		out.AppliedFilters.Websites = []string{}
	}
	return &out, nil
}

// Contributors lists the top contributors under st. Website-only filters use
// the query-string endpoint; anything narrower posts the full filter body.
func (s *AnalyticsService) Contributors(ctx context.Context, st filters.State, limit int) (*models.ContributorsResponse, error) {
	if limit <= 0 {
		limit = DefaultContributorLimit
	}
	websites := query.WebsitesParam(st)

	var (
		out models.ContributorsResponse
		err error
	)
	if websitesOnly(st) {
		out, err = s.api.Contributors(ctx, limit, websites)
	} else {
		out, err = s.api.SearchContributors(ctx, limit, query.CountRequest(st))
	}
	if err != nil {
		return nil, fmt.Errorf("loading contributors: %w", err)
	}

	if total, err := s.contributorTotal(ctx, st); err != nil {
		s.log.Info("contributor shares unavailable", zap.Error(err))
	} else {
		out.TotalListings = total
	}

	if out.Contributors == nil {
		out.Contributors = []models.Contributor{}
	}
	for i := range out.Contributors {
		c := &out.Contributors[i]
		c.Share = percent(c.TotalListings, out.TotalListings)
		c.Link = contributorLink(c.ContributorType, c.SellerID, c.SellerName)
	}
	out.TotalCount = len(out.Contributors)
	return &out, nil
}

// contributorTotal counts the listings under the same filters the contributors
// were ranked on, so shares are of that filtered total.
func (s *AnalyticsService) contributorTotal(ctx context.Context, st filters.State) (int, error) {
	if websitesOnly(st) {
		stats, err := s.Stats(ctx, st)
		if err != nil {
			return 0, err
		}
		return stats.TotalListings, nil
	}
	return s.api.Count(ctx, query.CountRequest(st))
}

// Contributor returns one contributor's activity with per-brand shares.
func (s *AnalyticsService) Contributor(ctx context.Context, id string) (*models.ContributorDetail, error) {
	out, err := remember(ctx, s, cache.Key("analytics", "contributor", id), func(ctx context.Context) (models.ContributorDetail, error) {
		return s.api.Contributor(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("loading contributor %s: %w", id, err)
	}

	c := out.Contributor
	for i := range out.BrandDistribution {
		out.BrandDistribution[i].Share = percent(out.BrandDistribution[i].Count, c.TotalListings)
	}
	if out.DailyDistribution == nil {
		out.DailyDistribution = []models.DailyCount{}
	}
	if out.BrandDistribution == nil {
		out.BrandDistribution = []models.BrandCount{}
	}
	out.AveragePerDay = math.Round(float64(c.TotalListings)/float64(max(1, len(out.DailyDistribution)))*10) / 10

	sellerID := c.SellerName
	if c.ContributorType == "agency" {
		sellerID = c.AgencyID
	}
	out.Link = contributorLink(c.ContributorType, sellerID, c.SellerName)
	return &out, nil
}

// Depreciation returns the yearly price curve for one make and model.
// Fewer than two years of data is reported as ErrInsufficientYears.
func (s *AnalyticsService) Depreciation(ctx context.Context, q api.DepreciationQuery) (*models.Depreciation, error) {
	key := cache.Key("analytics", "depreciation", q.Make, q.Model, q.Trim, q.Websites)
	out, err := remember(ctx, s, key, func(ctx context.Context) (models.Depreciation, error) {
		return s.api.Depreciation(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("loading depreciation for %s %s: %w", q.Make, q.Model, err)
	}
	if len(out.YearlyData) < 2 {
		return nil, fmt.Errorf("depreciation for %s %s: %w", q.Make, q.Model, ErrInsufficientYears)
	}

	out.NewestFirst = append([]models.YearlyPrice(nil), out.YearlyData...)
	sort.SliceStable(out.NewestFirst, func(i, j int) bool {
		return out.NewestFirst[i].Year > out.NewestFirst[j].Year
	})
	return &out, nil
}

// PriceSpread returns the price distribution of one make, model and year,
// with each listing placed on the chart and flagged when it is an outlier.
func (s *AnalyticsService) PriceSpread(ctx context.Context, q api.PriceSpreadQuery) (*models.PriceSpread, error) {
	key := cache.Key("analytics", "price-spread", q.Make, q.Model, strconv.Itoa(q.Year), q.Trim, q.Websites)
	out, err := remember(ctx, s, key, func(ctx context.Context) (models.PriceSpread, error) {
		return s.api.PriceSpread(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("loading price spread for %s %s %d: %w", q.Make, q.Model, q.Year, err)
	}

	out.Points = make([]models.SpreadPoint, 0, len(out.Listings))
	out.Outliers = 0
	for i, l := range out.Listings {
		p := models.SpreadPoint{
			Index:   i + 1,
			Price:   l.Price,
			Outlier: IsOutlier(l.Price, out.AveragePrice, out.StandardDeviation),
			Listing: l,
		}
		if p.Outlier {
			out.Outliers++
		}
		out.Points = append(out.Points, p)
	}
	if out.Listings == nil {
		out.Listings = []models.SpreadListing{}
	}
	return &out, nil
}

// IsOutlier reports whether price lies more than OutlierDeviations standard
// deviations from mean. A zero deviation flags nothing.
func IsOutlier(price, mean, stddev float64) bool {
	if stddev <= 0 {
		return false
	}
	return math.Abs(price-mean) > OutlierDeviations*stddev
}

// websitesOnly reports whether st filters on nothing but websites.
func websitesOnly(st filters.State) bool {
	rest := st.Clone()
	rest.Websites = nil
	return rest.IsEmpty()
}

// contributorLink is the listings URL filtered to one contributor.
func contributorLink(contributorType, sellerID, displayName string) string {
	if strings.TrimSpace(sellerID) == "" {
		return ""
	}
	sellerType := "individual"
	if contributorType == "agency" {
		sellerType = "business"
	}
	st := filters.New().
		WithText(filters.FieldSeller, sellerID).
		WithText(filters.FieldSellerType, sellerType).
		WithText(filters.FieldSellerDisplayName, displayName)
	return urlcodec.Path("/", st)
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return utils.Round2(float64(part) / float64(whole) * 100)
}

func remember[T any](ctx context.Context, s *AnalyticsService, key string, fetch func(context.Context) (T, error)) (T, error) {
	var v T
	if hit, err := s.cache.GetJSON(ctx, key, &v); err == nil && hit {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	if s.cache.IsAvailable() {
		if err := s.cache.SetJSON(ctx, key, v); err != nil {
			s.log.Warn("failed to cache analytics", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}
