package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"car-listings-api/internal/filters"
	"car-listings-api/internal/models"
	"car-listings-api/internal/query"
	"car-listings-api/internal/urlcodec"
	"car-listings-api/pkg/cache"
	"car-listings-api/pkg/logging"
	"car-listings-api/pkg/metrics"
	"car-listings-api/pkg/utils"
)

// ListingsAPI is the part of the listings API the listings service needs.
type ListingsAPI interface {
	Search(ctx context.Context, w query.Window) ([]models.Listing, error)
	Count(ctx context.Context, req query.SearchRequest) (int, error)
	Listing(ctx context.Context, id string) (models.Listing, error)
	EnhancedListing(ctx context.Context, id string) (models.ListingDetail, error)
}

// Previewer finds gallery images on a listing's source page.
type Previewer interface {
	Images(ctx context.Context, pageURL string) ([]string, error)
}

type ListingsService struct {
	api       ListingsAPI
	cache     *cache.RedisCache
	previewer Previewer
	pageSize  int
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func NewListingsService(api ListingsAPI, c *cache.RedisCache, pageSize int, log *zap.Logger, m *metrics.Metrics) *ListingsService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ListingsService{
		api:      api,
		cache:    c,
		pageSize: pageSize,
		log:      logging.OrNop(log),
		metrics:  m,
	}
}

// DefaultPageSize is the number of listings per results page.
const DefaultPageSize = 40

// SetPreviewer enables image previews for listings the API has no images for.
func (s *ListingsService) SetPreviewer(p Previewer) {
	s.previewer = p
}

func (s *ListingsService) PageSize() int {
	return s.pageSize
}

// SearchListings loads the page st points at. The page and its total are
// fetched concurrently from the same filter translation; a failed count
// leaves the total unknown without failing the page.
func (s *ListingsService) SearchListings(ctx context.Context, st filters.State) (*models.ListingsPage, error) {
	startTime := time.Now()

	window := query.PageRequest(st, s.pageSize)
	countReq := query.CountRequest(st)

	cacheKey := cache.Key("search", window.Key())
	var cached models.ListingsPage
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		s.log.Warn("cache read failed", zap.String("key", cacheKey), zap.Error(err))
	} else if hit {
		s.lookup("search", "hit")
		cached.Cached = true
		cached.Duration = fmt.Sprintf("%s (cached)", time.Since(startTime).String())
		return &cached, nil
	} else if s.cache.IsAvailable() {
		s.lookup("search", "miss")
	}

	var (
		wg       sync.WaitGroup
		listings []models.Listing
		total    int
		errPage  error
		errCount error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				errPage = fmt.Errorf("search panic: %v", r)
			}
		}()
		listings, errPage = s.api.Search(ctx, window)
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				errCount = fmt.Errorf("count panic: %v", r)
			}
		}()
		total, errCount = s.api.Count(ctx, countReq)
	}()
	wg.Wait()

	if errPage != nil {
		return nil, fmt.Errorf("searching listings: %w", errPage)
	}

	page := &models.ListingsPage{
		Listings: s.cards(listings),
		Page:     st.Page,
		Limit:    window.Limit,
		Offset:   window.Offset,
		Filters:  st,
		Query:    urlcodec.Encode(st),
		Sort:     st.Sort.Label(),
	}
	if page.Page < 1 {
		page.Page = 1
	}

	if errCount != nil {
		s.log.Warn("listing count failed", zap.String("query", page.Query), zap.Error(errCount))
		page.CountError = "Total count unavailable"
	} else {
		totalPages := int(math.Ceil(float64(total) / float64(s.pageSize)))
		page.Total = &total
		page.TotalPages = &totalPages
	}
	page.Duration = time.Since(startTime).String()

	// A page without its total is not worth keeping.
	if errCount == nil && s.cache.IsAvailable() {
		if err := s.cache.SetJSON(ctx, cacheKey, page); err != nil {
			s.log.Warn("failed to cache results", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	s.log.Debug("listings loaded",
		zap.String("query", page.Query),
		zap.Int("count", len(page.Listings)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return page, nil
}

func (s *ListingsService) cards(listings []models.Listing) []models.ListingCard {
	out := make([]models.ListingCard, 0, len(listings))
	for _, l := range listings {
		card := models.ListingCard{
			Listing:           l,
			TransmissionLabel: utils.TransmissionLabel(l.TransmissionType),
			BodyTypeLabel:     utils.BodyTypeLabel(l.BodyType),
		}
		if images := l.Gallery(); len(images) > 0 {
			card.Thumbnail = images[0]
		}
		out = append(out, card)
	}
	return out
}

// ListingDetail loads one listing, preferring the enhanced endpoint and
// falling back to the plain record when it fails.
func (s *ListingsService) ListingDetail(ctx context.Context, id string) (*models.ListingDetail, error) {
	cacheKey := cache.Key("listing", id)
	var cached models.ListingDetail
	if hit, _ := s.cache.GetJSON(ctx, cacheKey, &cached); hit {
		s.lookup("listing", "hit")
		return &cached, nil
	} else if s.cache.IsAvailable() {
		s.lookup("listing", "miss")
	}

	detail, err := s.api.EnhancedListing(ctx, id)
	if err != nil {
		s.log.Info("enhanced listing unavailable, falling back",
			zap.String("id", id), zap.Error(err))

		plain, perr := s.api.Listing(ctx, id)
		if perr != nil {
			return nil, fmt.Errorf("fetching listing %s: %w", id, perr)
		}
		detail = models.ListingDetail{Listing: plain}
	}

	if len(detail.Images) == 0 {
		detail.Images = detail.Gallery()
	}
	if len(detail.Images) == 0 && s.previewer != nil && detail.URL != "" {
		images, perr := s.previewer.Images(ctx, detail.URL)
		if perr != nil {
			s.log.Info("listing preview failed", zap.String("url", detail.URL), zap.Error(perr))
		} else if len(images) > 0 {
			detail.Images = images
			detail.Preview = true
		}
	}
	if detail.Images == nil {
		detail.Images = []string{}
	}

	detail.Labels = map[string]string{
		"transmission_type": utils.TransmissionLabel(detail.TransmissionType),
		"body_type":         utils.BodyTypeLabel(detail.BodyType),
	}

	if s.cache.IsAvailable() {
		if err := s.cache.SetJSON(ctx, cacheKey, detail); err != nil {
			s.log.Warn("failed to cache listing", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return &detail, nil
}

func (s *ListingsService) lookup(kind, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CacheLookups.WithLabelValues(kind, result).Inc()
}
