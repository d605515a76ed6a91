package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"car-listings-api/internal/filters"
	"car-listings-api/internal/models"
	"car-listings-api/internal/query"
	"car-listings-api/pkg/cache"
	"car-listings-api/pkg/logging"
	"car-listings-api/pkg/metrics"
	"car-listings-api/pkg/utils"
)

// OptionsAPI is the part of the listings API that serves filter vocabularies.
type OptionsAPI interface {
	Makes(ctx context.Context) ([]string, error)
	Models(ctx context.Context, brand string) ([]string, error)
	Trims(ctx context.Context, brand, model string) ([]string, error)
	Years(ctx context.Context, brand, model string) ([]int, error)
	Locations(ctx context.Context) ([]string, error)
	FuelTypes(ctx context.Context) ([]string, error)
	BodyTypes(ctx context.Context) ([]string, error)
	TransmissionTypes(ctx context.Context) ([]string, error)
	SellerTypes(ctx context.Context) ([]string, error)
	Colors(ctx context.Context) ([]string, error)
	Websites(ctx context.Context) ([]string, error)
	DynamicOptions(ctx context.Context, req query.SearchRequest) (models.DynamicOptions, error)
}

// OptionsService serves the reference vocabularies, each cached on its own key.
type OptionsService struct {
	api     OptionsAPI
	cache   *cache.RedisCache
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewOptionsService(api OptionsAPI, c *cache.RedisCache, log *zap.Logger, m *metrics.Metrics) *OptionsService {
	return &OptionsService{
		api:     api,
		cache:   c,
		log:     logging.OrNop(log),
		metrics: m,
	}
}

// Reference loads every vocabulary concurrently. Vocabularies that fail are
// left empty and reported in the joined error.
func (s *OptionsService) Reference(ctx context.Context) (*models.ReferenceOptions, error) {
	out := &models.ReferenceOptions{
		Sorts: filters.SortChoices(),
	}

	lists := []struct {
		name  string
		dst   *[]string
		fetch func(context.Context) ([]string, error)
	}{
		{"makes", &out.Makes, s.api.Makes},
		{"locations", &out.Locations, s.api.Locations},
		{"fuel_types", &out.FuelTypes, s.api.FuelTypes},
		{"body_types", &out.BodyTypes, s.api.BodyTypes},
		{"transmission_types", &out.TransmissionTypes, s.api.TransmissionTypes},
		{"seller_types", &out.SellerTypes, s.api.SellerTypes},
		{"colors", &out.Colors, s.api.Colors},
		{"websites", &out.Websites, s.api.Websites},
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	addError := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for _, l := range lists {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cached(ctx, s, cache.Key("options", l.name), func(ctx context.Context) ([]string, error) {
				return l.fetch(ctx)
			})
			if err != nil {
				addError(fmt.Errorf("%s: %w", l.name, err))
				*l.dst = []string{}
				return
			}
			*l.dst = v
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		years, err := s.Years(ctx, "", "")
		if err != nil {
			addError(fmt.Errorf("years: %w", err))
			out.Years = []int{}
			return
		}
		out.Years = years
	}()
	wg.Wait()

	out.Labels = labels(out.TransmissionTypes, out.BodyTypes)

	if len(errs) > 0 {
		s.log.Warn("some filter options failed to load", zap.Errors("errors", errs))
		return out, errors.Join(errs...)
	}
	return out, nil
}

// Models lists the models of brand.
func (s *OptionsService) Models(ctx context.Context, brand string) ([]string, error) {
	return cached(ctx, s, cache.Key("options", "models", brand), func(ctx context.Context) ([]string, error) {
		return s.api.Models(ctx, brand)
	})
}

// Trims lists the trims of brand and model.
func (s *OptionsService) Trims(ctx context.Context, brand, model string) ([]string, error) {
	return cached(ctx, s, cache.Key("options", "trims", brand, model), func(ctx context.Context) ([]string, error) {
		return s.api.Trims(ctx, brand, model)
	})
}

// Years lists model years newest first, for one brand and model when both are given.
func (s *OptionsService) Years(ctx context.Context, brand, model string) ([]int, error) {
	key := cache.Key("options", "years")
	if brand != "" && model != "" {
		key = cache.Key("options", "years", brand, model)
	}
	years, err := cached(ctx, s, key, func(ctx context.Context) ([]int, error) {
		return s.api.Years(ctx, brand, model)
	})
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// DynamicOptions asks which options remain reachable under req. Answers
// change with every edit, so they are not cached.
func (s *OptionsService) DynamicOptions(ctx context.Context, req query.SearchRequest) (models.DynamicOptions, error) {
	opts, err := s.api.DynamicOptions(ctx, req)
	if err != nil {
		return models.DynamicOptions{}, fmt.Errorf("loading dynamic options: %w", err)
	}
	return opts, nil
}

func cached[T any](ctx context.Context, s *OptionsService, key string, fetch func(context.Context) (T, error)) (T, error) {
	var v T
	if hit, err := s.cache.GetJSON(ctx, key, &v); err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		s.lookup("hit")
		return v, nil
	} else if s.cache.IsAvailable() {
		s.lookup("miss")
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	if s.cache.IsAvailable() {
		if err := s.cache.SetJSON(ctx, key, v); err != nil {
			s.log.Warn("failed to cache options", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func (s *OptionsService) lookup(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CacheLookups.WithLabelValues("options", result).Inc()
}

func labels(transmissions, bodyTypes []string) map[string]models.LabelValue {
	out := make(map[string]models.LabelValue, len(transmissions)+len(bodyTypes))
	for _, code := range transmissions {
		out["transmission_type:"+code] = models.LabelValue{Value: code, Label: utils.TransmissionLabel(code)}
	}
	for _, code := range bodyTypes {
		out["body_type:"+code] = models.LabelValue{Value: code, Label: utils.BodyTypeLabel(code)}
	}
	return out
}
