// Package handlers exposes the listing, browse and analytics routes over gin.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-listings-api/internal/api"
	"car-listings-api/internal/filters"
	"car-listings-api/internal/middleware"
	"car-listings-api/internal/models"
	"car-listings-api/internal/page"
	"car-listings-api/pkg/cache"
	"car-listings-api/pkg/logging"
	"car-listings-api/pkg/metrics"
)

const serviceName = "car-listings-api"

type Listings interface {
	SearchListings(ctx context.Context, st filters.State) (*models.ListingsPage, error)
	ListingDetail(ctx context.Context, id string) (*models.ListingDetail, error)
}

type Options interface {
	Reference(ctx context.Context) (*models.ReferenceOptions, error)
	Models(ctx context.Context, brand string) ([]string, error)
	Trims(ctx context.Context, brand, model string) ([]string, error)
	Years(ctx context.Context, brand, model string) ([]int, error)
}

type Analytics interface {
	Stats(ctx context.Context, st filters.State) (*models.Stats, error)
	Contributors(ctx context.Context, st filters.State, limit int) (*models.ContributorsResponse, error)
	Contributor(ctx context.Context, id string) (*models.ContributorDetail, error)
	Depreciation(ctx context.Context, q api.DepreciationQuery) (*models.Depreciation, error)
	PriceSpread(ctx context.Context, q api.PriceSpreadQuery) (*models.PriceSpread, error)
}

// Previewer fetches gallery images straight from a listing's source page.
type Previewer interface {
	Images(ctx context.Context, pageURL string) ([]string, error)
}

// Handler carries the dependencies of every route. Optional ones may be nil.
type Handler struct {
	Listings  Listings
	Options   Options
	Analytics Analytics
	Sessions  *page.Registry
	Previewer Previewer
	Cache     *cache.RedisCache
	Limiter   *middleware.RateLimiter
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	Version   string
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	if h.Log == nil {
		h.Log = logging.OrNop(nil)
	}

	r.GET("/health", h.health)
	r.GET("/api/info", h.info)
	r.GET("/rate-limit/status", h.rateLimitStatus)
	r.GET("/cache/stats", h.cacheStats)
	r.GET("/cache/debug", h.cacheDebug)
	r.DELETE("/cache/flush", h.cacheFlush)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}
	r.GET("/test/preview", h.testPreview)

	listings := r.Group("/api/listings")
	listings.GET("", h.listListings)
	listings.GET("/:id", h.listingDetail)

	options := r.Group("/api/options")
	options.GET("", h.referenceOptions)
	options.GET("/models/:brand", h.models)
	options.GET("/trims/:brand/:model", h.trims)
	options.GET("/years", h.years)
	options.GET("/years/:brand/:model", h.years)

	browse := r.Group("/api/browse")
	browse.GET("", h.browse)
	browse.POST("/filters", h.browseFilters)
	browse.POST("/options", h.browseOptions)
	browse.POST("/back", h.browseBack)
	browse.POST("/forward", h.browseForward)

	analytics := r.Group("/api/analytics")
	analytics.GET("/stats", h.stats)
	analytics.GET("/contributors", h.contributors)
	analytics.GET("/contributors/:id", h.contributor)
	analytics.GET("/depreciation", h.depreciation)
	analytics.GET("/price-spread", h.priceSpread)
}

func badRequest(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{
		Error:   "invalid_request",
		Code:    http.StatusBadRequest,
		Message: message,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

// upstreamError answers for a failed upstream call with message shown to the user.
func (h *Handler) upstreamError(c *gin.Context, message string, err error) {
	status, code := http.StatusBadGateway, "upstream_error"
	switch {
	case api.IsNotFound(err):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "upstream_timeout"
	}

	_ = c.Error(err)
	h.Log.Warn("upstream request failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("route", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err),
	)
	c.JSON(status, models.ErrorResponse{
		Error:   code,
		Code:    status,
		Message: message,
		Details: err.Error(),
	})
}
