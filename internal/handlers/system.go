package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-listings-api/internal/filters"
)

func (h *Handler) health(c *gin.Context) {
	health := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": h.Version,
	}

	if h.Cache.IsAvailable() {
		health["cache"] = "redis connected"
	} else {
		health["cache"] = "redis unavailable"
	}
	if h.Sessions != nil {
		health["browse_sessions"] = h.Sessions.Len()
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":  serviceName,
		"version":  h.Version,
		"url_keys": filters.Keys(),
		"sorts":    filters.SortChoices(),
		"endpoints": gin.H{
			"listings":     "GET /api/listings?<filters>",
			"listing":      "GET /api/listings/:id",
			"options":      "GET /api/options",
			"browse":       "GET /api/browse?<filters>, POST /api/browse/{filters,options,back,forward}",
			"stats":        "GET /api/analytics/stats?websites=",
			"contributors": "GET /api/analytics/contributors?limit=&websites=",
			"depreciation": "GET /api/analytics/depreciation?make=&model=&trim=&websites=",
			"price_spread": "GET /api/analytics/price-spread?make=&model=&year=&trim=&websites=",
		},
	})
}

func (h *Handler) rateLimitStatus(c *gin.Context) {
	if h.Limiter == nil {
		c.JSON(http.StatusOK, gin.H{"ip": c.ClientIP(), "rate_limiting": "disabled"})
		return
	}
	c.JSON(http.StatusOK, h.Limiter.Status(c.ClientIP()))
}

func (h *Handler) cacheStats(c *gin.Context) {
	if !h.Cache.IsAvailable() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "cache not available",
		})
		return
	}
	c.JSON(http.StatusOK, h.Cache.GetStats(c.Request.Context()))
}

func (h *Handler) cacheDebug(c *gin.Context) {
	if !h.Cache.IsAvailable() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "cache not available",
		})
		return
	}

	ctx := c.Request.Context()
	keys := h.Cache.GetAllKeys(ctx)

	keyDetails := make([]gin.H, 0, len(keys))
	for _, key := range keys {
		ttl := h.Cache.GetKeyTTL(ctx, key)
		keyDetails = append(keyDetails, gin.H{
			"key":         key,
			"ttl_seconds": int(ttl.Seconds()),
			"expires_in":  ttl.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_keys":  len(keys),
		"cache_keys":  keyDetails,
		"cache_stats": h.Cache.GetStats(ctx),
		"debug_info": gin.H{
			"redis_available": h.Cache.IsAvailable(),
			"timestamp":       time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) cacheFlush(c *gin.Context) {
	if !h.Cache.IsAvailable() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "cache not available",
		})
		return
	}

	removed, err := h.Cache.FlushCache(c.Request.Context())
	if err != nil {
		h.Log.Error("cache flush failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to flush cache",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "cache flushed successfully",
		"removed":   removed,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// testPreview runs the listing preview scraper against one page.
func (h *Handler) testPreview(c *gin.Context) {
	if h.Previewer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "previews disabled",
		})
		return
	}

	pageURL := c.Query("url")
	if pageURL == "" {
		badRequest(c, "url is required", nil)
		return
	}

	start := time.Now()
	images, err := h.Previewer.Images(c.Request.Context(), pageURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "preview failed",
			"url":     pageURL,
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      pageURL,
		"count":    len(images),
		"images":   images,
		"duration": time.Since(start).String(),
	})
}
