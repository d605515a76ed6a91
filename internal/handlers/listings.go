package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"car-listings-api/internal/services"
	"car-listings-api/internal/urlcodec"
)

// listListings serves the results page a URL points at. The query string is
// decoded exactly as the browser's address bar would be.
func (h *Handler) listListings(c *gin.Context) {
	st := urlcodec.Decode(c.Request.URL.Query())

	results, err := h.Listings.SearchListings(c.Request.Context(), st)
	if err != nil {
		h.upstreamError(c, services.MsgListings, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) listingDetail(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		badRequest(c, "listing id is required", nil)
		return
	}

	detail, err := h.Listings.ListingDetail(c.Request.Context(), id)
	if err != nil {
		h.upstreamError(c, services.MsgListingDetail, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
