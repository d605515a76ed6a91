package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"car-listings-api/internal/api"
	"car-listings-api/internal/filters"
	"car-listings-api/internal/models"
	"car-listings-api/internal/services"
	"car-listings-api/internal/urlcodec"
	"car-listings-api/pkg/utils"
)

// analyticsState reads the listing filters of an analytics URL plus its
// comma separated websites parameter.
func analyticsState(c *gin.Context) (filters.State, error) {
	st := urlcodec.Decode(c.Request.URL.Query())
	raw := c.Query("websites")
	if strings.TrimSpace(raw) == "" {
		return st, nil
	}
	websites := utils.SplitList(raw)
	return filters.Apply(st, filters.Edit{Websites: &websites})
}

func (h *Handler) stats(c *gin.Context) {
	st, err := analyticsState(c)
	if err != nil {
		badRequest(c, "invalid filters", err)
		return
	}
	out, err := h.Analytics.Stats(c.Request.Context(), st)
	if err != nil {
		h.upstreamError(c, services.MsgAnalytics, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) contributors(c *gin.Context) {
	st, err := analyticsState(c)
	if err != nil {
		badRequest(c, "invalid filters", err)
		return
	}

	limit := services.DefaultContributorLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			badRequest(c, "limit must be between 1 and 100", nil)
			return
		}
	}

	out, err := h.Analytics.Contributors(c.Request.Context(), st, limit)
	if err != nil {
		h.upstreamError(c, services.MsgAnalytics, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) contributor(c *gin.Context) {
	out, err := h.Analytics.Contributor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamError(c, services.MsgContributor, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) depreciation(c *gin.Context) {
	q := api.DepreciationQuery{
		Make:     strings.TrimSpace(c.Query("make")),
		Model:    strings.TrimSpace(c.Query("model")),
		Trim:     strings.TrimSpace(c.Query("trim")),
		Websites: c.Query("websites"),
	}
	if q.Make == "" || q.Model == "" {
		badRequest(c, "make and model are required", nil)
		return
	}

	out, err := h.Analytics.Depreciation(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientYears) || api.IsInsufficientData(err) {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "insufficient_data",
				Code:    http.StatusUnprocessableEntity,
				Message: services.DepreciationMessage(q.Make, q.Model, err),
			})
			return
		}
		h.upstreamError(c, services.DepreciationMessage(q.Make, q.Model, err), err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) priceSpread(c *gin.Context) {
	q := api.PriceSpreadQuery{
		Make:     strings.TrimSpace(c.Query("make")),
		Model:    strings.TrimSpace(c.Query("model")),
		Trim:     strings.TrimSpace(c.Query("trim")),
		Websites: c.Query("websites"),
	}
	if q.Make == "" || q.Model == "" {
		badRequest(c, "make, model and year are required", nil)
		return
	}
	year, ok := utils.ParseWhole(c.Query("year"))
	if !ok || year <= 0 {
		badRequest(c, "make, model and year are required", nil)
		return
	}
	q.Year = year

	out, err := h.Analytics.PriceSpread(c.Request.Context(), q)
	if err != nil {
		h.upstreamError(c, services.PriceSpreadMessage(q.Make, q.Model, q.Trim, q.Year, err), err)
		return
	}
	c.JSON(http.StatusOK, out)
}
