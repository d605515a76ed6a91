package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-listings-api/internal/services"
)

// referenceOptions returns every vocabulary. Vocabularies that failed come
// back empty with a warning instead of failing the whole response.
func (h *Handler) referenceOptions(c *gin.Context) {
	opts, err := h.Options.Reference(c.Request.Context())
	if opts == nil {
		h.upstreamError(c, services.MsgOptions, err)
		return
	}
	if err != nil {
		h.Log.Warn("partial filter options", zap.Error(err))
		c.Header("Warning", `199 - "some filter options are unavailable"`)
	}
	c.JSON(http.StatusOK, opts)
}

func (h *Handler) models(c *gin.Context) {
	brand := c.Param("brand")
	list, err := h.Options.Models(c.Request.Context(), brand)
	if err != nil {
		h.upstreamError(c, services.MsgOptions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brand": brand, "models": list})
}

func (h *Handler) trims(c *gin.Context) {
	brand, model := c.Param("brand"), c.Param("model")
	list, err := h.Options.Trims(c.Request.Context(), brand, model)
	if err != nil {
		h.upstreamError(c, services.MsgOptions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brand": brand, "model": model, "trims": list})
}

func (h *Handler) years(c *gin.Context) {
	brand, model := c.Param("brand"), c.Param("model")
	list, err := h.Options.Years(c.Request.Context(), brand, model)
	if err != nil {
		h.upstreamError(c, services.MsgOptions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": list})
}
