package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"car-listings-api/internal/filters"
	"car-listings-api/internal/models"
	"car-listings-api/internal/page"
	"car-listings-api/internal/services"
)

const sessionCookie = "browse_session"

type browseResponse struct {
	SessionID string `json:"session_id"`
	Moved     *bool  `json:"moved,omitempty"`
	page.Snapshot
}

// session returns the caller's browse page, opening one on initialQuery when
// the cookie is missing or expired.
func (h *Handler) session(c *gin.Context, initialQuery string) (string, *page.Page, bool) {
	id, _ := c.Cookie(sessionCookie)
	id, p, created := h.Sessions.GetOrCreate(id, initialQuery)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", c.Request.TLS != nil, true)
	return id, p, created
}

func (h *Handler) sessionsEnabled(c *gin.Context) bool {
	if h.Sessions == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "browse_disabled",
			Code:    http.StatusServiceUnavailable,
			Message: "Browse sessions are not available",
		})
		return false
	}
	return true
}

// browse loads the URL into the session page as a navigation: the state
// follows the URL and history is not pushed.
func (h *Handler) browse(c *gin.Context) {
	if !h.sessionsEnabled(c) {
		return
	}
	raw := c.Request.URL.RawQuery
	id, p, _ := h.session(c, raw)
	snap := p.Navigate(c.Request.Context(), raw)
	c.JSON(http.StatusOK, browseResponse{SessionID: id, Snapshot: snap})
}

// browseFilters applies one user edit. Rejected edits leave the page as it was.
func (h *Handler) browseFilters(c *gin.Context) {
	if !h.sessionsEnabled(c) {
		return
	}

	var edit filters.Edit
	if err := c.ShouldBindJSON(&edit); err != nil {
		badRequest(c, "invalid filter edit", err)
		return
	}

	id, p, _ := h.session(c, "")
	snap, err := p.Dispatch(c.Request.Context(), edit)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "invalid_filter",
			"code":       http.StatusUnprocessableEntity,
			"message":    err.Error(),
			"session_id": id,
			"filters":    snap.Filters,
			"query":      snap.Query,
		})
		return
	}
	c.JSON(http.StatusOK, browseResponse{SessionID: id, Snapshot: snap})
}

// browseOptions narrows the session's options to what its state can still reach.
func (h *Handler) browseOptions(c *gin.Context) {
	if !h.sessionsEnabled(c) {
		return
	}

	id, p, _ := h.session(c, "")
	snap, err := p.RefreshOptions(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrSuperseded):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "superseded",
			Code:    http.StatusConflict,
			Message: "A newer options request replaced this one",
		})
		return
	case err != nil:
		h.upstreamError(c, services.MsgOptions, err)
		return
	}
	c.JSON(http.StatusOK, browseResponse{SessionID: id, Snapshot: snap})
}

func (h *Handler) browseBack(c *gin.Context) {
	h.travel(c, (*page.Page).Back)
}

func (h *Handler) browseForward(c *gin.Context) {
	h.travel(c, (*page.Page).Forward)
}

func (h *Handler) travel(c *gin.Context, move func(*page.Page, context.Context) (page.Snapshot, bool)) {
	if !h.sessionsEnabled(c) {
		return
	}
	id, p, _ := h.session(c, "")
	snap, moved := move(p, c.Request.Context())
	c.JSON(http.StatusOK, browseResponse{SessionID: id, Moved: &moved, Snapshot: snap})
}
