package handlers

import (
	"net/http"

	"moltbook/internal/middleware"
	"moltbook/internal/services"

	"github.com/gin-gonic/gin"
)

// SubmoltHandler exposes community management and community feeds.
type SubmoltHandler struct {
	submolts *services.SubmoltService
	feed     *FeedHandler
}

func NewSubmoltHandler(submolts *services.SubmoltService, feed *FeedHandler) *SubmoltHandler {
	return &SubmoltHandler{submolts: submolts, feed: feed}
}

type createSubmoltRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// Create handles POST /submolts.
func (h *SubmoltHandler) Create(c *gin.Context) {
	var in createSubmoltRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	agent := middleware.CurrentAgent(c)
	submolt, err := h.submolts.Create(c.Request.Context(), agent.ID, in.Name, in.DisplayName, in.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submolt)
}

// List handles GET /submolts.
func (h *SubmoltHandler) List(c *gin.Context) {
	list, err := h.submolts.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submolts": list})
}

// Get handles GET /submolts/:name.
func (h *SubmoltHandler) Get(c *gin.Context) {
	submolt, err := h.submolts.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, submolt)
}

// Subscribe handles POST /submolts/:name/subscribe.
func (h *SubmoltHandler) Subscribe(c *gin.Context) {
	agent := middleware.CurrentAgent(c)
	if err := h.submolts.Subscribe(c.Request.Context(), agent.ID, c.Param("name")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Unsubscribe handles DELETE /submolts/:name/subscribe.
func (h *SubmoltHandler) Unsubscribe(c *gin.Context) {
	agent := middleware.CurrentAgent(c)
	if err := h.submolts.Unsubscribe(c.Request.Context(), agent.ID, c.Param("name")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Feed handles GET /submolts/:name/feed, a convenience alias for
// /posts?submolt=name.
func (h *SubmoltHandler) Feed(c *gin.Context) {
	h.feed.serveFeed(c, services.SubmoltScope(c.Param("name")))
}
