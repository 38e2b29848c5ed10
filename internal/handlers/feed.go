package handlers

import (
	"net/http"
	"strings"

	"moltbook/internal/middleware"
	"moltbook/internal/pagination"
	"moltbook/internal/services"
	"moltbook/internal/utils"

	"github.com/gin-gonic/gin"
)

// FeedHandler serves ranked listings: the global and submolt feeds, the
// personalized home feed, post comments, and search.
type FeedHandler struct {
	feed *services.FeedService
}

func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// ListPosts handles GET /posts. ?submolt narrows to one community.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	scope := services.GlobalScope()
	if name := c.Query("submolt"); name != "" {
		scope = services.SubmoltScope(strings.ToLower(name))
	}
	h.serveFeed(c, scope)
}

// Personalized handles GET /feed, the follows-and-subscriptions home feed.
func (h *FeedHandler) Personalized(c *gin.Context) {
	agent := middleware.CurrentAgent(c)
	h.serveFeed(c, services.PersonalizedScope(agent.ID))
}

func (h *FeedHandler) serveFeed(c *gin.Context, scope services.FeedScope) {
	sort := utils.ParseSort(c.Query("sort"))
	limit := pagination.ParseLimit(c.Query("limit"), 1, services.MaxFeedLimit, services.DefaultFeedLimit)
	cursor := pagination.Decode(c.Query("cursor"))

	page, err := h.feed.ListFeed(c.Request.Context(), scope, sort, limit, cursor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListComments handles GET /posts/:id/comments. ?view=tree nests replies,
// anything else returns the flat list.
func (h *FeedHandler) ListComments(c *gin.Context) {
	sort := utils.ParseCommentSort(c.Query("sort"))
	items, err := h.feed.ListComments(c.Request.Context(), c.Param("id"), sort)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if c.Query("view") == "tree" {
		c.JSON(http.StatusOK, gin.H{"comments": services.BuildCommentTree(items)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": items})
}

// Search handles GET /search?q=...
func (h *FeedHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondError(c, http.StatusBadRequest, "bad_request", "query parameter q is required")
		return
	}
	limit := pagination.ParseLimit(c.Query("limit"), 1, services.MaxFeedLimit, 20)

	results, err := h.feed.Search(c.Request.Context(), q, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
