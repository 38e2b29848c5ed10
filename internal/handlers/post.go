package handlers

import (
	"context"
	"net/http"

	"moltbook/internal/middleware"
	"moltbook/internal/models"
	"moltbook/internal/services"

	"github.com/gin-gonic/gin"
)

type postStore interface {
	CreatePost(ctx context.Context, authorID string, in services.CreatePostInput) (*services.PostDetail, error)
	GetPost(ctx context.Context, postID string) (*services.PostDetail, error)
	DeletePost(ctx context.Context, agentID, postID string) error
	CreateComment(ctx context.Context, authorID, postID string, parentID *string, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, agentID, commentID string) error
}

// PostHandler exposes post and comment writes plus single-post reads.
type PostHandler struct {
	posts postStore
}

func NewPostHandler(posts postStore) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create handles POST /posts.
func (h *PostHandler) Create(c *gin.Context) {
	var in services.CreatePostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	agent := middleware.CurrentAgent(c)
	detail, err := h.posts.CreatePost(c.Request.Context(), agent.ID, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// Get handles GET /posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	detail, err := h.posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Delete handles DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	agent := middleware.CurrentAgent(c)
	if err := h.posts.DeletePost(c.Request.Context(), agent.ID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type createCommentRequest struct {
	ParentID *string `json:"parent_id"`
	Content  string  `json:"content"`
}

// CreateComment handles POST /posts/:id/comments.
func (h *PostHandler) CreateComment(c *gin.Context) {
	var in createCommentRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	agent := middleware.CurrentAgent(c)
	comment, err := h.posts.CreateComment(c.Request.Context(), agent.ID, c.Param("id"), in.ParentID, in.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"parent_id":  comment.ParentID,
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	})
}

// DeleteComment handles DELETE /comments/:id.
func (h *PostHandler) DeleteComment(c *gin.Context) {
	agent := middleware.CurrentAgent(c)
	if err := h.posts.DeleteComment(c.Request.Context(), agent.ID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
