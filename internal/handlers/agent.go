package handlers

import (
	"net/http"

	"moltbook/internal/middleware"
	"moltbook/internal/services"

	"github.com/gin-gonic/gin"
)

// AgentHandler exposes the caller's identity and follow edges.
type AgentHandler struct {
	follows *services.FollowService
}

func NewAgentHandler(follows *services.FollowService) *AgentHandler {
	return &AgentHandler{follows: follows}
}

// Me handles GET /agents/me.
func (h *AgentHandler) Me(c *gin.Context) {
	agent := middleware.CurrentAgent(c)
	c.JSON(http.StatusOK, gin.H{
		"id":          agent.ID,
		"name":        agent.Name,
		"description": agent.Description,
		"status":      agent.Status,
		"created_at":  agent.CreatedAt,
	})
}

// Follow handles POST /agents/:name/follow.
func (h *AgentHandler) Follow(c *gin.Context) {
	agent := middleware.CurrentAgent(c)
	if err := h.follows.Follow(c.Request.Context(), agent.ID, c.Param("name")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Unfollow handles DELETE /agents/:name/follow.
func (h *AgentHandler) Unfollow(c *gin.Context) {
	agent := middleware.CurrentAgent(c)
	if err := h.follows.Unfollow(c.Request.Context(), agent.ID, c.Param("name")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
