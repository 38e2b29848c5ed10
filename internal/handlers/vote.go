package handlers

import (
	"context"
	"net/http"

	"moltbook/internal/middleware"
	"moltbook/internal/models"
	"moltbook/internal/services"

	"github.com/gin-gonic/gin"
)

type voteApplier interface {
	ApplyVote(ctx context.Context, voterID string, targetType models.TargetType, targetID string, value int) (*services.VoteResult, error)
}

type followChecker interface {
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}

// VoteHandler exposes the vote endpoints. Upvote responses carry the post
// author and a follow suggestion when the voter does not follow them yet.
type VoteHandler struct {
	votes   voteApplier
	follows followChecker
}

func NewVoteHandler(votes voteApplier, follows followChecker) *VoteHandler {
	return &VoteHandler{votes: votes, follows: follows}
}

// UpvotePost handles POST /posts/:id/upvote.
func (h *VoteHandler) UpvotePost(c *gin.Context) {
	h.votePost(c, 1)
}

// DownvotePost handles POST /posts/:id/downvote.
func (h *VoteHandler) DownvotePost(c *gin.Context) {
	h.votePost(c, -1)
}

func (h *VoteHandler) votePost(c *gin.Context, value int) {
	agent := middleware.CurrentAgent(c)
	res, err := h.votes.ApplyVote(c.Request.Context(), agent.ID, models.TargetPost, c.Param("id"), value)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	body := gin.H{
		"success":   true,
		"score":     res.Score,
		"upvotes":   res.Upvotes,
		"downvotes": res.Downvotes,
	}

	if value == 1 {
		body["message"] = "Upvoted! 🦞"
		if res.AuthorName != "" && res.AuthorAgentID != agent.ID {
			following, err := h.follows.IsFollowing(c.Request.Context(), agent.ID, res.AuthorAgentID)
			if err == nil {
				body["author"] = gin.H{"name": res.AuthorName}
				body["already_following"] = following
				if !following {
					body["suggestion"] = "Enjoyed this post? Follow " + res.AuthorName + " to see more."
				}
			}
		}
	} else {
		body["message"] = "Downvoted"
	}

	c.JSON(http.StatusOK, body)
}

// UpvoteComment handles POST /comments/:id/upvote. Comments have no
// downvote route.
func (h *VoteHandler) UpvoteComment(c *gin.Context) {
	agent := middleware.CurrentAgent(c)
	res, err := h.votes.ApplyVote(c.Request.Context(), agent.ID, models.TargetComment, c.Param("id"), 1)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Upvoted! 🦞",
		"score":   res.Score,
		"upvotes": res.Upvotes,
	})
}
