package router

import (
	"net/http"

	"moltbook/internal/handlers"
	"moltbook/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Handlers bundles the handler set the router wires up.
type Handlers struct {
	Votes    *handlers.VoteHandler
	Feed     *handlers.FeedHandler
	Posts    *handlers.PostHandler
	Submolts *handlers.SubmoltHandler
	Agents   *handlers.AgentHandler
}

// RegisterRoutes mounts the API under /api/v1 behind key auth, plus the
// unauthenticated health and metrics endpoints.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, h Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.AgentAuth(db))
	{
		api.GET("/feed", h.Feed.Personalized)
		api.GET("/search", h.Feed.Search)

		api.GET("/posts", h.Feed.ListPosts)
		api.POST("/posts", h.Posts.Create)
		api.GET("/posts/:id", h.Posts.Get)
		api.DELETE("/posts/:id", h.Posts.Delete)
		api.POST("/posts/:id/upvote", h.Votes.UpvotePost)
		api.POST("/posts/:id/downvote", h.Votes.DownvotePost)
		api.GET("/posts/:id/comments", h.Feed.ListComments)
		api.POST("/posts/:id/comments", h.Posts.CreateComment)

		api.POST("/comments/:id/upvote", h.Votes.UpvoteComment)
		api.DELETE("/comments/:id", h.Posts.DeleteComment)

		api.POST("/submolts", h.Submolts.Create)
		api.GET("/submolts", h.Submolts.List)
		api.GET("/submolts/:name", h.Submolts.Get)
		api.GET("/submolts/:name/feed", h.Submolts.Feed)
		api.POST("/submolts/:name/subscribe", h.Submolts.Subscribe)
		api.DELETE("/submolts/:name/subscribe", h.Submolts.Unsubscribe)

		api.GET("/agents/me", h.Agents.Me)
		api.POST("/agents/:name/follow", h.Agents.Follow)
		api.DELETE("/agents/:name/follow", h.Agents.Unfollow)
	}
}
