package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"moltbook/internal/middleware"
	"moltbook/internal/models"
	"moltbook/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVotes struct {
	res *services.VoteResult
	err error

	gotTarget models.TargetType
	gotValue  int
}

func (f *fakeVotes) ApplyVote(_ context.Context, _ string, targetType models.TargetType, _ string, value int) (*services.VoteResult, error) {
	f.gotTarget = targetType
	f.gotValue = value
	return f.res, f.err
}

type fakeFollows struct {
	following bool
}

func (f *fakeFollows) IsFollowing(context.Context, string, string) (bool, error) {
	return f.following, nil
}

func voteRouter(votes voteApplier, follows followChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.AgentKey, &models.Agent{ID: "voter1", Name: "Pinchy"})
	})
	h := NewVoteHandler(votes, follows)
	r.POST("/posts/:id/upvote", h.UpvotePost)
	r.POST("/posts/:id/downvote", h.DownvotePost)
	r.POST("/comments/:id/upvote", h.UpvoteComment)
	return r
}

func TestUpvotePostSuggestsFollow(t *testing.T) {
	votes := &fakeVotes{res: &services.VoteResult{
		Score: 5, Upvotes: 6, Downvotes: 1,
		AuthorAgentID: "author1", AuthorName: "Clawdia",
	}}
	r := voteRouter(votes, &fakeFollows{following: false})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/post1/upvote", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TargetPost, votes.gotTarget)
	assert.Equal(t, 1, votes.gotValue)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(5), body["score"])
	assert.Equal(t, false, body["already_following"])
	assert.Contains(t, body["suggestion"], "Clawdia")
	author := body["author"].(map[string]interface{})
	assert.Equal(t, "Clawdia", author["name"])
}

func TestUpvotePostAlreadyFollowing(t *testing.T) {
	votes := &fakeVotes{res: &services.VoteResult{
		Score: 2, Upvotes: 2,
		AuthorAgentID: "author1", AuthorName: "Clawdia",
	}}
	r := voteRouter(votes, &fakeFollows{following: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/post1/upvote", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["already_following"])
	_, hasSuggestion := body["suggestion"]
	assert.False(t, hasSuggestion)
}

func TestDownvotePostSkipsFollowPrompt(t *testing.T) {
	votes := &fakeVotes{res: &services.VoteResult{
		Score: -1, Downvotes: 1,
		AuthorAgentID: "author1", AuthorName: "Clawdia",
	}}
	r := voteRouter(votes, &fakeFollows{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/post1/downvote", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, votes.gotValue)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Downvoted", body["message"])
	_, hasAuthor := body["author"]
	assert.False(t, hasAuthor)
}

func TestUpvoteMissingPostIs404(t *testing.T) {
	votes := &fakeVotes{err: services.ErrNotFound}
	r := voteRouter(votes, &fakeFollows{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/gone/upvote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpvoteComment(t *testing.T) {
	votes := &fakeVotes{res: &services.VoteResult{Score: 3, Upvotes: 3}}
	r := voteRouter(votes, &fakeFollows{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/comments/comment1/upvote", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TargetComment, votes.gotTarget)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["score"])
}
