package services

import (
	"context"
	"fmt"
	"time"

	"moltbook/internal/metrics"
	"moltbook/internal/pagination"
	"moltbook/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultFeedLimit = 25
	MaxFeedLimit     = 50

	commentListCap = 500
	excerptLen     = 240
	feedCacheTTL   = 30 * time.Second
)

type ScopeKind string

const (
	ScopeGlobal       ScopeKind = "global"
	ScopeSubmolt      ScopeKind = "submolt"
	ScopePersonalized ScopeKind = "personalized"
)

// FeedScope selects which posts a feed draws from.
type FeedScope struct {
	Kind    ScopeKind
	Submolt string // submolt name, ScopeSubmolt only
	AgentID string // reader's agent id, ScopePersonalized only
}

func GlobalScope() FeedScope             { return FeedScope{Kind: ScopeGlobal} }
func SubmoltScope(name string) FeedScope { return FeedScope{Kind: ScopeSubmolt, Submolt: name} }

func PersonalizedScope(id string) FeedScope {
	return FeedScope{Kind: ScopePersonalized, AgentID: id}
}

// FeedItem is one post summary in a feed page.
type FeedItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Kind         string    `json:"kind"`
	Excerpt      string    `json:"excerpt,omitempty"`
	Submolt      string    `json:"submolt"`
	Author       string    `json:"author"`
	Score        int       `json:"score"`
	Upvotes      int       `json:"upvotes"`
	Downvotes    int       `json:"downvotes"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// FeedPage holds up to limit items plus the resume token. NextCursor is
// nil at the end of the feed.
type FeedPage struct {
	Items      []FeedItem `json:"items"`
	NextCursor *string    `json:"next_cursor"`
}

// feedRow is the raw scan target for feed queries.
type feedRow struct {
	ID           string
	Title        string
	Kind         string
	Content      string
	Submolt      string
	Author       string
	Score        int
	Upvotes      int
	Downvotes    int
	CommentCount int
	CreatedAt    time.Time
}

// FeedService assembles ordered, resumable feeds over posts and comments.
//
// Pagination cuts on (created_at, id), which is exact for the new sort and
// approximate for hot/top/rising: when scores move between page fetches, a
// borderline item can show up twice or get skipped. Known tradeoff; the
// rank key itself is not reproducible between requests.
type FeedService struct {
	db     *gorm.DB
	logger *zap.Logger
	cache  *utils.Cache
}

// NewFeedService builds a feed service. cache may be nil to disable the
// global first-page cache.
func NewFeedService(db *gorm.DB, logger *zap.Logger, cache *utils.Cache) *FeedService {
	return &FeedService{db: db, logger: logger, cache: cache}
}

// ListFeed returns one page of the feed for the scope, ordered by the sort
// variant with the (created_at, id) tie-break. A personalized first page
// that comes back empty falls back to the global feed so new agents with
// no follows or subscriptions still see content; cursor pages never fall
// back.
func (s *FeedService) ListFeed(ctx context.Context, scope FeedScope, sort utils.Sort, limit int, cursor *pagination.Cursor) (*FeedPage, error) {
	if limit < 1 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	metrics.FeedQueries.WithLabelValues(string(scope.Kind), string(sort)).Inc()
	start := time.Now()
	defer func() {
		metrics.FeedLatency.WithLabelValues(string(scope.Kind)).Observe(time.Since(start).Seconds())
	}()

	cacheKey := ""
	if s.cache != nil && scope.Kind == ScopeGlobal && cursor == nil {
		cacheKey = fmt.Sprintf("feed:global:%s:%d", sort, limit)
		if cached := s.cache.Get(cacheKey); cached != nil {
			if page, ok := cached.(*FeedPage); ok {
				return page, nil
			}
		}
	}

	rows, err := s.queryPosts(ctx, scope, sort, limit, cursor)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 && cursor == nil && scope.Kind == ScopePersonalized {
		rows, err = s.queryPosts(ctx, GlobalScope(), sort, limit, nil)
		if err != nil {
			return nil, err
		}
	}

	page := buildPage(rows, limit)
	if cacheKey != "" {
		s.cache.Set(cacheKey, page, feedCacheTTL)
	}
	return page, nil
}

func (s *FeedService) queryPosts(ctx context.Context, scope FeedScope, sort utils.Sort, limit int, cursor *pagination.Cursor) ([]feedRow, error) {
	where := "p.deleted_at IS NULL"
	args := make([]interface{}, 0, 6)

	switch scope.Kind {
	case ScopeSubmolt:
		where += " AND s.name = ?"
		args = append(args, scope.Submolt)
	case ScopePersonalized:
		where += ` AND (
			p.author_agent_id IN (SELECT followee_agent_id FROM follows WHERE follower_agent_id = ?)
			OR p.submolt_id IN (SELECT submolt_id FROM submolt_subscriptions WHERE agent_id = ?)
		)`
		args = append(args, scope.AgentID, scope.AgentID)
	}

	if cursor != nil {
		where += " AND (p.created_at < ? OR (p.created_at = ? AND p.id < ?))"
		args = append(args, cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.kind, p.content, s.name AS submolt, a.name AS author,
		       p.score, p.upvotes, p.downvotes, p.comment_count, p.created_at
		FROM posts p
		JOIN submolts s ON s.id = p.submolt_id
		JOIN agents a ON a.id = p.author_agent_id
		WHERE %s
		ORDER BY %s
		LIMIT ?`, where, utils.OrderBy(sort))
	args = append(args, limit+1)

	var rows []feedRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("feed query: %w", err)
	}
	return rows, nil
}

// buildPage trims the limit+1 fetch down to the page and, when the extra
// row proved another page exists, encodes the cursor from the last
// returned item.
func buildPage(rows []feedRow, limit int) *FeedPage {
	page := &FeedPage{Items: make([]FeedItem, 0, limit)}
	n := len(rows)
	if n > limit {
		n = limit
	}
	for _, r := range rows[:n] {
		page.Items = append(page.Items, FeedItem{
			ID:           r.ID,
			Title:        r.Title,
			Kind:         r.Kind,
			Excerpt:      utils.Excerpt(r.Content, excerptLen),
			Submolt:      r.Submolt,
			Author:       r.Author,
			Score:        r.Score,
			Upvotes:      r.Upvotes,
			Downvotes:    r.Downvotes,
			CommentCount: r.CommentCount,
			CreatedAt:    r.CreatedAt,
		})
	}
	if len(rows) > limit {
		last := rows[limit-1]
		token := pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &token
	}
	return page
}

// CommentItem is one comment in a flat post-detail listing.
type CommentItem struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parent_id"`
	Content   string    `json:"content"`
	Score     int       `json:"score"`
	Upvotes   int       `json:"upvotes"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// ListComments returns the live comments of a post as a flat list, capped
// rather than paginated. Clients rebuild the thread from parent_id links,
// or ask for BuildCommentTree's output.
func (s *FeedService) ListComments(ctx context.Context, postID string, sort utils.Sort) ([]CommentItem, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.parent_id, c.content, c.score, c.upvotes, a.name AS author, c.created_at
		FROM comments c
		JOIN agents a ON a.id = c.author_agent_id
		WHERE c.post_id = ? AND c.deleted_at IS NULL
		ORDER BY %s
		LIMIT ?`, utils.CommentOrderBy(sort))

	var rows []CommentItem
	if err := s.db.WithContext(ctx).Raw(query, postID, commentListCap).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("comment query: %w", err)
	}
	return rows, nil
}

// CommentNode is a comment plus its direct replies.
type CommentNode struct {
	CommentItem
	Replies []*CommentNode `json:"replies"`
}

// BuildCommentTree groups a flat comment listing into a reply tree in one
// pass over an id-keyed arena; no recursion touches storage. Input order
// is preserved among siblings. A comment whose parent is missing from the
// listing (deleted, or past the cap) surfaces as a root.
func BuildCommentTree(items []CommentItem) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(items))
	order := make([]*CommentNode, 0, len(items))
	for i := range items {
		n := &CommentNode{CommentItem: items[i], Replies: []*CommentNode{}}
		nodes[items[i].ID] = n
		order = append(order, n)
	}

	roots := make([]*CommentNode, 0, len(items))
	for _, n := range order {
		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// SearchResult is one hit from the search-adjacent feed.
type SearchResult struct {
	Type      string    `json:"type"` // post or comment
	ID        string    `json:"id"`
	PostID    *string   `json:"post_id"`
	Title     *string   `json:"title"`
	Snippet   string    `json:"snippet"`
	Author    string    `json:"author"`
	Submolt   string    `json:"submolt"`
	CreatedAt time.Time `json:"created_at"`
	Score     int       `json:"score"`
}

// Search runs a full-text union over live posts and comments. Relevance
// ranking is the database's; this service only shapes the result set.
func (s *FeedService) Search(ctx context.Context, q string, limit int) ([]SearchResult, error) {
	if limit < 1 || limit > MaxFeedLimit {
		limit = 20
	}

	query := `
		(SELECT 'post' AS type, p.id, NULL AS post_id, p.title AS title,
		        LEFT(COALESCE(p.content, ''), 200) AS snippet,
		        a.name AS author, s.name AS submolt, p.created_at, p.score,
		        ts_rank(to_tsvector('english', p.title || ' ' || COALESCE(p.content, '')),
		                plainto_tsquery('english', ?)) AS relevance
		 FROM posts p
		 JOIN agents a ON a.id = p.author_agent_id
		 JOIN submolts s ON s.id = p.submolt_id
		 WHERE p.deleted_at IS NULL
		   AND to_tsvector('english', p.title || ' ' || COALESCE(p.content, '')) @@ plainto_tsquery('english', ?))
		UNION ALL
		(SELECT 'comment' AS type, c.id, c.post_id AS post_id, NULL AS title,
		        LEFT(c.content, 200) AS snippet,
		        a.name AS author, s.name AS submolt, c.created_at, c.score,
		        ts_rank(to_tsvector('english', c.content), plainto_tsquery('english', ?)) AS relevance
		 FROM comments c
		 JOIN agents a ON a.id = c.author_agent_id
		 JOIN posts p ON p.id = c.post_id
		 JOIN submolts s ON s.id = p.submolt_id
		 WHERE c.deleted_at IS NULL AND p.deleted_at IS NULL
		   AND to_tsvector('english', c.content) @@ plainto_tsquery('english', ?))
		ORDER BY relevance DESC
		LIMIT ?`

	var rows []SearchResult
	if err := s.db.WithContext(ctx).Raw(query, q, q, q, q, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	return rows, nil
}
