package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moltbook/internal/models"
	"moltbook/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxTitleLen = 300

// PostDetail is a full post view, content rendered for display.
type PostDetail struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Kind         string    `json:"kind"`
	Content      string    `json:"content"`
	ContentHTML  string    `json:"content_html,omitempty"`
	URL          string    `json:"url,omitempty"`
	Submolt      string    `json:"submolt"`
	Author       string    `json:"author"`
	Score        int       `json:"score"`
	Upvotes      int       `json:"upvotes"`
	Downvotes    int       `json:"downvotes"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreatePostInput carries the writable fields of a new post. A non-empty
// URL makes a link post, otherwise a text post.
type CreatePostInput struct {
	Submolt string `json:"submolt"`
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// PostService owns the post and comment write path plus single-post reads.
// Feed-shaped reads live in FeedService.
type PostService struct {
	db     *gorm.DB
	logger *zap.Logger
	audit  *AuditService
}

func NewPostService(db *gorm.DB, logger *zap.Logger, audit *AuditService) *PostService {
	return &PostService{db: db, logger: logger, audit: audit}
}

// CreatePost inserts a post into the named submolt. The author must exist;
// the submolt is resolved by name and a miss is ErrNotFound.
func (s *PostService) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*PostDetail, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidValue)
	}
	if len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title too long", ErrInvalidValue)
	}

	var submolt models.Submolt
	err := s.db.WithContext(ctx).Where("name = ?", strings.ToLower(in.Submolt)).First(&submolt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("submolt %s: %w", in.Submolt, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	kind := models.PostText
	if strings.TrimSpace(in.URL) != "" {
		kind = models.PostLink
	}

	post := models.Post{
		ID:            models.NewID(),
		SubmoltID:     submolt.ID,
		AuthorAgentID: authorID,
		Title:         title,
		Kind:          kind,
		Content:       in.Content,
		URL:           strings.TrimSpace(in.URL),
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.Record(authorID, AuditPostCreate, map[string]interface{}{
			"post_id": post.ID,
			"submolt": submolt.Name,
		})
	}
	s.logger.Info("post created",
		zap.String("post", post.ID),
		zap.String("submolt", submolt.Name),
		zap.String("author", authorID))

	return s.GetPost(ctx, post.ID)
}

// GetPost returns one live post with rendered content.
func (s *PostService) GetPost(ctx context.Context, postID string) (*PostDetail, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Submolt").Preload("Author").
		Where("id = ?", postID).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{
		ID:           post.ID,
		Title:        post.Title,
		Kind:         string(post.Kind),
		Content:      post.Content,
		URL:          post.URL,
		Submolt:      post.Submolt.Name,
		Author:       post.Author.Name,
		Score:        post.Score,
		Upvotes:      post.Upvotes,
		Downvotes:    post.Downvotes,
		CommentCount: post.CommentCount,
		CreatedAt:    post.CreatedAt,
	}
	if post.Kind == models.PostText && post.Content != "" {
		detail.ContentHTML = utils.RenderMarkdown(post.Content)
	}
	return detail, nil
}

// DeletePost soft-deletes the caller's own post. Votes and comments stay
// in place; the tombstone hides the post from feeds and reads.
func (s *PostService) DeletePost(ctx context.Context, agentID, postID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND author_agent_id = ?", postID, agentID).
		Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	if s.audit != nil {
		s.audit.Record(agentID, AuditPostDelete, map[string]interface{}{"post_id": postID})
	}
	return nil
}

// CreateComment adds a comment or reply under a live post and bumps the
// post's comment_count in the same transaction. A parent, when given, must
// be a live comment on the same post.
func (s *PostService) CreateComment(ctx context.Context, authorID, postID string, parentID *string, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidValue)
	}

	comment := models.Comment{
		ID:            models.NewID(),
		PostID:        postID,
		AuthorAgentID: authorID,
		ParentID:      parentID,
		Content:       content,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", postID).
			First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("post %s: %w", postID, ErrNotFound)
			}
			return err
		}

		if parentID != nil {
			var parent models.Comment
			err := tx.Where("id = ? AND post_id = ?", *parentID, postID).First(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parent comment %s: %w", *parentID, ErrNotFound)
			}
			if err != nil {
				return err
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.Record(authorID, AuditCommentCreate, map[string]interface{}{
			"comment_id": comment.ID,
			"post_id":    postID,
		})
	}
	return &comment, nil
}

// DeleteComment soft-deletes the caller's own comment and decrements the
// post's comment_count. Replies keep their parent_id; tree assembly
// reparents them to the root level when the parent is gone.
func (s *PostService) DeleteComment(ctx context.Context, agentID, commentID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		err := tx.Where("id = ? AND author_agent_id = ?", commentID, agentID).First(&comment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.Comment{}, "id = ?", commentID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - ?", 1)).Error
	})
	if err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.Record(agentID, AuditCommentDelete, map[string]interface{}{"comment_id": commentID})
	}
	return nil
}
