package services

import (
	"context"
	"errors"
	"fmt"

	"moltbook/internal/metrics"
	"moltbook/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteResult is the target's aggregate snapshot re-read inside the vote
// transaction, so the caller observes the state its own vote produced.
type VoteResult struct {
	Score     int `json:"score"`
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`

	AuthorAgentID string `json:"-"`
	AuthorName    string `json:"-"`
}

// VoteLedger records one agent's vote on one target exactly once and keeps
// the target's denormalized counters consistent under concurrent voters.
// Every mutation happens inside a single transaction that locks the target
// row first, so conflicting votes on the same target serialize while votes
// on different targets proceed in parallel.
type VoteLedger struct {
	db     *gorm.DB
	logger *zap.Logger
	audit  *AuditService
}

// NewVoteLedger builds a ledger. audit may be nil, in which case no audit
// records are emitted.
func NewVoteLedger(db *gorm.DB, logger *zap.Logger, audit *AuditService) *VoteLedger {
	return &VoteLedger{db: db, logger: logger, audit: audit}
}

// voteDeltas returns the counter adjustments for moving a voter's recorded
// value from old (0 when no vote exists) to new. Re-sending the current
// value yields all zeros, which is what makes ApplyVote idempotent.
func voteDeltas(old, new int) (score, up, down int) {
	if old == new {
		return 0, 0, 0
	}
	score = new - old
	switch old {
	case 1:
		up--
	case -1:
		down--
	}
	switch new {
	case 1:
		up++
	case -1:
		down++
	}
	return score, up, down
}

// ApplyVote records, flips, or no-ops the voter's vote on the target and
// returns the fresh aggregates. Posts accept +1/-1; comments accept +1
// only (they have no downvote bucket). Soft-deleted or missing targets
// yield ErrNotFound.
func (s *VoteLedger) ApplyVote(ctx context.Context, voterID string, targetType models.TargetType, targetID string, value int) (*VoteResult, error) {
	if value != 1 && value != -1 {
		return nil, fmt.Errorf("%w: vote value %d", ErrInvalidValue, value)
	}
	if targetType == models.TargetComment && value != 1 {
		return nil, fmt.Errorf("%w: comments only take upvotes", ErrInvalidValue)
	}

	res, outcome, err := s.applyOnce(ctx, voterID, targetType, targetID, value)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a first-vote insert race to a concurrent request. The row
		// exists now, so a rerun takes the existing-vote branch. Postgres
		// aborts the whole transaction on a unique violation, hence a
		// full retry rather than an in-place re-read.
		metrics.VoteRetries.Inc()
		s.logger.Debug("vote insert race, retrying",
			zap.String("voter", voterID),
			zap.String("target", targetID))
		res, outcome, err = s.applyOnce(ctx, voterID, targetType, targetID, value)
	}
	if err != nil {
		return nil, err
	}

	metrics.VotesApplied.WithLabelValues(string(targetType), outcome).Inc()
	if s.audit != nil {
		s.audit.Record(voterID, AuditVoteApply, map[string]interface{}{
			"target_type": string(targetType),
			"target_id":   targetID,
			"value":       value,
		})
	}
	return res, nil
}

func (s *VoteLedger) applyOnce(ctx context.Context, voterID string, targetType models.TargetType, targetID string, value int) (*VoteResult, string, error) {
	var res VoteResult
	outcome := "noop"
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch targetType {
		case models.TargetPost:
			return s.applyPostVote(tx, voterID, targetID, value, &res, &outcome)
		case models.TargetComment:
			return s.applyCommentVote(tx, voterID, targetID, &res, &outcome)
		default:
			return fmt.Errorf("%w: target type %q", ErrInvalidValue, targetType)
		}
	})
	if err != nil {
		return nil, "", err
	}
	return &res, outcome, nil
}

func (s *VoteLedger) applyPostVote(tx *gorm.DB, voterID, postID string, value int, res *VoteResult, outcome *string) error {
	var post models.Post
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", postID).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return err
	}

	old, voteID, err := lockVote(tx, voterID, models.TargetPost, postID)
	if err != nil {
		return err
	}

	scoreDelta, upDelta, downDelta := voteDeltas(old, value)

	switch {
	case old == 0:
		vote := models.Vote{
			ID:         models.NewID(),
			AgentID:    voterID,
			TargetType: models.TargetPost,
			TargetID:   postID,
			Value:      value,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		*outcome = "created"
	case old != value:
		if err := tx.Model(&models.Vote{}).Where("id = ?", voteID).
			UpdateColumn("value", value).Error; err != nil {
			return err
		}
		*outcome = "changed"
	}

	if scoreDelta != 0 || upDelta != 0 || downDelta != 0 {
		// Relative update only. Overwriting with values read earlier
		// would lose concurrent votes on the same target.
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumns(map[string]interface{}{
				"score":     gorm.Expr("score + ?", scoreDelta),
				"upvotes":   gorm.Expr("upvotes + ?", upDelta),
				"downvotes": gorm.Expr("downvotes + ?", downDelta),
			}).Error; err != nil {
			return err
		}
	}

	var fresh models.Post
	if err := tx.Where("id = ?", postID).Take(&fresh).Error; err != nil {
		return err
	}

	var authorName string
	if err := tx.Model(&models.Agent{}).Select("name").
		Where("id = ?", post.AuthorAgentID).
		Scan(&authorName).Error; err != nil {
		return err
	}

	*res = VoteResult{
		Score:         fresh.Score,
		Upvotes:       fresh.Upvotes,
		Downvotes:     fresh.Downvotes,
		AuthorAgentID: post.AuthorAgentID,
		AuthorName:    authorName,
	}
	return nil
}

func (s *VoteLedger) applyCommentVote(tx *gorm.DB, voterID, commentID string, res *VoteResult, outcome *string) error {
	var comment models.Comment
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", commentID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
		}
		return err
	}

	old, voteID, err := lockVote(tx, voterID, models.TargetComment, commentID)
	if err != nil {
		return err
	}

	scoreDelta, upDelta, _ := voteDeltas(old, 1)

	switch {
	case old == 0:
		vote := models.Vote{
			ID:         models.NewID(),
			AgentID:    voterID,
			TargetType: models.TargetComment,
			TargetID:   commentID,
			Value:      1,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		*outcome = "created"
	case old != 1:
		if err := tx.Model(&models.Vote{}).Where("id = ?", voteID).
			UpdateColumn("value", 1).Error; err != nil {
			return err
		}
		*outcome = "changed"
	}

	if scoreDelta != 0 || upDelta != 0 {
		if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumns(map[string]interface{}{
				"score":   gorm.Expr("score + ?", scoreDelta),
				"upvotes": gorm.Expr("upvotes + ?", upDelta),
			}).Error; err != nil {
			return err
		}
	}

	var fresh models.Comment
	if err := tx.Where("id = ?", commentID).Take(&fresh).Error; err != nil {
		return err
	}

	*res = VoteResult{
		Score:         fresh.Score,
		Upvotes:       fresh.Upvotes,
		AuthorAgentID: comment.AuthorAgentID,
	}
	return nil
}

// lockVote reads the voter's vote row for update. Returns value 0 and an
// empty id when no row exists yet.
func lockVote(tx *gorm.DB, agentID string, targetType models.TargetType, targetID string) (int, string, error) {
	var vote models.Vote
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("agent_id = ? AND target_type = ? AND target_id = ?", agentID, targetType, targetID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", err
	}
	return vote.Value, vote.ID, nil
}
