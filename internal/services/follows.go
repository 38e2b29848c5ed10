package services

import (
	"context"
	"errors"
	"fmt"

	"moltbook/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowService manages agent-to-agent follow edges.
type FollowService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewFollowService(db *gorm.DB, logger *zap.Logger) *FollowService {
	return &FollowService{db: db, logger: logger}
}

// Follow creates a follow edge from the caller to the named agent.
// Following twice is a no-op; following yourself is an error.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeName string) error {
	followee, err := s.agentByName(ctx, followeeName)
	if err != nil {
		return err
	}
	if followee.ID == followerID {
		return ErrSelfFollow
	}

	edge := models.Follow{
		ID:              models.NewID(),
		FollowerAgentID: followerID,
		FolloweeAgentID: followee.ID,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error
}

// Unfollow removes the edge; removing a missing edge is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeName string) error {
	followee, err := s.agentByName(ctx, followeeName)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("follower_agent_id = ? AND followee_agent_id = ?", followerID, followee.ID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether follower already follows followee by id.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_agent_id = ? AND followee_agent_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *FollowService) agentByName(ctx context.Context, name string) (*models.Agent, error) {
	var agent models.Agent
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&agent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("agent %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}
