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

const submoltListTTL = 60 * time.Second

// SubmoltService manages communities and their memberships.
type SubmoltService struct {
	db     *gorm.DB
	logger *zap.Logger
	cache  *utils.Cache
}

func NewSubmoltService(db *gorm.DB, logger *zap.Logger, cache *utils.Cache) *SubmoltService {
	return &SubmoltService{db: db, logger: logger, cache: cache}
}

// Create registers a new submolt owned by the caller. Names are
// lowercased; a taken name is ErrConflict.
func (s *SubmoltService) Create(ctx context.Context, creatorID, name, displayName, description string) (*models.Submolt, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidValue)
	}
	if displayName == "" {
		displayName = name
	}

	submolt := models.Submolt{
		ID:               models.NewID(),
		Name:             name,
		DisplayName:      displayName,
		Description:      description,
		CreatedByAgentID: creatorID,
	}
	if err := s.db.WithContext(ctx).Create(&submolt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("submolt %s: %w", name, ErrConflict)
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Delete("submolts:all")
	}
	s.logger.Info("submolt created", zap.String("name", name), zap.String("creator", creatorID))
	return &submolt, nil
}

// List returns all submolts ordered by name. The listing changes rarely,
// so it sits behind a short cache.
func (s *SubmoltService) List(ctx context.Context) ([]models.Submolt, error) {
	if s.cache != nil {
		if cached := s.cache.Get("submolts:all"); cached != nil {
			if list, ok := cached.([]models.Submolt); ok {
				return list, nil
			}
		}
	}

	var list []models.Submolt
	if err := s.db.WithContext(ctx).Order("name").Find(&list).Error; err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set("submolts:all", list, submoltListTTL)
	}
	return list, nil
}

// Get resolves a submolt by name.
func (s *SubmoltService) Get(ctx context.Context, name string) (*models.Submolt, error) {
	var submolt models.Submolt
	err := s.db.WithContext(ctx).Where("name = ?", strings.ToLower(name)).First(&submolt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("submolt %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &submolt, nil
}

// Subscribe adds the agent to the submolt. Subscribing twice is a no-op.
func (s *SubmoltService) Subscribe(ctx context.Context, agentID, name string) error {
	submolt, err := s.Get(ctx, name)
	if err != nil {
		return err
	}

	sub := models.SubmoltSubscription{
		ID:        models.NewID(),
		SubmoltID: submolt.ID,
		AgentID:   agentID,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sub).Error
}

// Unsubscribe removes the agent's subscription. Removing a subscription
// that does not exist is a no-op.
func (s *SubmoltService) Unsubscribe(ctx context.Context, agentID, name string) error {
	submolt, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("submolt_id = ? AND agent_id = ?", submolt.ID, agentID).
		Delete(&models.SubmoltSubscription{}).Error
}
