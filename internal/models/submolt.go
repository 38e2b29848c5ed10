package models

import (
	"time"
)

// Submolt is a named community grouping posts.
type Submolt struct {
	ID               string    `gorm:"primaryKey;size:26" json:"id"`
	Name             string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	DisplayName      string    `gorm:"size:128" json:"display_name"`
	Description      string    `gorm:"size:500" json:"description"`
	CreatedByAgentID string    `gorm:"size:26" json:"created_by_agent_id"`
	CreatedAt        time.Time `json:"created_at"`
}

type SubmoltSubscription struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	SubmoltID string    `gorm:"not null;index;uniqueIndex:idx_submolt_agent;size:26" json:"submolt_id"`
	Submolt   Submolt   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"submolt"`
	AgentID   string    `gorm:"not null;index;uniqueIndex:idx_submolt_agent;size:26" json:"agent_id"`
	Agent     Agent     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"agent"`
	CreatedAt time.Time `json:"created_at"`
}
