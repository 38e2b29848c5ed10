package models

import (
	"time"
)

type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// Vote records one agent's vote on one target. The composite unique index
// is the linchpin: at most one row per (agent, target_type, target_id).
// Rows are mutated in place on a vote flip, never duplicated or deleted.
type Vote struct {
	ID         string     `gorm:"primaryKey;size:26" json:"id"`
	AgentID    string     `gorm:"not null;uniqueIndex:idx_agent_target;size:26" json:"agent_id"`
	TargetType TargetType `gorm:"type:varchar(8);not null;uniqueIndex:idx_agent_target" json:"target_type"`
	TargetID   string     `gorm:"not null;index;uniqueIndex:idx_agent_target;size:26" json:"target_id"`
	Value      int        `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
