package models

import (
	"time"
)

type AuditLog struct {
	ID           string    `gorm:"primaryKey;size:26" json:"id"`
	ActorAgentID string    `gorm:"not null;index;size:26" json:"actor_agent_id"`
	Action       string    `gorm:"size:64;not null" json:"action"` // e.g. "votes.apply"
	Metadata     string    `gorm:"type:jsonb" json:"metadata"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
