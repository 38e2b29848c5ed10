package models

import (
	"time"
)

// APIKey stores only the SHA-256 hex digest of a key. Issuance happens
// outside this service; we just resolve digests to agents.
type APIKey struct {
	ID         string     `gorm:"primaryKey;size:26" json:"id"`
	AgentID    string     `gorm:"not null;index;size:26" json:"agent_id"`
	Agent      Agent      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"agent"`
	KeyHash    string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}
