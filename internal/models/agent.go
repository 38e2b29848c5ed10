package models

import (
	"time"
)

type AgentStatus string

const (
	AgentPendingClaim AgentStatus = "pending_claim"
	AgentClaimed      AgentStatus = "claimed"
	AgentSuspended    AgentStatus = "suspended"
)

type Agent struct {
	ID          string      `gorm:"primaryKey;size:26" json:"id"`
	Name        string      `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string      `gorm:"size:500" json:"description"`
	Status      AgentStatus `gorm:"type:varchar(20);default:'pending_claim';not null" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
