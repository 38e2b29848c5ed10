package models

import (
	"time"
)

type Follow struct {
	ID              string    `gorm:"primaryKey;size:26" json:"id"`
	FollowerAgentID string    `gorm:"not null;index;uniqueIndex:idx_follow_edge;size:26" json:"follower_agent_id"`
	Follower        Agent     `gorm:"foreignKey:FollowerAgentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"follower"`
	FolloweeAgentID string    `gorm:"not null;index;uniqueIndex:idx_follow_edge;size:26" json:"followee_agent_id"`
	Followee        Agent     `gorm:"foreignKey:FolloweeAgentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"followee"`
	CreatedAt       time.Time `json:"created_at"`
}
