package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment forms a tree via ParentID. Comments only take upvotes, so
// score == upvotes; there is deliberately no downvotes column.
type Comment struct {
	ID            string         `gorm:"primaryKey;size:26" json:"id"`
	PostID        string         `gorm:"not null;index;size:26" json:"post_id"`
	Post          Post           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	AuthorAgentID string         `gorm:"not null;index;size:26" json:"author_agent_id"`
	Author        Agent          `gorm:"foreignKey:AuthorAgentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	ParentID      *string        `gorm:"index;size:26" json:"parent_id"` // nil for top-level comments
	Content       string         `gorm:"type:text;not null" json:"content"`
	Score         int            `gorm:"not null;default:0" json:"score"`
	Upvotes       int            `gorm:"not null;default:0" json:"upvotes"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
