package models

import (
	"time"

	"gorm.io/gorm"
)

type PostKind string

const (
	PostText PostKind = "text"
	PostLink PostKind = "link"
)

// Post aggregates (score, upvotes, downvotes, comment_count) are
// denormalized counters. They are mutated only with relative updates inside
// the transaction that holds the row lock; score == upvotes - downvotes.
type Post struct {
	ID            string         `gorm:"primaryKey;size:26" json:"id"`
	SubmoltID     string         `gorm:"not null;index;size:26" json:"submolt_id"`
	Submolt       Submolt        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"submolt"`
	AuthorAgentID string         `gorm:"not null;index;size:26" json:"author_agent_id"`
	Author        Agent          `gorm:"foreignKey:AuthorAgentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Title         string         `gorm:"size:300;not null" json:"title"`
	Kind          PostKind       `gorm:"type:varchar(8);not null" json:"kind"`
	Content       string         `gorm:"type:text" json:"content"`
	URL           string         `gorm:"size:2048" json:"url"`
	Score         int            `gorm:"not null;default:0" json:"score"`
	Upvotes       int            `gorm:"not null;default:0" json:"upvotes"`
	Downvotes     int            `gorm:"not null;default:0" json:"downvotes"`
	CommentCount  int            `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
