package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteType is the direction of a single vote.
type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

// Valid reports whether t is one of the two accepted directions.
func (t VoteType) Valid() bool {
	return t == Upvote || t == Downvote
}

// Polymorphic owner values stored in votes.target_type.
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

// Vote model - one row per (target, voter); the unique index backs the
// one-vote-per-voter rule
type Vote struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"-"`
	TargetID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_votes_target_user,priority:2" json:"-"`
	TargetType string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_votes_target_user,priority:1" json:"-"`
	UserID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_votes_target_user,priority:3;index" json:"user"`
	Type       VoteType  `gorm:"type:varchar(8);not null" json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
