package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionStatus string

const (
	StatusOpen      QuestionStatus = "open"
	StatusClosed    QuestionStatus = "closed"
	StatusDuplicate QuestionStatus = "duplicate"
)

type Question struct {
	ID       string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title    string                      `gorm:"type:varchar(200);not null" json:"title"`
	Body     string                      `gorm:"type:text;not null" json:"body"`
	AuthorID string                      `gorm:"type:varchar(36);not null;index" json:"authorId"`
	Author   *User                       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags     datatypes.JSONSlice[string] `json:"tags"`
	Votes    []Vote                      `gorm:"polymorphic:Target;polymorphicValue:question" json:"-"`
	Views    int                         `gorm:"not null;default:0" json:"views"`
	Status   QuestionStatus              `gorm:"type:varchar(16);not null;default:open;index" json:"status"`

	AcceptedAnswerID *string    `gorm:"type:varchar(36)" json:"acceptedAnswerId,omitempty"`
	DuplicateOfID    *string    `gorm:"type:varchar(36)" json:"duplicateOfId,omitempty"`
	ClosedReason     string     `json:"closedReason,omitempty"`
	ClosedByID       *string    `gorm:"type:varchar(36)" json:"closedById,omitempty"`
	ClosedAt         *time.Time `json:"closedAt,omitempty"`

	IsPinned     bool      `gorm:"not null;default:false" json:"isPinned"`
	IsFeatured   bool      `gorm:"not null;default:false" json:"isFeatured"`
	LastActivity time.Time `gorm:"index" json:"lastActivity"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave refreshes lastActivity on every create and update that goes
// through hooks. UpdateColumn (view counting) skips it on purpose.
func (q *Question) BeforeSave(tx *gorm.DB) error {
	tx.Statement.SetColumn("LastActivity", time.Now().UTC())
	return nil
}

// Ledger returns the question's votes as a Ledger.
func (q *Question) Ledger() Ledger {
	return Ledger(q.Votes)
}

// IsAuthor reports whether userID wrote the question.
func (q *Question) IsAuthor(userID string) bool {
	return userID != "" && q.AuthorID == userID
}
