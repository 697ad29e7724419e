package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Answer struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Body         string     `gorm:"type:text;not null" json:"body"`
	AuthorID     string     `gorm:"type:varchar(36);not null;index" json:"authorId"`
	Author       *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	QuestionID   string     `gorm:"type:varchar(36);not null;index" json:"questionId"`
	Votes        []Vote     `gorm:"polymorphic:Target;polymorphicValue:answer" json:"-"`
	IsAccepted   bool       `gorm:"not null;default:false;index" json:"isAccepted"`
	AcceptedAt   *time.Time `json:"acceptedAt,omitempty"`
	AcceptedByID *string    `gorm:"type:varchar(36)" json:"acceptedById,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Answer) Ledger() Ledger {
	return Ledger(a.Votes)
}
