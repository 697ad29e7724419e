package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationAnswer   NotificationType = "answer"
	NotificationComment  NotificationType = "comment"
	NotificationQuestion NotificationType = "question"
	NotificationBadge    NotificationType = "badge"
	NotificationMention  NotificationType = "mention"
	NotificationVote     NotificationType = "vote"
	NotificationAccept   NotificationType = "accept"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationAnswer, NotificationComment, NotificationQuestion, NotificationBadge,
		NotificationMention, NotificationVote, NotificationAccept:
		return true
	}
	return false
}

const (
	MaxNotificationTitle   = 200
	MaxNotificationMessage = 500
)

type Notification struct {
	ID          string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	RecipientID string           `gorm:"type:varchar(36);not null;index:idx_notifications_recipient_read,priority:1" json:"recipient"`
	Type        NotificationType `gorm:"type:varchar(16);not null" json:"type"`
	Title       string           `gorm:"type:varchar(200);not null" json:"title"`
	Message     string           `gorm:"type:varchar(500);not null" json:"message"`
	IsRead      bool             `gorm:"not null;default:false;index:idx_notifications_recipient_read,priority:2" json:"isRead"`
	ReadAt      *time.Time       `json:"readAt,omitempty"`
	Data        datatypes.JSON   `json:"data,omitempty"`
	CreatedByID *string          `gorm:"type:varchar(36)" json:"createdById,omitempty"`
	CreatedBy   *User            `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	CreatedAt   time.Time        `gorm:"index" json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// Payload decodes the tagged data payload; nil when none was attached.
func (n *Notification) Payload() (Payload, error) {
	if len(n.Data) == 0 {
		return nil, nil
	}
	return DecodePayload(n.Data)
}
