package qa

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

const maxNotificationLimit = 50

type NotificationFilter string

const (
	FilterAll    NotificationFilter = "all"
	FilterUnread NotificationFilter = "unread"
	FilterRead   NotificationFilter = "read"
)

type NotificationQuery struct {
	Page   int
	Limit  int
	Filter NotificationFilter
}

// NotificationPage is one page of a recipient's notifications.
type NotificationPage struct {
	Notifications []models.Notification
	Pagination    Pagination
	UnreadCount   int64
}

func (s *Service) ListNotifications(ctx context.Context, actor Actor, nq NotificationQuery) (*NotificationPage, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	page := newPagination(nq.Page, nq.Limit, maxNotificationLimit)
	if nq.Limit <= 0 {
		page.Limit = 20
	}
	db := s.db.WithContext(ctx)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.Notification{}).Where("recipient_id = ?", actor.ID)
		switch nq.Filter {
		case FilterUnread:
			db = db.Where("is_read = ?", false)
		case FilterRead:
			db = db.Where("is_read = ?", true)
		}
		return db
	}

	out := &NotificationPage{}
	var total int64
	if err := db.Scopes(filter).Count(&total).Error; err != nil {
		return nil, internal("Failed to count notifications", err)
	}
	page.setTotal(total)
	out.Pagination = page

	if err := db.Scopes(filter, page.scope).
		Preload("CreatedBy", func(db *gorm.DB) *gorm.DB { return db.Select(models.AuthorColumns) }).
		Order("created_at DESC").
		Find(&out.Notifications).Error; err != nil {
		return nil, internal("Failed to load notifications", err)
	}
	if err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", actor.ID, false).
		Count(&out.UnreadCount).Error; err != nil {
		return nil, internal("Failed to count unread notifications", err)
	}
	return out, nil
}

// MarkRead sets or clears the read flag of one of actor's notifications.
func (s *Service) MarkRead(ctx context.Context, actor Actor, id string, read bool) (*models.Notification, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	db := s.db.WithContext(ctx)
	var readAt any
	if read {
		readAt = s.now()
	}
	res := db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, actor.ID).
		UpdateColumns(map[string]any{"is_read": read, "read_at": readAt})
	if res.Error != nil {
		return nil, internal("Failed to update notification", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotificationMissing
	}

	var n models.Notification
	if err := db.First(&n, "id = ?", id).Error; err != nil {
		return nil, wrapInternal("Failed to load notification", notFound(err, ErrNotificationMissing))
	}
	return &n, nil
}

// MarkAllRead flips every unread notification of actor in one statement
// and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	if actor.ID == "" {
		return 0, ErrUnauthenticated
	}
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", actor.ID, false).
		UpdateColumns(map[string]any{"is_read": true, "read_at": s.now()})
	if res.Error != nil {
		return 0, internal("Failed to mark notifications as read", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Service) DeleteNotification(ctx context.Context, actor Actor, id string) error {
	if actor.ID == "" {
		return ErrUnauthenticated
	}
	res := s.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, actor.ID).Delete(&models.Notification{})
	if res.Error != nil {
		return internal("Failed to delete notification", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotificationMissing
	}
	return nil
}

// PreferencesPatch holds notification preference changes; nil means unchanged.
type PreferencesPatch struct {
	EmailNotifications *bool
	PushNotifications  *bool
	Theme              *string
	Phone              *string
}

func (s *Service) Preferences(ctx context.Context, actor Actor) (*models.Preferences, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", actor.ID).Error; err != nil {
		return nil, wrapInternal("Failed to load preferences", notFound(err, ErrUserNotFound))
	}
	return &u.Preferences, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, actor Actor, p PreferencesPatch) (*models.Preferences, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	updates := map[string]any{}
	if p.EmailNotifications != nil {
		updates["pref_email_notifications"] = *p.EmailNotifications
	}
	if p.PushNotifications != nil {
		updates["pref_push_notifications"] = *p.PushNotifications
	}
	if p.Theme != nil {
		switch *p.Theme {
		case "light", "dark", "system":
		default:
			return nil, Validation("Theme must be light, dark or system")
		}
		updates["pref_theme"] = *p.Theme
	}
	if p.Phone != nil {
		updates["pref_phone"] = *p.Phone
	}
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", actor.ID).UpdateColumns(updates)
		if res.Error != nil {
			return nil, internal("Failed to update preferences", res.Error)
		}
	}
	return s.Preferences(ctx, actor)
}
