package qa

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/metrics"
	"github.com/emilythestrangee/querynet/backend/internal/models"
)

// Deliverer pushes a stored notification to an out-of-band channel.
type Deliverer interface {
	Deliver(ctx context.Context, to *models.User, n *models.Notification) error
}

// NotificationInput describes a notification to create. Type is taken from
// the payload.
type NotificationInput struct {
	RecipientID string
	Title       string
	Message     string
	Payload     models.Payload
	CreatedByID string
}

type DispatcherConfig struct {
	Timeout   time.Duration
	Deliverer Deliverer
}

// Dispatcher creates notifications outside the request path. Notify never
// blocks the caller and never reports failure; Wait drains in-flight work.
type Dispatcher struct {
	db        *gorm.DB
	log       *slog.Logger
	deliverer Deliverer
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewDispatcher(db *gorm.DB, log *slog.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{db: db, log: log, deliverer: cfg.Deliverer, timeout: cfg.Timeout}
}

// Notify persists (and optionally delivers) in the background.
func (d *Dispatcher) Notify(in NotificationInput) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		n, err := d.Create(ctx, in)
		if err != nil {
			metrics.SideEffectFailures.WithLabelValues("notification").Inc()
			d.log.Warn("notification dropped", "recipient", in.RecipientID, "error", err)
			return
		}
		if d.deliverer == nil {
			return
		}
		if err := d.deliver(ctx, n); err != nil {
			metrics.SideEffectFailures.WithLabelValues("delivery").Inc()
			d.log.Warn("notification delivery failed", "notification_id", n.ID, "error", err)
		}
	}()
}

// Wait blocks until every Notify call has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Create stores a notification synchronously.
func (d *Dispatcher) Create(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	if in.RecipientID == "" {
		return nil, Validation("Notification recipient is required")
	}
	if in.Payload == nil {
		return nil, Validation("Notification payload is required")
	}
	data, err := models.EncodePayload(in.Payload)
	if err != nil {
		return nil, err
	}

	n := &models.Notification{
		RecipientID: in.RecipientID,
		Type:        in.Payload.Kind(),
		Title:       truncate(in.Title, models.MaxNotificationTitle),
		Message:     truncate(in.Message, models.MaxNotificationMessage),
		Data:        data,
	}
	if in.CreatedByID != "" {
		n.CreatedByID = &in.CreatedByID
	}
	if err := d.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, fmt.Errorf("create %s notification: %w", n.Type, err)
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
	return n, nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *models.Notification) error {
	var to models.User
	if err := d.db.WithContext(ctx).First(&to, "id = ?", n.RecipientID).Error; err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}
	if !to.Preferences.PushNotifications || to.Preferences.Phone == "" {
		return nil
	}
	return d.deliverer.Deliver(ctx, &to, n)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-3]) + "..."
}
