// Package qa implements questions, answers, voting, acceptance and
// notifications on top of gorm.
package qa

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// canModify reports whether a may edit or remove content written by authorID.
func (a Actor) canModify(authorID string) bool {
	return a.ID != "" && (a.ID == authorID || a.IsAdmin())
}

type Service struct {
	db       *gorm.DB
	log      *slog.Logger
	notifier *Dispatcher
	now      func() time.Time
}

func NewService(db *gorm.DB, log *slog.Logger, notifier *Dispatcher) *Service {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = NewDispatcher(db, log, DispatcherConfig{})
	}
	return &Service{
		db:       db,
		log:      log,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Dispatcher exposes the notification dispatcher so callers can drain it on shutdown.
func (s *Service) Dispatcher() *Dispatcher { return s.notifier }

func (s *Service) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// wrapInternal leaves *Error values alone and marks everything else internal.
func wrapInternal(msg string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return internal(msg, err)
}
