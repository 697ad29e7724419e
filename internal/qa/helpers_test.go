package qa

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
	"github.com/emilythestrangee/querynet/backend/internal/testutil"
)

type fixture struct {
	svc *Service
	db  *gorm.DB
	ctx context.Context
}

func newFixture(t *testing.T, deliverer ...Deliverer) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := DispatcherConfig{}
	if len(deliverer) > 0 {
		cfg.Deliverer = deliverer[0]
	}
	svc := NewService(db, log, NewDispatcher(db, log, cfg))
	t.Cleanup(svc.Dispatcher().Wait)
	return &fixture{svc: svc, db: db, ctx: context.Background()}
}

func (f *fixture) user(t *testing.T, name string, role ...models.Role) Actor {
	t.Helper()
	u := testutil.SeedUser(t, f.db, name, role...)
	return Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) question(t *testing.T, author Actor, tags ...string) *QuestionView {
	t.Helper()
	if len(tags) == 0 {
		tags = []string{"go"}
	}
	q, err := f.svc.CreateQuestion(f.ctx, author, QuestionInput{
		Title: "How do I test this properly?",
		Body:  strings.Repeat("Body text. ", 5),
		Tags:  tags,
	})
	require.NoError(t, err)
	return q
}

func (f *fixture) answer(t *testing.T, author Actor, questionID string) *AnswerView {
	t.Helper()
	a, err := f.svc.CreateAnswer(f.ctx, author, questionID, strings.Repeat("Answer text. ", 5))
	require.NoError(t, err)
	return a
}

func (f *fixture) stats(t *testing.T, a Actor) models.Stats {
	t.Helper()
	return testutil.ReloadUser(t, f.db, a.ID).Stats
}

func (f *fixture) notifications(t *testing.T, recipient Actor) []models.Notification {
	t.Helper()
	f.svc.Dispatcher().Wait()
	var ns []models.Notification
	require.NoError(t, f.db.Where("recipient_id = ?", recipient.ID).Order("created_at").Find(&ns).Error)
	return ns
}

func (f *fixture) answerRow(t *testing.T, id string) models.Answer {
	t.Helper()
	var a models.Answer
	require.NoError(t, f.db.First(&a, "id = ?", id).Error)
	return a
}

func (f *fixture) questionRow(t *testing.T, id string) models.Question {
	t.Helper()
	var q models.Question
	require.NoError(t, f.db.First(&q, "id = ?", id).Error)
	return q
}
