package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

func acceptedCount(t *testing.T, f *fixture, questionID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Answer{}).
		Where("question_id = ? AND is_accepted = ?", questionID, true).Count(&n).Error)
	return n
}

func TestAcceptReplacesPreviousAnswer(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	dave := f.user(t, "dave")
	q := f.question(t, bob)
	a1 := f.answer(t, alice, q.ID)
	a2 := f.answer(t, dave, q.ID)

	got, err := f.svc.AcceptAnswer(f.ctx, bob, a1.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAccepted)
	assert.Equal(t, 1, f.stats(t, alice).AcceptedAnswers)

	_, err = f.svc.AcceptAnswer(f.ctx, bob, a2.ID)
	require.NoError(t, err)

	assert.False(t, f.answerRow(t, a1.ID).IsAccepted)
	assert.Nil(t, f.answerRow(t, a1.ID).AcceptedAt)
	row2 := f.answerRow(t, a2.ID)
	assert.True(t, row2.IsAccepted)
	require.NotNil(t, row2.AcceptedByID)
	assert.Equal(t, bob.ID, *row2.AcceptedByID)

	qrow := f.questionRow(t, q.ID)
	require.NotNil(t, qrow.AcceptedAnswerID)
	assert.Equal(t, a2.ID, *qrow.AcceptedAnswerID)
	assert.Equal(t, int64(1), acceptedCount(t, f, q.ID))

	assert.Equal(t, 0, f.stats(t, alice).AcceptedAnswers)
	assert.Equal(t, 1, f.stats(t, dave).AcceptedAnswers)
}

func TestAcceptSameAnswerTwiceIsNoop(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	q := f.question(t, bob)
	a1 := f.answer(t, alice, q.ID)

	_, err := f.svc.AcceptAnswer(f.ctx, bob, a1.ID)
	require.NoError(t, err)
	_, err = f.svc.AcceptAnswer(f.ctx, bob, a1.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, f.stats(t, alice).AcceptedAnswers)
	assert.Equal(t, int64(1), acceptedCount(t, f, q.ID))

	accepts := 0
	for _, n := range f.notifications(t, alice) {
		if n.Type == models.NotificationAccept {
			accepts++
		}
	}
	assert.Equal(t, 1, accepts)
}

func TestAcceptRejectsNonAuthor(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	carol := f.user(t, "carol")
	admin := f.user(t, "root", models.RoleAdmin)
	q := f.question(t, bob)
	a1 := f.answer(t, alice, q.ID)

	for _, actor := range []Actor{carol, alice, admin} {
		_, err := f.svc.AcceptAnswer(f.ctx, actor, a1.ID)
		require.ErrorIs(t, err, ErrNotQuestionAuthor)
		assert.Equal(t, KindAuthorization, KindOf(err))
	}

	assert.False(t, f.answerRow(t, a1.ID).IsAccepted)
	assert.Nil(t, f.questionRow(t, q.ID).AcceptedAnswerID)
	assert.Equal(t, 0, f.stats(t, alice).AcceptedAnswers)
}

func TestAcceptMissingAnswer(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")

	_, err := f.svc.AcceptAnswer(f.ctx, bob, "nope")
	assert.ErrorIs(t, err, ErrAnswerNotFound)

	_, err = f.svc.AcceptAnswer(f.ctx, Actor{}, "nope")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAcceptOwnAnswerSkipsNotification(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	q := f.question(t, bob)
	a := f.answer(t, bob, q.ID)

	_, err := f.svc.AcceptAnswer(f.ctx, bob, a.ID)
	require.NoError(t, err)
	assert.Empty(t, f.notifications(t, bob))
	assert.Equal(t, 1, f.stats(t, bob).AcceptedAnswers)
}

func TestAcceptAnswerNotifiesAuthor(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	q := f.question(t, bob)
	a := f.answer(t, alice, q.ID)

	_, err := f.svc.AcceptAnswer(f.ctx, bob, a.ID)
	require.NoError(t, err)

	ns := f.notifications(t, alice)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationAccept, ns[0].Type)
	p, err := ns[0].Payload()
	require.NoError(t, err)
	assert.Equal(t, &models.AcceptPayload{QuestionID: q.ID, AnswerID: a.ID, URL: "/questions/" + q.ID}, p)
}
