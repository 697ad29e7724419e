package qa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

func TestCreateAnswerSideEffects(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	q := f.question(t, bob)

	a := f.answer(t, alice, q.ID)
	assert.Equal(t, q.ID, a.QuestionID)
	require.NotNil(t, a.Author)
	assert.Equal(t, "alice", a.Author.Username)
	assert.Equal(t, 1, f.stats(t, alice).AnswersGiven)
	assert.False(t, f.questionRow(t, q.ID).LastActivity.Before(q.LastActivity))

	ns := f.notifications(t, bob)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationAnswer, ns[0].Type)
	assert.Contains(t, ns[0].Message, q.Title)
}

func TestCreateAnswerErrors(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")

	_, err := f.svc.CreateAnswer(f.ctx, bob, "missing", strings.Repeat("a", 40))
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	q := f.question(t, bob)
	_, err = f.svc.CreateAnswer(f.ctx, bob, q.ID, "too short")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, 0, f.stats(t, bob).AnswersGiven)
}

func TestDeleteAcceptedAnswerClearsPointer(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	q := f.question(t, bob)
	a := f.answer(t, alice, q.ID)
	_, err := f.svc.VoteAnswer(f.ctx, bob, a.ID, models.Upvote)
	require.NoError(t, err)
	_, err = f.svc.AcceptAnswer(f.ctx, bob, a.ID)
	require.NoError(t, err)

	err = f.svc.DeleteAnswer(f.ctx, bob, a.ID)
	assert.Equal(t, KindAuthorization, KindOf(err))

	require.NoError(t, f.svc.DeleteAnswer(f.ctx, alice, a.ID))

	assert.Nil(t, f.questionRow(t, q.ID).AcceptedAnswerID)
	st := f.stats(t, alice)
	assert.Equal(t, 0, st.AnswersGiven)
	assert.Equal(t, 0, st.AcceptedAnswers)

	var n int64
	f.db.Model(&models.Vote{}).Where("target_id = ?", a.ID).Count(&n)
	assert.Zero(t, n)
}

func TestUpdateAnswer(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	q := f.question(t, bob)
	a := f.answer(t, alice, q.ID)

	body := strings.Repeat("Updated body. ", 4)
	_, err := f.svc.UpdateAnswer(f.ctx, bob, a.ID, body)
	assert.Equal(t, KindAuthorization, KindOf(err))

	got, err := f.svc.UpdateAnswer(f.ctx, alice, a.ID, body)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(body), got.Body)
}

func TestListAnswers(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	q := f.question(t, bob)
	a := f.answer(t, alice, q.ID)
	_, err := f.svc.VoteAnswer(f.ctx, bob, a.ID, models.Downvote)
	require.NoError(t, err)

	views, err := f.svc.ListAnswers(f.ctx, bob.ID, q.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, -1, views[0].VoteScore)
	require.NotNil(t, views[0].UserVote)
	assert.Equal(t, models.Downvote, *views[0].UserVote)

	_, err = f.svc.ListAnswers(f.ctx, "", "missing")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}
