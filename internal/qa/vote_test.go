package qa

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

func TestVoteToggleSequence(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	q := f.question(t, bob)
	a1 := f.answer(t, bob, q.ID)

	steps := []struct {
		dir      models.VoteType
		score    int
		userVote *models.VoteType
	}{
		{models.Upvote, 1, ptr(models.Upvote)},
		{models.Upvote, 0, nil},
		{models.Downvote, -1, ptr(models.Downvote)},
	}
	for _, st := range steps {
		res, err := f.svc.VoteAnswer(f.ctx, alice, a1.ID, st.dir)
		require.NoError(t, err)
		assert.Equal(t, st.score, res.VoteScore)
		assert.Equal(t, st.userVote, res.UserVote)
	}

	var votes []models.Vote
	require.NoError(t, f.db.Where("target_type = ? AND target_id = ?", models.TargetAnswer, a1.ID).Find(&votes).Error)
	require.Len(t, votes, 1)
	assert.Equal(t, models.Downvote, votes[0].Type)
	assert.Equal(t, alice.ID, votes[0].UserID)
}

func TestVoteFlipKeepsSingleEntry(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	carol := f.user(t, "carol")
	q := f.question(t, bob)

	_, err := f.svc.VoteQuestion(f.ctx, carol, q.ID, models.Upvote)
	require.NoError(t, err)
	_, err = f.svc.VoteQuestion(f.ctx, alice, q.ID, models.Upvote)
	require.NoError(t, err)
	res, err := f.svc.VoteQuestion(f.ctx, alice, q.ID, models.Downvote)
	require.NoError(t, err)
	assert.Equal(t, 0, res.VoteScore)

	var n int64
	f.db.Model(&models.Vote{}).Where("target_id = ? AND user_id = ?", q.ID, alice.ID).Count(&n)
	assert.Equal(t, int64(1), n)

	detail, err := f.svc.GetQuestion(f.ctx, alice.ID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, detail.Question.VoteScore)
	require.NotNil(t, detail.Question.UserVote)
	assert.Equal(t, models.Downvote, *detail.Question.UserVote)
}

func TestVoteRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	q := f.question(t, bob)

	_, err := f.svc.VoteQuestion(f.ctx, bob, q.ID, models.VoteType("sideways"))
	assert.ErrorIs(t, err, ErrInvalidVoteType)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.svc.VoteQuestion(f.ctx, Actor{}, q.ID, models.Upvote)
	assert.Equal(t, KindAuthentication, KindOf(err))

	_, err = f.svc.VoteAnswer(f.ctx, bob, "missing", models.Upvote)
	assert.ErrorIs(t, err, ErrAnswerNotFound)
	_, err = f.svc.VoteQuestion(f.ctx, bob, "missing", models.Upvote)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestUpvoteNotifiesAuthorOnce(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	q := f.question(t, bob)

	_, err := f.svc.VoteQuestion(f.ctx, bob, q.ID, models.Upvote) // self vote
	require.NoError(t, err)
	_, err = f.svc.VoteQuestion(f.ctx, alice, q.ID, models.Downvote)
	require.NoError(t, err)
	_, err = f.svc.VoteQuestion(f.ctx, alice, q.ID, models.Upvote) // flip
	require.NoError(t, err)

	ns := f.notifications(t, bob)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationVote, ns[0].Type)
	require.NotNil(t, ns[0].CreatedByID)
	assert.Equal(t, alice.ID, *ns[0].CreatedByID)

	p, err := ns[0].Payload()
	require.NoError(t, err)
	vp, ok := p.(*models.VotePayload)
	require.True(t, ok)
	assert.Equal(t, q.ID, vp.QuestionID)
	assert.Empty(t, vp.AnswerID)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.Join(errors.New("insert"), &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func ptr[T any](v T) *T { return &v }
