package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vote(user string, t VoteType) Vote {
	return Vote{UserID: user, Type: t}
}

func TestLedgerScore(t *testing.T) {
	l := Ledger{vote("a", Upvote), vote("b", Upvote), vote("c", Downvote)}
	assert.Equal(t, 1, l.Score())

	up, down := l.Counts()
	assert.Equal(t, 2, up)
	assert.Equal(t, 1, down)

	assert.Equal(t, 0, Ledger(nil).Score())
}

func TestApplyInsertsNewVote(t *testing.T) {
	now := time.Now()
	change := Ledger{}.Apply("alice", Upvote, now)

	require.NotNil(t, change.Added)
	assert.Nil(t, change.Removed)
	assert.Equal(t, "alice", change.Added.UserID)
	assert.Equal(t, now, change.Added.CreatedAt)
	assert.Equal(t, 1, change.Ledger.Score())
	require.NotNil(t, change.UserVote())
	assert.Equal(t, Upvote, *change.UserVote())
}

func TestApplySameDirectionRetracts(t *testing.T) {
	l := Ledger{vote("alice", Upvote), vote("bob", Downvote)}
	change := l.Apply("alice", Upvote, time.Now())

	assert.True(t, change.Retracted())
	assert.Nil(t, change.UserVote())
	assert.Equal(t, -1, change.Ledger.Score())
	assert.Equal(t, -1, change.Ledger.Find("alice"))

	// input ledger is untouched
	assert.Len(t, l, 2)
}

func TestApplyOppositeDirectionFlips(t *testing.T) {
	l := Ledger{vote("alice", Upvote)}
	change := l.Apply("alice", Downvote, time.Now())

	assert.True(t, change.Flipped())
	require.Len(t, change.Ledger, 1)
	assert.Equal(t, Downvote, change.Ledger[0].Type)
	assert.Equal(t, -1, change.Ledger.Score())
}

func TestApplySequenceFromEmpty(t *testing.T) {
	var l Ledger
	scores := []int{}
	for _, dir := range []VoteType{Upvote, Upvote, Downvote} {
		l = l.Apply("alice", dir, time.Now()).Ledger
		scores = append(scores, l.Score())
	}
	assert.Equal(t, []int{1, 0, -1}, scores)
	assert.Len(t, l, 1)
}

func TestApplyRepeatIsInvolution(t *testing.T) {
	start := Ledger{vote("bob", Upvote), vote("carol", Downvote)}
	for _, dir := range []VoteType{Upvote, Downvote} {
		l := start.Apply("alice", dir, time.Now()).Ledger
		l = l.Apply("alice", dir, time.Now()).Ledger
		assert.Equal(t, start.Score(), l.Score())
		assert.Nil(t, l.UserVote("alice"))
	}
}

func TestUserVote(t *testing.T) {
	l := Ledger{vote("alice", Downvote)}
	require.NotNil(t, l.UserVote("alice"))
	assert.Equal(t, Downvote, *l.UserVote("alice"))
	assert.Nil(t, l.UserVote("bob"))
	assert.Nil(t, l.UserVote(""))
}
