package models

import "time"

// Ledger is the set of votes attached to one question or answer. Order is
// irrelevant; at most one entry exists per voter.
type Ledger []Vote

// Score reduces the ledger to upvotes minus downvotes.
func (l Ledger) Score() int {
	score := 0
	for _, v := range l {
		if v.Type == Upvote {
			score++
		} else {
			score--
		}
	}
	return score
}

// Counts returns the number of upvotes and downvotes.
func (l Ledger) Counts() (up, down int) {
	for _, v := range l {
		if v.Type == Upvote {
			up++
		} else {
			down++
		}
	}
	return up, down
}

// Find returns the index of voterID's vote, or -1.
func (l Ledger) Find(voterID string) int {
	for i, v := range l {
		if v.UserID == voterID {
			return i
		}
	}
	return -1
}

// UserVote returns the direction voterID currently holds, or nil.
func (l Ledger) UserVote(voterID string) *VoteType {
	if voterID == "" {
		return nil
	}
	if i := l.Find(voterID); i >= 0 {
		t := l[i].Type
		return &t
	}
	return nil
}

// VoteChange describes how a ledger moved after Apply.
type VoteChange struct {
	Removed *Vote
	Added   *Vote
	Ledger  Ledger
}

// Retracted is true when the voter repeated their direction and the vote was dropped.
func (c VoteChange) Retracted() bool {
	return c.Removed != nil && c.Added == nil
}

// Flipped is true when an opposite vote replaced the old one.
func (c VoteChange) Flipped() bool {
	return c.Removed != nil && c.Added != nil
}

// UserVote is the voter's direction after the change; nil after a retraction.
func (c VoteChange) UserVote() *VoteType {
	if c.Added == nil {
		return nil
	}
	t := c.Added.Type
	return &t
}

// Apply runs toggle semantics for voterID without mutating l:
// same direction removes the vote, opposite direction replaces it,
// no prior vote inserts one. The added vote carries no target; callers
// persisting it fill TargetType and TargetID.
func (l Ledger) Apply(voterID string, dir VoteType, now time.Time) VoteChange {
	next := make(Ledger, 0, len(l)+1)
	var change VoteChange

	for i := range l {
		if l[i].UserID == voterID && change.Removed == nil {
			removed := l[i]
			change.Removed = &removed
			continue
		}
		next = append(next, l[i])
	}

	if change.Removed == nil || change.Removed.Type != dir {
		added := Vote{UserID: voterID, Type: dir, CreatedAt: now}
		change.Added = &added
		next = append(next, added)
	}

	change.Ledger = next
	return change
}
