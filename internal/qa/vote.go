package qa

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/metrics"
	"github.com/emilythestrangee/querynet/backend/internal/models"
)

// voteTarget is the slice of a question or answer a vote needs.
type voteTarget struct {
	kind       string
	id         string
	authorID   string
	questionID string
	title      string
}

// VoteQuestion toggles actor's vote on a question.
func (s *Service) VoteQuestion(ctx context.Context, actor Actor, questionID string, dir models.VoteType) (*VoteResult, error) {
	return s.vote(ctx, actor, models.TargetQuestion, questionID, dir)
}

// VoteAnswer toggles actor's vote on an answer.
func (s *Service) VoteAnswer(ctx context.Context, actor Actor, answerID string, dir models.VoteType) (*VoteResult, error) {
	return s.vote(ctx, actor, models.TargetAnswer, answerID, dir)
}

func (s *Service) vote(ctx context.Context, actor Actor, kind, id string, dir models.VoteType) (*VoteResult, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	if !dir.Valid() {
		return nil, ErrInvalidVoteType
	}

	var (
		target voteTarget
		change models.VoteChange
	)
	run := func() error {
		return s.tx(ctx, func(tx *gorm.DB) error {
			var err error
			if target, err = loadVoteTarget(tx, kind, id); err != nil {
				return err
			}

			var votes []models.Vote
			if err := tx.Where("target_type = ? AND target_id = ?", kind, id).Find(&votes).Error; err != nil {
				return fmt.Errorf("load ledger: %w", err)
			}

			change = models.Ledger(votes).Apply(actor.ID, dir, s.now())
			if change.Removed != nil {
				if err := tx.Delete(&models.Vote{}, "id = ?", change.Removed.ID).Error; err != nil {
					return fmt.Errorf("remove vote: %w", err)
				}
			}
			if change.Added != nil {
				change.Added.TargetType = kind
				change.Added.TargetID = id
				if err := tx.Create(change.Added).Error; err != nil {
					return fmt.Errorf("add vote: %w", err)
				}
			}
			if kind == models.TargetQuestion {
				return tx.Model(&models.Question{}).Where("id = ?", id).
					UpdateColumn("last_activity", s.now()).Error
			}
			return nil
		})
	}

	err := run()
	if err != nil && isUniqueViolation(err) {
		// a concurrent request by the same voter won; replay against its ledger
		err = run()
		if err != nil && isUniqueViolation(err) {
			return nil, ErrVoteConflict
		}
	}
	if err != nil {
		return nil, wrapInternal("Failed to record vote", err)
	}

	metrics.Votes.WithLabelValues(kind, voteOutcome(change)).Inc()
	if change.Added != nil && change.Added.Type == models.Upvote && target.authorID != actor.ID {
		s.notifyUpvote(actor, target)
	}

	return &VoteResult{VoteScore: change.Ledger.Score(), UserVote: change.UserVote()}, nil
}

func loadVoteTarget(tx *gorm.DB, kind, id string) (voteTarget, error) {
	t := voteTarget{kind: kind, id: id}
	switch kind {
	case models.TargetQuestion:
		var q models.Question
		if err := tx.Select("id", "author_id", "title").First(&q, "id = ?", id).Error; err != nil {
			return t, notFound(err, ErrQuestionNotFound)
		}
		t.authorID, t.questionID, t.title = q.AuthorID, q.ID, q.Title
	case models.TargetAnswer:
		var a models.Answer
		if err := tx.Select("id", "author_id", "question_id").First(&a, "id = ?", id).Error; err != nil {
			return t, notFound(err, ErrAnswerNotFound)
		}
		t.authorID, t.questionID = a.AuthorID, a.QuestionID
	default:
		return t, fmt.Errorf("unknown vote target %q", kind)
	}
	return t, nil
}

func voteOutcome(c models.VoteChange) string {
	switch {
	case c.Retracted():
		return "retracted"
	case c.Flipped():
		return "flipped"
	}
	return "added"
}

func (s *Service) notifyUpvote(actor Actor, t voteTarget) {
	payload := models.VotePayload{
		QuestionID: t.questionID,
		Direction:  models.Upvote,
		URL:        questionURL(t.questionID),
	}
	msg := "Someone upvoted your answer"
	if t.kind == models.TargetQuestion {
		msg = fmt.Sprintf("Someone upvoted your question %q", t.title)
	} else {
		payload.AnswerID = t.id
	}
	s.notifier.Notify(NotificationInput{
		RecipientID: t.authorID,
		Title:       "New upvote",
		Message:     msg,
		Payload:     payload,
		CreatedByID: actor.ID,
	})
}

func questionURL(id string) string {
	return "/questions/" + id
}
