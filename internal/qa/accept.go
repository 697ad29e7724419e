package qa

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/metrics"
	"github.com/emilythestrangee/querynet/backend/internal/models"
)

var errPointerMoved = errors.New("accepted answer pointer moved")

// AcceptAnswer marks answerID as the accepted answer of its question.
// Only the question's author may do this. Any previously accepted answer
// is cleared in the same transaction; accepting the current accepted
// answer again changes nothing.
func (s *Service) AcceptAnswer(ctx context.Context, actor Actor, answerID string) (*models.Answer, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}

	var (
		answer   models.Answer
		question models.Question
		changed  bool
	)
	run := func() error {
		return s.tx(ctx, func(tx *gorm.DB) error {
			var err error
			changed, err = s.accept(tx, actor, answerID, &answer, &question)
			return err
		})
	}

	err := run()
	if errors.Is(err, errPointerMoved) {
		err = run()
		if errors.Is(err, errPointerMoved) {
			metrics.Acceptances.WithLabelValues("conflict").Inc()
			return nil, ErrAcceptConflict
		}
	}
	if err != nil {
		metrics.Acceptances.WithLabelValues("rejected").Inc()
		return nil, wrapInternal("Failed to accept answer", err)
	}

	if !changed {
		metrics.Acceptances.WithLabelValues("noop").Inc()
		return &answer, nil
	}
	metrics.Acceptances.WithLabelValues("accepted").Inc()

	if answer.AuthorID != actor.ID {
		s.notifier.Notify(NotificationInput{
			RecipientID: answer.AuthorID,
			Title:       "Your answer was accepted",
			Message:     fmt.Sprintf("Your answer to %q was accepted", question.Title),
			Payload: models.AcceptPayload{
				QuestionID: question.ID,
				AnswerID:   answer.ID,
				URL:        questionURL(question.ID),
			},
			CreatedByID: actor.ID,
		})
	}
	return &answer, nil
}

func (s *Service) accept(tx *gorm.DB, actor Actor, answerID string, answer *models.Answer, question *models.Question) (bool, error) {
	*answer, *question = models.Answer{}, models.Question{}
	if err := tx.First(answer, "id = ?", answerID).Error; err != nil {
		return false, notFound(err, ErrAnswerNotFound)
	}
	if err := tx.Select("id", "title", "author_id", "accepted_answer_id").
		First(question, "id = ?", answer.QuestionID).Error; err != nil {
		return false, notFound(err, ErrQuestionNotFound)
	}
	if !question.IsAuthor(actor.ID) {
		return false, ErrNotQuestionAuthor
	}

	prev := question.AcceptedAnswerID
	if answer.IsAccepted && prev != nil && *prev == answer.ID {
		return false, nil
	}
	now := s.now()

	// swap the question pointer only if nobody else moved it since we read it
	swap := tx.Model(&models.Question{}).Where("id = ?", question.ID)
	if prev == nil {
		swap = swap.Where("accepted_answer_id IS NULL")
	} else {
		swap = swap.Where("accepted_answer_id = ?", *prev)
	}
	res := swap.UpdateColumns(map[string]any{
		"accepted_answer_id": answer.ID,
		"last_activity":      now,
	})
	if res.Error != nil {
		return false, fmt.Errorf("swap accepted answer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, errPointerMoved
	}

	var previous []models.Answer
	if err := tx.Select("id", "author_id").
		Where("question_id = ? AND is_accepted = ? AND id <> ?", question.ID, true, answer.ID).
		Find(&previous).Error; err != nil {
		return false, fmt.Errorf("load previously accepted: %w", err)
	}
	if len(previous) > 0 {
		ids := make([]string, 0, len(previous))
		for _, p := range previous {
			ids = append(ids, p.ID)
			if err := bumpStat(tx, p.AuthorID, statAcceptedAnswers, -1); err != nil {
				return false, err
			}
		}
		if err := tx.Model(&models.Answer{}).Where("id IN ?", ids).UpdateColumns(map[string]any{
			"is_accepted":    false,
			"accepted_at":    nil,
			"accepted_by_id": nil,
		}).Error; err != nil {
			return false, fmt.Errorf("clear previously accepted: %w", err)
		}
	}

	// the answer row may have changed since it was read; only a real
	// false->true transition counts
	mark := tx.Model(&models.Answer{}).Where("id = ? AND is_accepted = ?", answer.ID, false).UpdateColumns(map[string]any{
		"is_accepted":    true,
		"accepted_at":    now,
		"accepted_by_id": actor.ID,
	})
	if mark.Error != nil {
		return false, fmt.Errorf("mark accepted: %w", mark.Error)
	}
	if mark.RowsAffected == 1 {
		if err := bumpStat(tx, answer.AuthorID, statAcceptedAnswers, 1); err != nil {
			return false, err
		}
	}

	answer.IsAccepted = true
	answer.AcceptedAt = &now
	answer.AcceptedByID = &actor.ID
	question.AcceptedAnswerID = &answer.ID
	return true, nil
}
