package qa

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

// ListAnswers returns the answers of a question, accepted answer first.
func (s *Service) ListAnswers(ctx context.Context, viewerID, questionID string) ([]AnswerView, error) {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.Question{}).Where("id = ?", questionID).Count(&n).Error; err != nil {
		return nil, internal("Failed to load question", err)
	}
	if n == 0 {
		return nil, ErrQuestionNotFound
	}

	var answers []models.Answer
	if err := db.Scopes(withAuthor, withVotes).Where("question_id = ?", questionID).
		Order("is_accepted DESC").Order("created_at ASC").Find(&answers).Error; err != nil {
		return nil, internal("Failed to load answers", err)
	}
	return projectAnswers(answers, viewerID), nil
}

// CreateAnswer posts an answer and tells the question's author about it.
func (s *Service) CreateAnswer(ctx context.Context, actor Actor, questionID, body string) (*AnswerView, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	body, err := cleanBody(body)
	if err != nil {
		return nil, err
	}

	var (
		question models.Question
		answer   = models.Answer{Body: body, AuthorID: actor.ID, QuestionID: questionID}
	)
	err = s.tx(ctx, func(tx *gorm.DB) error {
		if err := tx.Select("id", "title", "author_id").First(&question, "id = ?", questionID).Error; err != nil {
			return notFound(err, ErrQuestionNotFound)
		}
		if err := tx.Create(&answer).Error; err != nil {
			return fmt.Errorf("create answer: %w", err)
		}
		if err := tx.Model(&models.Question{}).Where("id = ?", questionID).
			UpdateColumn("last_activity", s.now()).Error; err != nil {
			return fmt.Errorf("touch question: %w", err)
		}
		return bumpStat(tx, actor.ID, statAnswersGiven, 1)
	})
	if err != nil {
		return nil, wrapInternal("Failed to create answer", err)
	}

	if question.AuthorID != actor.ID {
		s.notifier.Notify(NotificationInput{
			RecipientID: question.AuthorID,
			Title:       "New answer to your question",
			Message:     fmt.Sprintf("Someone answered your question %q", question.Title),
			Payload: models.AnswerPayload{
				QuestionID: question.ID,
				AnswerID:   answer.ID,
				URL:        questionURL(question.ID),
			},
			CreatedByID: actor.ID,
		})
	}
	return s.answerView(ctx, answer.ID, actor.ID)
}

func (s *Service) UpdateAnswer(ctx context.Context, actor Actor, id, body string) (*AnswerView, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	var a models.Answer
	if err := s.db.WithContext(ctx).Select("id", "author_id").First(&a, "id = ?", id).Error; err != nil {
		return nil, wrapInternal("Failed to load answer", notFound(err, ErrAnswerNotFound))
	}
	if !actor.canModify(a.AuthorID) {
		return nil, forbidden("update this answer")
	}
	body, err := cleanBody(body)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&a).Update("body", body).Error; err != nil {
		return nil, internal("Failed to update answer", err)
	}
	return s.answerView(ctx, id, actor.ID)
}

// DeleteAnswer removes an answer and its votes. Deleting the accepted
// answer clears the question's pointer in the same transaction.
func (s *Service) DeleteAnswer(ctx context.Context, actor Actor, id string) error {
	if actor.ID == "" {
		return ErrUnauthenticated
	}
	err := s.tx(ctx, func(tx *gorm.DB) error {
		var a models.Answer
		if err := tx.Select("id", "author_id", "question_id", "is_accepted").First(&a, "id = ?", id).Error; err != nil {
			return notFound(err, ErrAnswerNotFound)
		}
		if !actor.canModify(a.AuthorID) {
			return forbidden("delete this answer")
		}

		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetAnswer, id).
			Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("delete answer votes: %w", err)
		}
		if err := tx.Delete(&models.Answer{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete answer: %w", err)
		}
		res := tx.Model(&models.Question{}).
			Where("id = ? AND accepted_answer_id = ?", a.QuestionID, id).
			UpdateColumn("accepted_answer_id", nil)
		if res.Error != nil {
			return fmt.Errorf("clear accepted answer: %w", res.Error)
		}
		if a.IsAccepted || res.RowsAffected > 0 {
			if err := bumpStat(tx, a.AuthorID, statAcceptedAnswers, -1); err != nil {
				return err
			}
		}
		return bumpStat(tx, a.AuthorID, statAnswersGiven, -1)
	})
	return wrapInternal("Failed to delete answer", err)
}

func (s *Service) answerView(ctx context.Context, id, viewerID string) (*AnswerView, error) {
	var a models.Answer
	if err := s.db.WithContext(ctx).Scopes(withAuthor, withVotes).First(&a, "id = ?", id).Error; err != nil {
		return nil, wrapInternal("Failed to load answer", notFound(err, ErrAnswerNotFound))
	}
	v := projectAnswer(a, viewerID)
	return &v, nil
}
