package qa

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

const (
	statQuestionsAsked  = "stats_questions_asked"
	statAnswersGiven    = "stats_answers_given"
	statAcceptedAnswers = "stats_accepted_answers"
)

// bumpStat adjusts one counter column atomically. Decrements clamp at zero.
func bumpStat(tx *gorm.DB, userID, column string, delta int) error {
	if userID == "" || delta == 0 {
		return nil
	}
	expr := gorm.Expr(column+" + ?", delta)
	if delta < 0 {
		expr = gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s + ? < 0 THEN 0 ELSE %[1]s + ? END", column), delta, delta)
	}
	err := tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumn(column, expr).Error
	if err != nil {
		return fmt.Errorf("update %s for user %s: %w", column, userID, err)
	}
	return nil
}

// Reconcile recomputes a user's counters from the questions and answers
// tables and reports whether anything had drifted.
func (s *Service) Reconcile(ctx context.Context, userID string) (bool, error) {
	var changed bool
	err := s.tx(ctx, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id", statQuestionsAsked, statAnswersGiven, statAcceptedAnswers).
			First(&user, "id = ?", userID).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}

		var asked, given, accepted int64
		if err := tx.Model(&models.Question{}).Where("author_id = ?", userID).Count(&asked).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Answer{}).Where("author_id = ?", userID).Count(&given).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Answer{}).Where("author_id = ? AND is_accepted = ?", userID, true).Count(&accepted).Error; err != nil {
			return err
		}

		st := user.Stats
		if st.QuestionsAsked == int(asked) && st.AnswersGiven == int(given) && st.AcceptedAnswers == int(accepted) {
			return nil
		}
		changed = true
		return tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(map[string]any{
			statQuestionsAsked:  asked,
			statAnswersGiven:    given,
			statAcceptedAnswers: accepted,
		}).Error
	})
	return changed, wrapInternal("Failed to reconcile user stats", err)
}

// ReconcileAll runs Reconcile for every user in batches and returns how
// many users were corrected.
func (s *Service) ReconcileAll(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	var (
		users   []models.User
		fixed   int
		userIDs []string
	)
	// collect ids first; sqlite test databases hold a single connection
	res := s.db.WithContext(ctx).Model(&models.User{}).Select("id").
		FindInBatches(&users, batchSize, func(tx *gorm.DB, batch int) error {
			for _, u := range users {
				userIDs = append(userIDs, u.ID)
			}
			return nil
		})
	if res.Error != nil {
		return 0, internal("Failed to list users", res.Error)
	}

	for _, id := range userIDs {
		changed, err := s.Reconcile(ctx, id)
		if err != nil {
			return fixed, err
		}
		if changed {
			s.log.InfoContext(ctx, "reconciled user stats", "user_id", id)
			fixed++
		}
	}
	return fixed, nil
}
