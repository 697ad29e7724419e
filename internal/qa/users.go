package qa

import (
	"context"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

// UserActivity summarizes a user's contributions.
type UserActivity struct {
	User            *models.User   `json:"user"`
	Reputation      int            `json:"reputation"`
	Stats           models.Stats   `json:"stats"`
	RecentQuestions []QuestionView `json:"recentQuestions"`
	RecentAnswers   []AnswerView   `json:"recentAnswers"`
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrapInternal("Failed to load user", notFound(err, ErrUserNotFound))
	}
	return &u, nil
}

// ListUsers pages through users by reputation. Emails are not exposed.
func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]models.User, Pagination, error) {
	p := newPagination(page, limit, maxLimit)
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, p, internal("Failed to count users", err)
	}
	p.setTotal(total)

	var users []models.User
	if err := db.Scopes(p.scope).Order("reputation DESC").Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, p, internal("Failed to list users", err)
	}
	for i := range users {
		users[i].Email = ""
	}
	return users, p, nil
}

func (s *Service) Activity(ctx context.Context, id string) (*UserActivity, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Email = ""
	db := s.db.WithContext(ctx)

	var questions []models.Question
	if err := db.Scopes(withVotes).Where("author_id = ?", id).
		Order("created_at DESC").Limit(5).Find(&questions).Error; err != nil {
		return nil, internal("Failed to load questions", err)
	}
	qviews, err := projectQuestions(db, questions, "")
	if err != nil {
		return nil, internal("Failed to count answers", err)
	}

	var answers []models.Answer
	if err := db.Scopes(withVotes).Where("author_id = ?", id).
		Order("created_at DESC").Limit(5).Find(&answers).Error; err != nil {
		return nil, internal("Failed to load answers", err)
	}

	return &UserActivity{
		User:            user,
		Reputation:      user.Reputation,
		Stats:           user.Stats,
		RecentQuestions: qviews,
		RecentAnswers:   projectAnswers(answers, ""),
	}, nil
}
