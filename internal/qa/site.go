package qa

import (
	"context"
	"sort"
	"time"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type SiteStats struct {
	TotalQuestions    int64   `json:"totalQuestions"`
	TotalAnswers      int64   `json:"totalAnswers"`
	TotalUsers        int64   `json:"totalUsers"`
	QuestionsToday    int64   `json:"questionsToday"`
	AnsweredQuestions int64   `json:"answeredQuestions"`
	AnsweredPercent   float64 `json:"answeredPercentage"`
}

// PopularTags counts tag usage across all questions.
func (s *Service) PopularTags(ctx context.Context, limit int) ([]TagCount, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var questions []models.Question
	if err := s.db.WithContext(ctx).Select("id", "tags").Find(&questions).Error; err != nil {
		return nil, internal("Failed to load tags", err)
	}

	counts := map[string]int{}
	for _, q := range questions {
		for _, t := range q.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Service) Stats(ctx context.Context) (*SiteStats, error) {
	db := s.db.WithContext(ctx)
	st := &SiteStats{}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		model any
		where []any
		dest  *int64
	}{
		{&models.Question{}, nil, &st.TotalQuestions},
		{&models.Answer{}, nil, &st.TotalAnswers},
		{&models.User{}, nil, &st.TotalUsers},
		{&models.Question{}, []any{"created_at >= ?", today}, &st.QuestionsToday},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, internal("Failed to compute stats", err)
		}
	}
	if err := db.Model(&models.Answer{}).Distinct("question_id").Count(&st.AnsweredQuestions).Error; err != nil {
		return nil, internal("Failed to compute stats", err)
	}
	if st.TotalQuestions > 0 {
		st.AnsweredPercent = float64(st.AnsweredQuestions) * 100 / float64(st.TotalQuestions)
	}
	return st, nil
}

// Search is a substring filter over titles and bodies.
func (s *Service) Search(ctx context.Context, viewerID, q string, page, limit int) ([]QuestionView, Pagination, error) {
	return s.ListQuestions(ctx, viewerID, ListQuery{Page: page, Limit: limit, Search: q, Sort: "newest"})
}
