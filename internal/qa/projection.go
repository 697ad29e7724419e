package qa

import (
	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

// QuestionView is a question as served to clients: the stored row plus
// values derived at read time. AnswerCount is only filled in list views.
type QuestionView struct {
	models.Question
	VoteScore         int              `json:"voteScore"`
	AnswerCount       *int64           `json:"answerCount,omitempty"`
	HasAcceptedAnswer bool             `json:"hasAcceptedAnswer"`
	UserVote          *models.VoteType `json:"userVote"`
}

type AnswerView struct {
	models.Answer
	VoteScore int              `json:"voteScore"`
	UserVote  *models.VoteType `json:"userVote"`
}

// QuestionDetail is the single-question response.
type QuestionDetail struct {
	Question QuestionView `json:"question"`
	Answers  []AnswerView `json:"answers"`
}

// VoteResult is returned after a vote is applied.
type VoteResult struct {
	VoteScore int              `json:"voteScore"`
	UserVote  *models.VoteType `json:"userVote"`
}

func projectQuestion(q models.Question, viewerID string) QuestionView {
	l := q.Ledger()
	return QuestionView{
		Question:          q,
		VoteScore:         l.Score(),
		HasAcceptedAnswer: q.AcceptedAnswerID != nil,
		UserVote:          l.UserVote(viewerID),
	}
}

func projectAnswer(a models.Answer, viewerID string) AnswerView {
	l := a.Ledger()
	return AnswerView{
		Answer:    a,
		VoteScore: l.Score(),
		UserVote:  l.UserVote(viewerID),
	}
}

func projectAnswers(answers []models.Answer, viewerID string) []AnswerView {
	out := make([]AnswerView, 0, len(answers))
	for _, a := range answers {
		out = append(out, projectAnswer(a, viewerID))
	}
	return out
}

// projectQuestions builds list views, attaching answer counts from one
// grouped query.
func projectQuestions(db *gorm.DB, questions []models.Question, viewerID string) ([]QuestionView, error) {
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	counts, err := answerCounts(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		v := projectQuestion(q, viewerID)
		n := counts[q.ID]
		v.AnswerCount = &n
		out = append(out, v)
	}
	return out, nil
}

func answerCounts(db *gorm.DB, questionIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(questionIDs))
	if len(questionIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		QuestionID string
		N          int64
	}
	err := db.Model(&models.Answer{}).
		Select("question_id, COUNT(*) AS n").
		Where("question_id IN ?", questionIDs).
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.QuestionID] = r.N
	}
	return counts, nil
}
