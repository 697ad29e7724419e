package qa

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

type QuestionInput struct {
	Title string
	Body  string
	Tags  []string
}

// QuestionPatch holds the fields an update may change; nil means unchanged.
type QuestionPatch struct {
	Title *string
	Body  *string
	Tags  []string
}

// ListQuery filters and orders a question listing.
type ListQuery struct {
	Page     int
	Limit    int
	Sort     string
	Search   string
	Tag      string
	AuthorID string
	// AllStatuses lists closed and duplicate questions as well as open ones.
	AllStatuses bool
}

func (s *Service) CreateQuestion(ctx context.Context, actor Actor, in QuestionInput) (*QuestionView, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	body, err := cleanBody(in.Body)
	if err != nil {
		return nil, err
	}
	tags, err := cleanTags(in.Tags)
	if err != nil {
		return nil, err
	}

	q := models.Question{
		Title:    title,
		Body:     body,
		Tags:     tags,
		AuthorID: actor.ID,
		Status:   models.StatusOpen,
	}
	err = s.tx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&q).Error; err != nil {
			return fmt.Errorf("create question: %w", err)
		}
		return bumpStat(tx, actor.ID, statQuestionsAsked, 1)
	})
	if err != nil {
		return nil, wrapInternal("Failed to create question", err)
	}
	return s.questionView(ctx, q.ID, actor.ID)
}

func (s *Service) UpdateQuestion(ctx context.Context, actor Actor, id string, patch QuestionPatch) (*QuestionView, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	var q models.Question
	if err := s.db.WithContext(ctx).Select("id", "author_id").First(&q, "id = ?", id).Error; err != nil {
		return nil, wrapInternal("Failed to load question", notFound(err, ErrQuestionNotFound))
	}
	if !actor.canModify(q.AuthorID) {
		return nil, forbidden("update this question")
	}

	updates := map[string]any{}
	if patch.Title != nil {
		title, err := cleanTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if patch.Body != nil {
		body, err := cleanBody(*patch.Body)
		if err != nil {
			return nil, err
		}
		updates["body"] = body
	}
	if patch.Tags != nil {
		tags, err := cleanTags(patch.Tags)
		if err != nil {
			return nil, err
		}
		updates["tags"] = datatypes.JSONSlice[string](tags)
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&q).Updates(updates).Error; err != nil {
			return nil, internal("Failed to update question", err)
		}
	}
	return s.questionView(ctx, id, actor.ID)
}

// DeleteQuestion removes a question with its answers and every vote on
// either, adjusting the counters of each affected author.
func (s *Service) DeleteQuestion(ctx context.Context, actor Actor, id string) error {
	if actor.ID == "" {
		return ErrUnauthenticated
	}
	err := s.tx(ctx, func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.Select("id", "author_id").First(&q, "id = ?", id).Error; err != nil {
			return notFound(err, ErrQuestionNotFound)
		}
		if !actor.canModify(q.AuthorID) {
			return forbidden("delete this question")
		}

		var answers []models.Answer
		if err := tx.Select("id", "author_id", "is_accepted").Where("question_id = ?", id).Find(&answers).Error; err != nil {
			return fmt.Errorf("load answers: %w", err)
		}
		answerIDs := make([]string, 0, len(answers))
		for _, a := range answers {
			answerIDs = append(answerIDs, a.ID)
			if err := bumpStat(tx, a.AuthorID, statAnswersGiven, -1); err != nil {
				return err
			}
			if a.IsAccepted {
				if err := bumpStat(tx, a.AuthorID, statAcceptedAnswers, -1); err != nil {
					return err
				}
			}
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetAnswer, answerIDs).
				Delete(&models.Vote{}).Error; err != nil {
				return fmt.Errorf("delete answer votes: %w", err)
			}
			if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
				return fmt.Errorf("delete answers: %w", err)
			}
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetQuestion, id).
			Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("delete question votes: %w", err)
		}
		if err := tx.Delete(&models.Question{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		return bumpStat(tx, q.AuthorID, statQuestionsAsked, -1)
	})
	return wrapInternal("Failed to delete question", err)
}

// GetQuestion counts a view and returns the question with its answers,
// accepted answer first.
func (s *Service) GetQuestion(ctx context.Context, viewerID, id string) (*QuestionDetail, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Question{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return nil, internal("Failed to load question", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrQuestionNotFound
	}

	var q models.Question
	if err := db.Scopes(withAuthor, withVotes).First(&q, "id = ?", id).Error; err != nil {
		return nil, wrapInternal("Failed to load question", notFound(err, ErrQuestionNotFound))
	}
	var answers []models.Answer
	if err := db.Scopes(withAuthor, withVotes).Where("question_id = ?", id).
		Order("is_accepted DESC").Order("created_at ASC").Find(&answers).Error; err != nil {
		return nil, internal("Failed to load answers", err)
	}

	view := projectQuestion(q, viewerID)
	n := int64(len(answers))
	view.AnswerCount = &n
	return &QuestionDetail{Question: view, Answers: projectAnswers(answers, viewerID)}, nil
}

func (s *Service) ListQuestions(ctx context.Context, viewerID string, lq ListQuery) ([]QuestionView, Pagination, error) {
	page := newPagination(lq.Page, lq.Limit, maxLimit)
	db := s.db.WithContext(ctx)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.Question{}).Scopes(matching(lq.Search))
		if !lq.AllStatuses {
			db = db.Where("questions.status = ?", models.StatusOpen)
		}
		if lq.Tag != "" {
			db = db.Scopes(hasTag(normalizeTag(lq.Tag)))
		}
		if lq.AuthorID != "" {
			db = db.Where("questions.author_id = ?", lq.AuthorID)
		}
		return db
	}

	var total int64
	if err := db.Scopes(filter).Count(&total).Error; err != nil {
		return nil, page, internal("Failed to count questions", err)
	}
	page.setTotal(total)

	var questions []models.Question
	if err := db.Scopes(filter, sortQuestions(lq.Sort), page.scope, withAuthor, withVotes).
		Find(&questions).Error; err != nil {
		return nil, page, internal("Failed to list questions", err)
	}
	views, err := projectQuestions(db, questions, viewerID)
	if err != nil {
		return nil, page, internal("Failed to count answers", err)
	}
	return views, page, nil
}

// PopularQuestions ranks questions created in the last days by views.
func (s *Service) PopularQuestions(ctx context.Context, days, limit int) ([]QuestionView, error) {
	if days <= 0 {
		days = 7
	}
	page := newPagination(1, limit, 50)
	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)

	db := s.db.WithContext(ctx)
	var questions []models.Question
	if err := db.Scopes(withAuthor, withVotes).
		Where("created_at >= ? AND status = ?", since, models.StatusOpen).
		Order("views DESC").Order("created_at DESC").
		Limit(page.Limit).Find(&questions).Error; err != nil {
		return nil, internal("Failed to load popular questions", err)
	}
	views, err := projectQuestions(db, questions, "")
	return views, wrapInternal("Failed to count answers", err)
}

// RelatedQuestions returns other questions sharing at least one tag with id.
func (s *Service) RelatedQuestions(ctx context.Context, id string, limit int) ([]QuestionView, error) {
	page := newPagination(1, limit, 20)
	if limit <= 0 {
		page.Limit = 5
	}
	db := s.db.WithContext(ctx)

	var q models.Question
	if err := db.Select("id", "tags").First(&q, "id = ?", id).Error; err != nil {
		return nil, wrapInternal("Failed to load question", notFound(err, ErrQuestionNotFound))
	}

	var questions []models.Question
	if err := db.Scopes(hasAnyTag(q.Tags), withAuthor, withVotes).
		Where("questions.id <> ? AND questions.status = ?", id, models.StatusOpen).
		Order("questions.views DESC").Limit(page.Limit).
		Find(&questions).Error; err != nil {
		return nil, internal("Failed to load related questions", err)
	}
	views, err := projectQuestions(db, questions, "")
	return views, wrapInternal("Failed to count answers", err)
}

// questionView reloads a question with author and ledger for a response.
func (s *Service) questionView(ctx context.Context, id, viewerID string) (*QuestionView, error) {
	var q models.Question
	if err := s.db.WithContext(ctx).Scopes(withAuthor, withVotes).First(&q, "id = ?", id).Error; err != nil {
		return nil, wrapInternal("Failed to load question", notFound(err, ErrQuestionNotFound))
	}
	v := projectQuestion(q, viewerID)
	return &v, nil
}

func normalizeTag(tag string) string {
	tags, err := cleanTags([]string{tag})
	if err != nil {
		return ""
	}
	return tags[0]
}
