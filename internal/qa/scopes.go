package qa

import (
	"encoding/json"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// voteScoreSQL reduces a question's ledger inside the database, for ordering.
const voteScoreSQL = `(SELECT COALESCE(SUM(CASE WHEN votes.type = 'upvote' THEN 1 ELSE -1 END), 0)
	FROM votes WHERE votes.target_type = 'question' AND votes.target_id = questions.id)`

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", func(db *gorm.DB) *gorm.DB {
		return db.Select(models.AuthorColumns)
	})
}

func withVotes(db *gorm.DB) *gorm.DB {
	return db.Preload("Votes")
}

// Pagination is echoed back in list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func newPagination(page, limit, ceiling int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > ceiling {
		limit = ceiling
	}
	// keep (page-1)*limit from overflowing the OFFSET
	if last := math.MaxInt32 / limit; page > last {
		page = last
	}
	return Pagination{Page: page, Limit: limit}
}

func (p *Pagination) setTotal(total int64) {
	p.Total = total
	p.Pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

func (p Pagination) scope(db *gorm.DB) *gorm.DB {
	return db.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
}

// tagCondition matches questions whose tags array contains tag.
func tagCondition(db *gorm.DB, tag string) (string, any) {
	if db.Dialector.Name() == "postgres" {
		arr, _ := json.Marshal([]string{tag})
		return "questions.tags @> ?::jsonb", string(arr)
	}
	return "EXISTS (SELECT 1 FROM json_each(questions.tags) WHERE json_each.value = ?)", tag
}

func hasTag(tag string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		cond, arg := tagCondition(db, tag)
		return db.Where(cond, arg)
	}
}

func hasAnyTag(tags []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(tags) == 0 {
			return db.Where("1 = 0")
		}
		conds := make([]string, 0, len(tags))
		args := make([]any, 0, len(tags))
		for _, t := range tags {
			c, a := tagCondition(db, t)
			conds = append(conds, c)
			args = append(args, a)
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// matching is a case-insensitive substring filter; wildcards in search match literally.
func matching(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(strings.ToLower(search))
		if search == "" {
			return db
		}
		like := "%" + likeEscaper.Replace(search) + "%"
		return db.Where(`(LOWER(questions.title) LIKE ? ESCAPE '\' OR LOWER(questions.body) LIKE ? ESCAPE '\')`, like, like)
	}
}

func sortQuestions(sort string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch sort {
		case "oldest", "createdAt":
			return db.Order("questions.created_at ASC")
		case "votes", "-votes":
			return db.Order(voteScoreSQL + " DESC").Order("questions.created_at DESC")
		case "views", "-views":
			return db.Order("questions.views DESC").Order("questions.created_at DESC")
		case "activity", "-lastActivity":
			return db.Order("questions.last_activity DESC")
		default:
			return db.Order("questions.created_at DESC")
		}
	}
}
