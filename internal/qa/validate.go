package qa

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minTitle = 10
	maxTitle = 200
	minBody  = 30
	maxBody  = 30000
	maxTags  = 5

	maxBio      = 500
	maxLocation = 100
	maxWebsite  = 200
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// validate checks single values for callers that bypass HTTP binding.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

func cleanUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if err := validate.Var(username, "required,username"); err != nil {
		return "", Validation("Username must be 3-30 characters of letters, numbers and underscores")
	}
	return username, nil
}

func cleanEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", Validation("Please provide a valid email")
	}
	return email, nil
}

// checkLength rejects values longer than limit runes.
func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return Validation("%s cannot be more than %d characters", field, limit)
	}
	return nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	switch {
	case n == 0:
		return "", Validation("Please provide a title")
	case n < minTitle:
		return "", Validation("Title must be at least %d characters", minTitle)
	case n > maxTitle:
		return "", Validation("Title cannot be more than %d characters", maxTitle)
	}
	return title, nil
}

func cleanBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	n := utf8.RuneCountInString(body)
	switch {
	case n == 0:
		return "", Validation("Please provide a body")
	case n < minBody:
		return "", Validation("Body must be at least %d characters", minBody)
	case n > maxBody:
		return "", Validation("Body cannot be more than %d characters", maxBody)
	}
	return body, nil
}

// cleanTags lowercases, trims and deduplicates tags, keeping first-seen order.
func cleanTags(tags []string) ([]string, error) {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, Validation("Please add at least one tag")
	}
	if len(out) > maxTags {
		return nil, Validation("Cannot have more than %d tags", maxTags)
	}
	return out, nil
}
