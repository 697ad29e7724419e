package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Payload is the typed side data of a notification. Each variant carries
// only the references relevant to its notification type.
type Payload interface {
	Kind() NotificationType
}

type AnswerPayload struct {
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId"`
	URL        string `json:"url,omitempty"`
}

type AcceptPayload struct {
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId"`
	URL        string `json:"url,omitempty"`
}

type VotePayload struct {
	QuestionID string   `json:"questionId"`
	AnswerID   string   `json:"answerId,omitempty"`
	Direction  VoteType `json:"direction"`
	URL        string   `json:"url,omitempty"`
}

type CommentPayload struct {
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId,omitempty"`
	URL        string `json:"url,omitempty"`
}

type QuestionPayload struct {
	QuestionID string `json:"questionId"`
	URL        string `json:"url,omitempty"`
}

type MentionPayload struct {
	UserID     string `json:"userId"`
	QuestionID string `json:"questionId,omitempty"`
	AnswerID   string `json:"answerId,omitempty"`
	URL        string `json:"url,omitempty"`
}

type BadgePayload struct {
	BadgeID string `json:"badgeId"`
	URL     string `json:"url,omitempty"`
}

func (AnswerPayload) Kind() NotificationType   { return NotificationAnswer }
func (AcceptPayload) Kind() NotificationType   { return NotificationAccept }
func (VotePayload) Kind() NotificationType     { return NotificationVote }
func (CommentPayload) Kind() NotificationType  { return NotificationComment }
func (QuestionPayload) Kind() NotificationType { return NotificationQuestion }
func (MentionPayload) Kind() NotificationType  { return NotificationMention }
func (BadgePayload) Kind() NotificationType    { return NotificationBadge }

// EncodePayload flattens p into a JSON object tagged with "kind".
func EncodePayload(p Payload) (datatypes.JSON, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.Kind(), err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.Kind(), err)
	}
	kind, _ := json.Marshal(p.Kind())
	fields["kind"] = kind

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.Kind(), err)
	}
	return datatypes.JSON(out), nil
}

// DecodePayload reads the "kind" tag and decodes into the matching variant.
func DecodePayload(data []byte) (Payload, error) {
	var tag struct {
		Kind NotificationType `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var p Payload
	switch tag.Kind {
	case NotificationAnswer:
		p = &AnswerPayload{}
	case NotificationAccept:
		p = &AcceptPayload{}
	case NotificationVote:
		p = &VotePayload{}
	case NotificationComment:
		p = &CommentPayload{}
	case NotificationQuestion:
		p = &QuestionPayload{}
	case NotificationMention:
		p = &MentionPayload{}
	case NotificationBadge:
		p = &BadgePayload{}
	default:
		return nil, fmt.Errorf("decode payload: unknown kind %q", tag.Kind)
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", tag.Kind, err)
	}
	return p, nil
}
