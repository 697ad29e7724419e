// Package notify delivers stored notifications over SMS.
package notify

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

// MaxSMSLength is one GSM-7 segment.
const MaxSMSLength = 160

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// SMSSender sends notifications through Twilio's Messages API.
type SMSSender struct {
	api  messageCreator
	from string
}

func NewSMSSender(accountSID, authToken, from string) *SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSSender{api: client.Api, from: from}
}

// Deliver texts n to the recipient's phone number.
func (s *SMSSender) Deliver(ctx context.Context, to *models.User, n *models.Notification) error {
	if to.Preferences.Phone == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to.Preferences.Phone)
	params.SetFrom(s.from)
	params.SetBody(FormatSMS(n))

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send sms for notification %s: %w", n.ID, err)
	}
	if msg != nil && msg.ErrorMessage != nil {
		return fmt.Errorf("send sms for notification %s: %s", n.ID, *msg.ErrorMessage)
	}
	return nil
}

// FormatSMS renders "<title>: <message>" cut to one segment.
func FormatSMS(n *models.Notification) string {
	body := n.Title
	if n.Message != "" {
		body += ": " + n.Message
	}
	if utf8.RuneCountInString(body) <= MaxSMSLength {
		return body
	}
	r := []rune(body)
	return string(r[:MaxSMSLength-3]) + "..."
}
