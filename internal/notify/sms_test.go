package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

type fakeAPI struct {
	params []*openapi.CreateMessageParams
	err    error
}

func (f *fakeAPI) CreateMessage(p *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = append(f.params, p)
	if f.err != nil {
		return nil, f.err
	}
	return &openapi.ApiV2010Message{}, nil
}

func TestDeliverSendsMessage(t *testing.T) {
	api := &fakeAPI{}
	s := &SMSSender{api: api, from: "+15550000000"}
	to := &models.User{Preferences: models.Preferences{Phone: "+15551234567"}}
	n := &models.Notification{ID: "n1", Title: "New answer", Message: "Someone answered"}

	require.NoError(t, s.Deliver(context.Background(), to, n))
	require.Len(t, api.params, 1)
	assert.Equal(t, "+15551234567", *api.params[0].To)
	assert.Equal(t, "+15550000000", *api.params[0].From)
	assert.Equal(t, "New answer: Someone answered", *api.params[0].Body)
}

func TestDeliverSkipsWithoutPhone(t *testing.T) {
	api := &fakeAPI{}
	s := &SMSSender{api: api}
	require.NoError(t, s.Deliver(context.Background(), &models.User{}, &models.Notification{}))
	assert.Empty(t, api.params)
}

func TestDeliverWrapsErrors(t *testing.T) {
	api := &fakeAPI{err: errors.New("401 unauthorized")}
	s := &SMSSender{api: api}
	to := &models.User{Preferences: models.Preferences{Phone: "+1"}}
	err := s.Deliver(context.Background(), to, &models.Notification{ID: "n9", Title: "x"})
	assert.ErrorContains(t, err, "n9")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Deliver(ctx, to, &models.Notification{}), context.Canceled)
}

func TestFormatSMSTruncates(t *testing.T) {
	n := &models.Notification{Title: "Title", Message: strings.Repeat("é", 300)}
	out := FormatSMS(n)
	assert.Equal(t, MaxSMSLength, len([]rune(out)))
	assert.True(t, strings.HasSuffix(out, "..."))
}
