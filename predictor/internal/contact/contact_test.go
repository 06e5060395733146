package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink keeps every delivered submission.
type recordingSink struct {
	mu   sync.Mutex
	subs []Submission
	err  error
}

func (s *recordingSink) Deliver(ctx context.Context, sub Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func validMessage() Message {
	return Message{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Subject:   "Demo request",
		Body:      "We would like a demo for our ward.",
	}
}

func TestSubmit_Accepted(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, 10, 5)

	msg := validMessage()
	msg.FirstName = "  Asha  "

	sub, err := svc.Submit(context.Background(), msg)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(sub.TicketID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "Asha", sub.Message.FirstName)
	require.Len(t, sink.subs, 1)
	assert.Equal(t, sub.TicketID, sink.subs[0].TicketID)
}

func TestSubmit_ValidationListsFields(t *testing.T) {
	svc := NewService(&recordingSink{}, 10, 5)

	msg := validMessage()
	msg.Email = "not-an-email"
	msg.Subject = "   "

	_, err := svc.Submit(context.Background(), msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMessage)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.ElementsMatch(t, []FieldError{
		{Field: "email", Reason: "must be a valid email address"},
		{Field: "subject", Reason: "is required"},
	}, ve.Fields)
}

func TestSubmit_MessageTooLong(t *testing.T) {
	svc := NewService(&recordingSink{}, 10, 5)

	msg := validMessage()
	msg.Body = strings.Repeat("a", 5001)

	_, err := svc.Submit(context.Background(), msg)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "message", ve.Fields[0].Field)
}

func TestSubmit_RateLimited(t *testing.T) {
	svc := NewService(&recordingSink{}, 1, 2)

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(context.Background(), validMessage())
		require.NoError(t, err)
	}

	_, err := svc.Submit(context.Background(), validMessage())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSubmit_InvalidDoesNotConsumeTokens(t *testing.T) {
	svc := NewService(&recordingSink{}, 1, 1)

	_, err := svc.Submit(context.Background(), Message{})
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), validMessage())
	assert.NoError(t, err)
}

func TestSubmit_SinkFailure(t *testing.T) {
	svc := NewService(&recordingSink{err: errors.New("sink down")}, 0, 1)

	_, err := svc.Submit(context.Background(), validMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
}
