package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Krimson/babybloom/predictor/internal/metrics"
)

// ConfirmationText is returned for every accepted message.
const ConfirmationText = "Thank you for your message! We will get back to you shortly."

var (
	ErrRateLimited    = errors.New("too many contact submissions, try again later")
	ErrInvalidMessage = errors.New("invalid contact message")
)

// Message is a contact form submission.
type Message struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Subject   string `json:"subject" validate:"required,max=200"`
	Body      string `json:"message" validate:"required,max=5000"`
}

// Normalize trims surrounding whitespace from every field.
func (m *Message) Normalize() {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Body = strings.TrimSpace(m.Body)
}

// FieldError describes one invalid form field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every invalid field so the form can highlight them.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidMessage, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidMessage
}

var messageValidate *validator.Validate

func init() {
	messageValidate = validator.New()
	messageValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
}

// Validate checks the message after normalisation.
func (m Message) Validate() error {
	err := messageValidate.Struct(m)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	ve := &ValidationError{}
	for _, fe := range fieldErrs {
		ve.Fields = append(ve.Fields, FieldError{Field: fe.Field(), Reason: reason(fe)})
	}
	return ve
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// Submission is an accepted message with its ticket.
type Submission struct {
	TicketID   string    `json:"ticketId"`
	ReceivedAt time.Time `json:"receivedAt"`
	Message    Message   `json:"message"`
}

// Sink receives accepted submissions.
type Sink interface {
	Deliver(ctx context.Context, s Submission) error
}

// LogSink writes submissions to the structured log.
type LogSink struct {
	Logger *slog.Logger
}

func (s *LogSink) Deliver(ctx context.Context, sub Submission) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "contact message received",
		"ticket_id", sub.TicketID,
		"email", sub.Message.Email,
		"subject", sub.Message.Subject,
		"message_chars", len(sub.Message.Body),
	)
	return nil
}

// Service validates, rate limits and delivers contact messages.
type Service struct {
	sink    Sink
	limiter *rate.Limiter
	now     func() time.Time
}

// NewService allows perMinute submissions per minute with the given burst.
// A non-positive perMinute disables limiting.
func NewService(sink Sink, perMinute, burst int) *Service {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst < 1 {
		burst = 1
	}

	return &Service{
		sink:    sink,
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// Submit accepts msg and returns the ticket.
func (s *Service) Submit(ctx context.Context, msg Message) (*Submission, error) {
	msg.Normalize()
	if err := msg.Validate(); err != nil {
		metrics.RecordContactSubmission("invalid")
		return nil, err
	}

	if !s.limiter.Allow() {
		metrics.RecordContactSubmission("rate_limited")
		return nil, ErrRateLimited
	}

	sub := Submission{
		TicketID:   uuid.NewString(),
		ReceivedAt: s.now().UTC(),
		Message:    msg,
	}

	if err := s.sink.Deliver(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to deliver contact message: %w", err)
	}

	metrics.RecordContactSubmission("accepted")
	return &sub, nil
}
