package workerproc

import (
	"context"
	"fmt"

	"returns-backend/internal/claims"
	"returns-backend/internal/queue"
	"returns-backend/internal/shared/telemetry"
)

// Mailer delivers a customer email. The default implementation only logs;
// a real provider slots in behind this interface.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes the email to the log instead of sending it.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	telemetry.Info("email (log only)", map[string]any{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	return nil
}

// ErrDecode marks a message that can never be processed and should be
// deleted from the queue.
type ErrDecode struct {
	Err error
}

func (e ErrDecode) Error() string { return fmt.Sprintf("decode: %v", e.Err) }
func (e ErrDecode) Unwrap() error { return e.Err }

// Processor turns decision notifications into customer emails.
type Processor struct {
	Mailer Mailer
}

func NewProcessor(mailer Mailer) *Processor {
	return &Processor{Mailer: mailer}
}

// ParseMessage decodes a queue body. Decode failures are unrecoverable.
func ParseMessage(body string) (queue.DecisionNotification, error) {
	msg, err := queue.DecodeMessage(body)
	if err != nil {
		return queue.DecisionNotification{}, ErrDecode{Err: err}
	}
	return msg, nil
}

// HandleMessage sends the decision email for one notification. A mailer
// failure is retryable: the message stays on the queue.
func (p *Processor) HandleMessage(ctx context.Context, msg queue.DecisionNotification) error {
	if err := p.Mailer.Send(ctx, msg.CustomerEmail, subjectFor(msg.Decision), msg.EmailDraft); err != nil {
		return fmt.Errorf("send decision email: %w", err)
	}
	return nil
}

func subjectFor(decision string) string {
	switch decision {
	case claims.StatusApproved, claims.StatusApprovedManual:
		return "Your return has been approved"
	case claims.StatusDenied, claims.StatusDeniedManual:
		return "Update on your return request"
	case claims.StatusMoreInfoRequested:
		return "We need more information about your return"
	case claims.StatusManualReview:
		return "Your return is being reviewed"
	default:
		return "Update on your return request"
	}
}
