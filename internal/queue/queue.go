package queue

import "context"

// Publisher sends decision notifications to the email worker. A nil publisher
// in the service layer disables notification without branching at call sites.
type Publisher interface {
	Publish(ctx context.Context, msg DecisionNotification) error
}

// DecisionNotification is the message the worker turns into a customer email.
type DecisionNotification struct {
	ClaimID       string `json:"claimId"`
	DecisionID    string `json:"decisionId"`
	CustomerEmail string `json:"customerEmail"`
	Decision      string `json:"decision"`
	EmailDraft    string `json:"emailDraft"`
	Language      string `json:"language"`
}
