package pipeline

import (
	"context"
	"strings"

	"returns-backend/internal/llm"
)

// draftEmail generates the short customer-facing message for the decision.
// A drafting failure aborts the run; there is no fallback template.
func (p *Pipeline) draftEmail(ctx context.Context, s State) (State, error) {
	draft, err := callWithRetry(ctx, func(ctx context.Context) (string, error) {
		return p.LLM.DraftMessage(ctx, llm.DraftInput{
			Decision: s.Disposition,
			Reason:   s.Reason,
		})
	})
	if err != nil {
		return s, upstreamErr("email_draft", err)
	}

	s.EmailDraft = strings.TrimSpace(draft)
	return s, nil
}
