package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"returns-backend/internal/claims"
	"returns-backend/internal/decisions"
)

func setup(t *testing.T) (*Service, *claims.MemoryRepo, *decisions.MemoryRepo) {
	t.Helper()
	claimRepo := claims.NewMemoryRepo()
	decisionRepo := decisions.NewMemoryRepo()
	return NewService(claimRepo, decisionRepo), claimRepo, decisionRepo
}

func seedReviewClaim(t *testing.T, claimRepo *claims.MemoryRepo, decisionRepo *decisions.MemoryRepo, claimID string) {
	t.Helper()
	claim := claims.Claim{
		ID:               claimID,
		UserID:           "user-1",
		CustomerName:     "Dana",
		CustomerEmail:    "dana@example.com",
		ProductName:      "Phone",
		IssueDescription: "unclear damage",
		Language:         "en",
		Status:           claims.StatusManualReview,
		AnalysisRound:    3,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := claimRepo.Create(context.Background(), claim); err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	decision := decisions.Decision{
		ID:                 "dec-" + claimID,
		ClaimID:            claimID,
		Decision:           claims.StatusManualReview,
		DecisionReason:     "Manual review required for proper assessment.",
		ManualReviewReason: "Unclear damage type: other",
		Confidence:         0.4,
		CreatedAt:          time.Now().UTC(),
	}
	if err := decisionRepo.Create(context.Background(), decision); err != nil {
		t.Fatalf("seed decision: %v", err)
	}
}

func TestQueueJoinsLatestDecision(t *testing.T) {
	svc, claimRepo, decisionRepo := setup(t)
	seedReviewClaim(t, claimRepo, decisionRepo, "claim-1")

	items, err := svc.Queue(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Decision == nil || items[0].Decision.ID != "dec-claim-1" {
		t.Fatalf("latest decision not joined")
	}
}

func TestResolveApproveMovesToManualTerminal(t *testing.T) {
	svc, claimRepo, decisionRepo := setup(t)
	seedReviewClaim(t, claimRepo, decisionRepo, "claim-1")

	claim, err := svc.Resolve(context.Background(), "claim-1", ResolutionApprove, "verified by photos on file")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if claim.Status != claims.StatusApprovedManual {
		t.Fatalf("status = %q, want approved_manual", claim.Status)
	}

	decision, _ := decisionRepo.LatestForClaim(context.Background(), "claim-1")
	if decision.Decision != claims.StatusApproved {
		t.Fatalf("decision = %q, want approved", decision.Decision)
	}
	if decision.AdminNotes != "verified by photos on file" {
		t.Fatalf("admin notes not recorded")
	}
	if decision.DecisionReason != "verified by photos on file" {
		t.Fatalf("decision reason not replaced by admin note")
	}
}

func TestResolveDenyMovesToManualTerminal(t *testing.T) {
	svc, claimRepo, decisionRepo := setup(t)
	seedReviewClaim(t, claimRepo, decisionRepo, "claim-1")

	claim, err := svc.Resolve(context.Background(), "claim-1", ResolutionDeny, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if claim.Status != claims.StatusDeniedManual {
		t.Fatalf("status = %q, want denied_manual", claim.Status)
	}

	decision, _ := decisionRepo.LatestForClaim(context.Background(), "claim-1")
	if decision.Decision != claims.StatusDenied {
		t.Fatalf("decision = %q, want denied", decision.Decision)
	}
	// An empty admin note keeps the pipeline's reason.
	if decision.DecisionReason != "Manual review required for proper assessment." {
		t.Fatalf("empty note must not erase the existing reason, got %q", decision.DecisionReason)
	}
}

func TestResolveRequestMoreInfoReopensClaim(t *testing.T) {
	svc, claimRepo, decisionRepo := setup(t)
	seedReviewClaim(t, claimRepo, decisionRepo, "claim-1")

	claim, err := svc.Resolve(context.Background(), "claim-1", ResolutionRequestMoreInfo, "need a photo of the serial number")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if claim.Status != claims.StatusMoreInfoRequested {
		t.Fatalf("status = %q, want more_info_requested", claim.Status)
	}
	if !claim.MoreInfoRequested {
		t.Fatalf("moreInfoRequested flag not set")
	}

	decision, _ := decisionRepo.LatestForClaim(context.Background(), "claim-1")
	if decision.Decision != claims.StatusManualReview {
		t.Fatalf("request-more-info must not rewrite the decision value")
	}
	if decision.AdminNotes != "need a photo of the serial number" {
		t.Fatalf("admin notes not recorded")
	}
}

func TestResolveRejectsNonReviewClaims(t *testing.T) {
	svc, claimRepo, decisionRepo := setup(t)
	seedReviewClaim(t, claimRepo, decisionRepo, "claim-1")
	if err := claimRepo.UpdateStatus(context.Background(), "claim-1", claims.StatusApproved); err != nil {
		t.Fatalf("seed status: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), "claim-1", ResolutionApprove, ""); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("error = %v, want invalid resolution", err)
	}
}

func TestResolveRejectsUnknownResolution(t *testing.T) {
	svc, claimRepo, decisionRepo := setup(t)
	seedReviewClaim(t, claimRepo, decisionRepo, "claim-1")

	if _, err := svc.Resolve(context.Background(), "claim-1", "escalate_to_ceo", ""); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("error = %v, want invalid resolution", err)
	}
}
