package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"returns-backend/internal/claims"
	"returns-backend/internal/decisions"
	"returns-backend/internal/llm"
	"returns-backend/internal/policies"
)

type stubLLM struct {
	classifyJSON string
	classifyErr  error
	analysis     string
	analysisErr  error
	extractJSON  string
	extractErr   error
	draft        string
	draftErr     error
}

func (s stubLLM) ClassifyImage(ctx context.Context, imageURL string) (json.RawMessage, error) {
	if s.classifyErr != nil {
		return nil, s.classifyErr
	}
	return json.RawMessage(s.classifyJSON), nil
}

func (s stubLLM) AnalyzeDefect(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	return s.analysis, s.analysisErr
}

func (s stubLLM) ExtractDefect(ctx context.Context, analysis string) (json.RawMessage, error) {
	if s.extractErr != nil {
		return nil, s.extractErr
	}
	return json.RawMessage(s.extractJSON), nil
}

func (s stubLLM) DraftMessage(ctx context.Context, input llm.DraftInput) (string, error) {
	return s.draft, s.draftErr
}

func happyLLM() stubLLM {
	return stubLLM{
		classifyJSON: `{"suspicious_image":false,"ai_generated":false,"image_quality":"good","reason":"looks real"}`,
		analysis:     "The screen shows a hairline crack from the upper corner.",
		extractJSON:  `{"damage_type":"manufacturing_defect","category":"cracked_screen","is_visible":true,"confidence":0.92}`,
		draft:        "Your return has been approved. We will email the shipping label shortly.",
	}
}

func setupPipeline(t *testing.T, client llm.Client) (*Pipeline, *claims.MemoryRepo, *decisions.MemoryRepo, *policies.MemoryRepo) {
	t.Helper()
	claimRepo := claims.NewMemoryRepo()
	decisionRepo := decisions.NewMemoryRepo()
	policyRepo := policies.NewMemoryRepo()

	policy := policies.Policy{
		ID:             "pol-cracked",
		DefectCategory: "cracked_screen",
		PolicyType:     "defect",
		IsReturnable:   true,
		TimeLimitDays:  30,
		Conditions:     "Screen must show no signs of impact from drops",
		CreatedAt:      time.Now().UTC(),
	}
	if err := policyRepo.Create(context.Background(), policy); err != nil {
		t.Fatalf("seed policy: %v", err)
	}

	return New(claimRepo, decisionRepo, policyRepo, client), claimRepo, decisionRepo, policyRepo
}

func seedClaim(t *testing.T, repo *claims.MemoryRepo, id, imageURL string, round int) claims.Claim {
	t.Helper()
	claim := claims.Claim{
		ID:               id,
		UserID:           "user-1",
		CustomerName:     "Dana",
		CustomerEmail:    "dana@example.com",
		ProductName:      "Phone",
		IssueDescription: "cracked screen out of the box",
		Language:         "en",
		Status:           claims.StatusProcessing,
		AnalysisRound:    round,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if imageURL != "" {
		claim.ImageURL = &imageURL
	}
	if err := repo.Create(context.Background(), claim); err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	return claim
}

func TestNormalRunPersistsDecisionAndAdvancesRound(t *testing.T) {
	p, claimRepo, decisionRepo, _ := setupPipeline(t, happyLLM())
	seedClaim(t, claimRepo, "claim-1", "https://img/1.jpg", 1)

	state := newState("claim-1", "https://img/1.jpg", "cracked screen", "en", 1)
	state, err := p.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if state.Disposition != claims.StatusApproved {
		t.Fatalf("disposition = %q, want approved", state.Disposition)
	}

	claim, err := claimRepo.GetByID(context.Background(), "claim-1")
	if err != nil {
		t.Fatalf("reload claim: %v", err)
	}
	if claim.Status != claims.StatusApproved {
		t.Fatalf("claim status = %q, want approved", claim.Status)
	}
	if claim.AnalysisRound != 2 {
		t.Fatalf("analysisRound = %d, want 2", claim.AnalysisRound)
	}
	if claim.OriginalImageURL == nil || *claim.OriginalImageURL != "https://img/1.jpg" {
		t.Fatalf("originalImageURL not captured on first round")
	}

	decision, err := decisionRepo.LatestForClaim(context.Background(), "claim-1")
	if err != nil {
		t.Fatalf("latest decision: %v", err)
	}
	if decision.Decision != claims.StatusApproved {
		t.Fatalf("decision = %q, want approved", decision.Decision)
	}
	if decision.PolicyMatchedID == nil || *decision.PolicyMatchedID != "pol-cracked" {
		t.Fatalf("policy snapshot not recorded")
	}
	if decision.AutoEmailDraft == "" {
		t.Fatalf("email draft missing")
	}
}

func TestOriginalImageOnlySetOnFirstRound(t *testing.T) {
	p, claimRepo, _, _ := setupPipeline(t, happyLLM())
	claim := seedClaim(t, claimRepo, "claim-2", "https://img/2.jpg", 2)
	original := "https://img/original.jpg"
	claim.OriginalImageURL = &original
	seed := claims.RunUpdate{Status: claims.StatusProcessing, AnalysisRound: 2, OriginalImageURL: &original}
	if err := claimRepo.UpdateAfterRun(context.Background(), claim.ID, seed); err != nil {
		t.Fatalf("seed original image: %v", err)
	}

	state := newState("claim-2", "https://img/2.jpg", "still cracked", "en", 2)
	if _, err := p.Execute(context.Background(), state); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got, _ := claimRepo.GetByID(context.Background(), "claim-2")
	if got.OriginalImageURL == nil || *got.OriginalImageURL != original {
		t.Fatalf("originalImageURL overwritten on later round")
	}
}

func TestDuplicateImageShortCircuits(t *testing.T) {
	p, claimRepo, decisionRepo, _ := setupPipeline(t, happyLLM())
	seedClaim(t, claimRepo, "claim-old", "https://img/same.jpg", 2)
	seedClaim(t, claimRepo, "claim-new", "https://img/same.jpg", 1)

	state := newState("claim-new", "https://img/same.jpg", "totally different description", "en", 1)
	state, err := p.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !state.Duplicate {
		t.Fatalf("expected duplicate short-circuit")
	}
	if state.Disposition != claims.StatusDenied {
		t.Fatalf("disposition = %q, want denied", state.Disposition)
	}

	decision, err := decisionRepo.LatestForClaim(context.Background(), "claim-new")
	if err != nil {
		t.Fatalf("latest decision: %v", err)
	}
	if decision.DefectCategory != CategoryDuplicate {
		t.Fatalf("category = %q, want duplicate_submission", decision.DefectCategory)
	}
	if decision.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", decision.Confidence)
	}
	if !decision.IsSuspiciousImage {
		t.Fatalf("duplicate decision not flagged suspicious")
	}

	claim, _ := claimRepo.GetByID(context.Background(), "claim-new")
	if claim.Status != claims.StatusDenied {
		t.Fatalf("claim status = %q, want denied", claim.Status)
	}
	if claim.AnalysisRound != 1 {
		t.Fatalf("analysisRound = %d, want unchanged 1", claim.AnalysisRound)
	}
	if claim.OriginalImageURL != nil {
		t.Fatalf("originalImageURL must not be set on duplicate path")
	}
}

func TestNoImageSkipsDuplicateAndAuthenticity(t *testing.T) {
	client := happyLLM()
	client.classifyErr = errors.New("must not be called")
	p, claimRepo, _, _ := setupPipeline(t, client)
	seedClaim(t, claimRepo, "claim-3", "", 1)

	state := newState("claim-3", "", "cracked screen", "en", 1)
	state, err := p.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if state.Duplicate {
		t.Fatalf("no-image run must not hit duplicate path")
	}
	if state.AIGenerated || state.Suspicious {
		t.Fatalf("authenticity defaults changed without an image")
	}
}

func TestAuthenticityFailureIsNonFatal(t *testing.T) {
	client := happyLLM()
	client.classifyErr = errors.New("vision service down")
	p, claimRepo, _, _ := setupPipeline(t, client)
	seedClaim(t, claimRepo, "claim-4", "https://img/4.jpg", 1)

	state := newState("claim-4", "https://img/4.jpg", "cracked screen", "en", 1)
	state, err := p.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if state.Suspicious || state.AIGenerated || state.ImageQuality != QualityGood {
		t.Fatalf("authenticity failure must default to safe values, got %+v", state)
	}
	if state.Disposition != claims.StatusApproved {
		t.Fatalf("disposition = %q, want approved", state.Disposition)
	}
}

func TestMalformedClassificationDefaultsSafely(t *testing.T) {
	client := happyLLM()
	client.classifyJSON = "not json at all"
	p, claimRepo, _, _ := setupPipeline(t, client)
	seedClaim(t, claimRepo, "claim-5", "https://img/5.jpg", 1)

	state := newState("claim-5", "https://img/5.jpg", "cracked screen", "en", 1)
	state, err := p.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if state.Suspicious || state.AIGenerated {
		t.Fatalf("malformed verdict must not poison the run")
	}
}

func TestAnalystFailureIsFatal(t *testing.T) {
	client := happyLLM()
	client.analysisErr = errors.New("model down")
	p, claimRepo, decisionRepo, _ := setupPipeline(t, client)
	seedClaim(t, claimRepo, "claim-6", "https://img/6.jpg", 1)

	state := newState("claim-6", "https://img/6.jpg", "cracked screen", "en", 1)
	if _, err := p.Execute(context.Background(), state); !errors.Is(err, ErrUpstreamModel) {
		t.Fatalf("error = %v, want upstream model failure", err)
	}

	if _, err := decisionRepo.LatestForClaim(context.Background(), "claim-6"); !errors.Is(err, decisions.ErrNotFound) {
		t.Fatalf("no decision must be persisted on fatal analyst failure")
	}
}

func TestMalformedExtractionIsFatal(t *testing.T) {
	client := happyLLM()
	client.extractJSON = `{"damage_type":"not_a_type","category":"cracked_screen","is_visible":true,"confidence":0.9}`
	p, claimRepo, _, _ := setupPipeline(t, client)
	seedClaim(t, claimRepo, "claim-7", "https://img/7.jpg", 1)

	state := newState("claim-7", "https://img/7.jpg", "cracked screen", "en", 1)
	if _, err := p.Execute(context.Background(), state); !errors.Is(err, ErrUpstreamModel) {
		t.Fatalf("invalid extraction must abort the run")
	}
}

func TestDrafterFailureIsFatal(t *testing.T) {
	client := happyLLM()
	client.draftErr = errors.New("drafting down")
	p, claimRepo, decisionRepo, _ := setupPipeline(t, client)
	seedClaim(t, claimRepo, "claim-8", "https://img/8.jpg", 1)

	state := newState("claim-8", "https://img/8.jpg", "cracked screen", "en", 1)
	if _, err := p.Execute(context.Background(), state); !errors.Is(err, ErrUpstreamModel) {
		t.Fatalf("drafter failure must abort the run")
	}
	if _, err := decisionRepo.LatestForClaim(context.Background(), "claim-8"); !errors.Is(err, decisions.ErrNotFound) {
		t.Fatalf("no decision must be persisted when drafting fails")
	}
}

func TestWatermarkedAnalysisDenies(t *testing.T) {
	client := happyLLM()
	client.analysis = "The image appears to be a stock photo with a visible watermark in the corner."
	p, claimRepo, _, _ := setupPipeline(t, client)
	seedClaim(t, claimRepo, "claim-9", "https://img/9.jpg", 1)

	state := newState("claim-9", "https://img/9.jpg", "cracked screen", "en", 1)
	state, err := p.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if state.Disposition != claims.StatusDenied {
		t.Fatalf("disposition = %q, want denied for watermarked evidence", state.Disposition)
	}
}
