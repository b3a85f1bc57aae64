package claims

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubmitInput is the payload for creating a claim.
type SubmitInput struct {
	CustomerName     string
	CustomerEmail    string
	OrderID          string
	ProductName      string
	ProductCategory  string
	IssueDescription string
	IssueCategory    string
	Language         string
	ImageURL         string
}

// ResubmitInput carries fresh evidence for a claim awaiting more information.
type ResubmitInput struct {
	ImageURL    string
	Description string
}

// Service owns claim lifecycle rules around the repo.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Submit validates and stores a new claim in the processing state.
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (Claim, error) {
	if err := validateSubmit(in); err != nil {
		return Claim{}, err
	}
	now := time.Now().UTC()
	claim := Claim{
		ID:               uuid.NewString(),
		UserID:           userID,
		CustomerName:     strings.TrimSpace(in.CustomerName),
		CustomerEmail:    strings.TrimSpace(in.CustomerEmail),
		ProductName:      strings.TrimSpace(in.ProductName),
		ProductCategory:  strings.TrimSpace(in.ProductCategory),
		IssueDescription: strings.TrimSpace(in.IssueDescription),
		IssueCategory:    strings.TrimSpace(in.IssueCategory),
		Language:         normalizeLanguage(in.Language),
		Status:           StatusProcessing,
		AnalysisRound:    1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if v := strings.TrimSpace(in.OrderID); v != "" {
		claim.OrderID = &v
	}
	if v := strings.TrimSpace(in.ImageURL); v != "" {
		claim.ImageURL = &v
	}
	if err := s.Repo.Create(ctx, claim); err != nil {
		return Claim{}, fmt.Errorf("create claim: %w", err)
	}
	return claim, nil
}

// Get returns a claim, enforcing ownership unless the caller is an admin.
func (s *Service) Get(ctx context.Context, userID string, isAdmin bool, claimID string) (Claim, error) {
	claim, err := s.Repo.GetByID(ctx, claimID)
	if err != nil {
		return Claim{}, err
	}
	if !isAdmin && claim.UserID != "" && claim.UserID != userID {
		return Claim{}, ErrNotFound
	}
	return claim, nil
}

// List returns the caller's claims, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Claim, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// ResubmitEvidence attaches new evidence to a claim that asked for more
// information and moves it back to processing for another analysis round.
// Re-sending the exact image the claim already carries is rejected up front.
func (s *Service) ResubmitEvidence(ctx context.Context, userID string, isAdmin bool, claimID string, in ResubmitInput) (Claim, error) {
	claim, err := s.Get(ctx, userID, isAdmin, claimID)
	if err != nil {
		return Claim{}, err
	}
	if claim.Status != StatusMoreInfoRequested {
		return Claim{}, ErrNotAwaitingInfo
	}
	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		return Claim{}, fmt.Errorf("%w: imageUrl is required", ErrValidation)
	}
	if claim.ImageURL != nil && *claim.ImageURL == imageURL {
		return Claim{}, ErrSameImageResubmitted
	}
	if claim.OriginalImageURL != nil && *claim.OriginalImageURL == imageURL {
		return Claim{}, ErrSameImageResubmitted
	}
	if err := s.Repo.UpdateResubmission(ctx, claimID, imageURL, strings.TrimSpace(in.Description)); err != nil {
		return Claim{}, err
	}
	return s.Repo.GetByID(ctx, claimID)
}

func validateSubmit(in SubmitInput) error {
	var missing []string
	if strings.TrimSpace(in.CustomerName) == "" {
		missing = append(missing, "customerName")
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		missing = append(missing, "customerEmail")
	}
	if strings.TrimSpace(in.ProductName) == "" {
		missing = append(missing, "productName")
	}
	if strings.TrimSpace(in.IssueDescription) == "" {
		missing = append(missing, "issueDescription")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "en"
	}
	return lang
}
