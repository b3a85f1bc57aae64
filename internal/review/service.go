package review

import (
	"context"
	"errors"
	"fmt"

	"returns-backend/internal/claims"
	"returns-backend/internal/decisions"
)

// Resolutions a reviewer can apply.
const (
	ResolutionApprove         = "approve"
	ResolutionDeny            = "deny"
	ResolutionRequestMoreInfo = "request_more_info"
)

var ErrInvalidResolution = errors.New("invalid resolution")

// Item is a claim queued for review joined with its latest decision.
type Item struct {
	Claim    claims.Claim        `json:"claim"`
	Decision *decisions.Decision `json:"decision,omitempty"`
}

// Service implements the human-review queue over manual_review claims.
type Service struct {
	Claims    claims.Repo
	Decisions decisions.Repo
}

func NewService(claimRepo claims.Repo, decisionRepo decisions.Repo) *Service {
	return &Service{Claims: claimRepo, Decisions: decisionRepo}
}

// Queue lists claims awaiting review with their latest decisions.
func (s *Service) Queue(ctx context.Context, limit, offset int) ([]Item, error) {
	list, err := s.Claims.ListByStatus(ctx, claims.StatusManualReview, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(list))
	for _, claim := range list {
		item := Item{Claim: claim}
		decision, err := s.Decisions.LatestForClaim(ctx, claim.ID)
		switch {
		case err == nil:
			item.Decision = &decision
		case errors.Is(err, decisions.ErrNotFound):
			// A claim can land in review with no decision row when an
			// operator moved it by hand; surface it anyway.
		default:
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Resolve applies a reviewer's verdict to a claim in manual review. Approve
// and deny rewrite the latest decision and move the claim to its manual
// terminal status; request-more-info keeps the decision but reopens the
// claim for another evidence round.
func (s *Service) Resolve(ctx context.Context, claimID, resolution, adminNote string) (claims.Claim, error) {
	claim, err := s.Claims.GetByID(ctx, claimID)
	if err != nil {
		return claims.Claim{}, err
	}
	if claim.Status != claims.StatusManualReview {
		return claims.Claim{}, fmt.Errorf("%w: claim is not in manual review", ErrInvalidResolution)
	}

	latest, err := s.Decisions.LatestForClaim(ctx, claimID)
	if err != nil {
		return claims.Claim{}, err
	}

	switch resolution {
	case ResolutionApprove, ResolutionDeny:
		verdict := claims.StatusApproved
		status := claims.StatusApprovedManual
		if resolution == ResolutionDeny {
			verdict = claims.StatusDenied
			status = claims.StatusDeniedManual
		}
		update := decisions.ReviewUpdate{
			Decision:       verdict,
			DecisionReason: adminNote,
			AdminNotes:     adminNote,
		}
		if err := s.Decisions.UpdateReview(ctx, latest.ID, update); err != nil {
			return claims.Claim{}, err
		}
		if err := s.Claims.UpdateStatus(ctx, claimID, status); err != nil {
			return claims.Claim{}, err
		}
	case ResolutionRequestMoreInfo:
		if err := s.Decisions.UpdateAdminNotes(ctx, latest.ID, adminNote); err != nil {
			return claims.Claim{}, err
		}
		if err := s.Claims.UpdateMoreInfo(ctx, claimID); err != nil {
			return claims.Claim{}, err
		}
	default:
		return claims.Claim{}, fmt.Errorf("%w: %q", ErrInvalidResolution, resolution)
	}

	return s.Claims.GetByID(ctx, claimID)
}
