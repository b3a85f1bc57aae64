package claims

import "time"

// Claim statuses. Starred transitions in the lifecycle are terminal:
// approved, denied, approved_manual and denied_manual never change again.
const (
	StatusProcessing        = "processing"
	StatusApproved          = "approved"
	StatusDenied            = "denied"
	StatusManualReview      = "manual_review"
	StatusMoreInfoRequested = "more_info_requested"
	StatusApprovedManual    = "approved_manual"
	StatusDeniedManual      = "denied_manual"
)

// IsTerminal reports whether a claim status admits no further transitions.
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusDenied, StatusApprovedManual, StatusDeniedManual:
		return true
	default:
		return false
	}
}

// Claim is a customer's return request.
type Claim struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId,omitempty"`
	CustomerName      string    `json:"customerName"`
	CustomerEmail     string    `json:"customerEmail"`
	OrderID           *string   `json:"orderId,omitempty"`
	ProductName       string    `json:"productName"`
	ProductCategory   string    `json:"productCategory,omitempty"`
	IssueDescription  string    `json:"issueDescription"`
	IssueCategory     string    `json:"issueCategory,omitempty"`
	Language          string    `json:"language"`
	ImageURL          *string   `json:"imageUrl,omitempty"`
	OriginalImageURL  *string   `json:"originalImageUrl,omitempty"`
	Status            string    `json:"status"`
	MoreInfoRequested bool      `json:"moreInfoRequested"`
	AnalysisRound     int       `json:"analysisRound"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
