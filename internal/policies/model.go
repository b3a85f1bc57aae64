package policies

import "time"

// Policy encodes the return rule for one defect category. is_returnable
// decides approval for manufacturing defects; conditions and the time limit
// are folded into the customer-facing reason.
type Policy struct {
	ID             string    `json:"id"`
	DefectCategory string    `json:"defectCategory"`
	PolicyType     string    `json:"policyType"`
	IsReturnable   bool      `json:"isReturnable"`
	TimeLimitDays  int       `json:"timeLimitDays"`
	Conditions     string    `json:"conditions,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
