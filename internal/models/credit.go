package models

import "time"

// Valid bureau score range (FICO-style).
const (
	MinBureauScore = 300
	MaxBureauScore = 850
)

// AccountRecord is one tradeline reported by a single bureau. Accounts are
// not deduplicated across bureaus; each bureau's list is authoritative for
// its own source.
type AccountRecord struct {
	AccountType string  `json:"accountType"`
	Balance     float64 `json:"balance"`
	Status      string  `json:"status"`
	OpenedAt    string  `json:"openedAt,omitempty"`
}

// InquiryRecord is one recent credit inquiry reported by a single bureau.
type InquiryRecord struct {
	Requester string    `json:"requester"`
	Date      time.Time `json:"date"`
}

// BureauResponse is the per-source result. Immutable once received.
type BureauResponse struct {
	Source     string          `json:"source"`
	Score      int             `json:"score"`
	ReportDate time.Time       `json:"reportDate"`
	Accounts   []AccountRecord `json:"accounts"`
	Inquiries  []InquiryRecord `json:"inquiries"`
}

// CreditHistory consolidates account data across all responding bureaus.
type CreditHistory struct {
	TotalAccounts   int             `json:"totalAccounts"`
	RecentInquiries int             `json:"recentInquiries"`
	Accounts        []AccountRecord `json:"accounts"`
}

// CreditAssessment aggregates all bureau responses for one customer at one
// point in time. Never mutated after creation; re-assessment creates a new
// instance. AssessedAt is recorded on every path, success or failure.
type CreditAssessment struct {
	CustomerID      string           `json:"customerId"`
	Success         bool             `json:"success"`
	CompositeScore  *int             `json:"compositeScore,omitempty"`
	CreditHistory   *CreditHistory   `json:"creditHistory,omitempty"`
	BureauResponses []BureauResponse `json:"bureauResponses,omitempty"`
	Error           string           `json:"error,omitempty"`
	AssessedAt      time.Time        `json:"assessedAt"`
}
