// Package bureau provides the credit bureau sources the assessor fans out
// to. Bureau identifiers are opaque routing keys; authentication and wire
// protocol of real bureau APIs live outside this core.
package bureau

import (
	"context"
	"hash/fnv"
	"time"

	"bank-automation/internal/models"
)

// Bureau is a single credit data source.
type Bureau interface {
	Source() string
	Fetch(ctx context.Context, customerID string, info *models.PersonalInfo) (*models.BureauResponse, error)
}

// Simulated stands in for an external bureau API. Scores derive from the
// customer identity plus a per-source spread, always within the valid
// 300-850 range.
type Simulated struct {
	source string
	now    func() time.Time
}

// NewSimulated creates a simulated bureau for the given source identifier.
func NewSimulated(source string) *Simulated {
	return &Simulated{source: source, now: time.Now}
}

func (s *Simulated) Source() string { return s.source }

func (s *Simulated) Fetch(_ context.Context, customerID string, _ *models.PersonalInfo) (*models.BureauResponse, error) {
	seed := hashSeed(s.source + ":" + customerID)

	// Base score in 520-820 with a small per-source spread, clamped to the
	// valid range.
	score := 520 + int(seed%300)
	score += int((seed>>8)%21) - 10
	if score < models.MinBureauScore {
		score = models.MinBureauScore
	}
	if score > models.MaxBureauScore {
		score = models.MaxBureauScore
	}

	accountCount := 1 + int((seed>>16)%4)
	accounts := make([]models.AccountRecord, 0, accountCount)
	types := []string{"credit_card", "auto_loan", "mortgage", "personal_loan"}
	for i := 0; i < accountCount; i++ {
		accounts = append(accounts, models.AccountRecord{
			AccountType: types[(int(seed)+i)%len(types)],
			Balance:     float64(1000 * (1 + int((seed>>uint(4+i))%50))),
			Status:      "current",
		})
	}

	inquiryCount := int((seed >> 24) % 3)
	inquiries := make([]models.InquiryRecord, 0, inquiryCount)
	for i := 0; i < inquiryCount; i++ {
		inquiries = append(inquiries, models.InquiryRecord{
			Requester: "lender-" + s.source,
			Date:      s.now().AddDate(0, 0, -7*(i+1)),
		})
	}

	return &models.BureauResponse{
		Source:     s.source,
		Score:      score,
		ReportDate: s.now(),
		Accounts:   accounts,
		Inquiries:  inquiries,
	}, nil
}

func hashSeed(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}
