package scheduler

import (
	"time"

	"bank-automation/internal/models"
)

const (
	basePriority = 50
	minPriority  = 0
	maxPriority  = 100
)

// taskPriority scores how urgently a decided application needs officer
// review. Large amounts and approvals move forward, rejections move back
// (they still need a confirmation pass, just not an urgent one).
func taskPriority(amount float64, decision *models.UnderwritingDecision) int {
	p := basePriority

	switch {
	case amount > 500_000:
		p += 20
	case amount > 100_000:
		p += 10
	}

	if decision != nil {
		if decision.Approved {
			p += 15
		} else {
			p -= 10
		}
		if decision.CreditScore != nil && *decision.CreditScore > 750 {
			p += 10
		}
	}

	if p < minPriority {
		p = minPriority
	}
	if p > maxPriority {
		p = maxPriority
	}
	return p
}

// officerScore ranks an officer for a task. Free capacity dominates, then
// specialization match, then historical performance; the jitter term breaks
// ties between otherwise identical officers.
func officerScore(o *models.Officer, loanType string, jitter float64) float64 {
	free := 1 - float64(o.CurrentLoad)/float64(o.Capacity)
	score := free * 40

	if o.Specializes(loanType) {
		score += 30
	}
	score += o.Performance / 100 * 20
	score += jitter * 10
	return score
}

// dueDate maps priority to a review deadline.
func dueDate(createdAt time.Time, priority int) time.Time {
	var days int
	switch {
	case priority >= 80:
		days = 2
	case priority >= 60:
		days = 4
	case priority >= 40:
		days = 7
	default:
		days = 10
	}
	return createdAt.AddDate(0, 0, days)
}
