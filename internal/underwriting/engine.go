// Package underwriting applies the ordered business rule list to a decided
// credit assessment and computes loan terms on approval.
package underwriting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"bank-automation/internal/common/config"
	"bank-automation/internal/common/errors"
	"bank-automation/internal/common/logger"
	"bank-automation/internal/models"
)

const (
	// ReasonNoCreditScore is the rejection reason when the assessment
	// failed or carries no composite score. Rules are never evaluated on
	// this path.
	ReasonNoCreditScore = "Unable to retrieve credit score"

	// Approved loans amortize over a fixed five-year term.
	loanTermMonths = 60
)

// Engine is purely computational and safe for concurrent use.
type Engine struct {
	rules  []Rule
	logger logger.Logger
	now    func() time.Time
}

// New builds the engine with the ordered, fixed rule list.
func New(cfg config.UnderwritingConfig, log logger.Logger) *Engine {
	return &Engine{
		rules: []Rule{
			minCreditScoreRule{threshold: cfg.MinCreditScore},
			maxLoanAmountRule{ceiling: cfg.MaxLoanAmount},
			debtToIncomeRule{maxRatio: cfg.MaxDebtToIncomeRatio},
			incomeMultiplierRule{maxMultiplier: cfg.MaxIncomeMultiplier},
			requiredDocumentsRule{required: []string{models.DocumentIncomeProof, models.DocumentBankStatement}},
		},
		logger: log.WithFields(map[string]interface{}{"stage": "underwriting"}),
		now:    time.Now,
	}
}

// Decide evaluates the rule list against the application and assessment.
// Every applicable rule runs; there is no short-circuit, so the caller sees
// the full reasoning. Unexpected panics during evaluation are converted
// into a rejection decision; Decide never panics out to the caller.
func (e *Engine) Decide(app *models.LoanApplication, assessment *models.CreditAssessment, income *models.IncomeVerification) (decision *models.UnderwritingDecision) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithError(errors.NewEvaluationFailedError(fmt.Sprint(r))).
				Error("evaluation error converted to rejection", map[string]interface{}{
					"applicationId": appID(app),
				})
			decision = &models.UnderwritingDecision{
				Approved:    false,
				Reason:      fmt.Sprintf("evaluation error: %v", r),
				DecidedAt:   e.now(),
				RuleResults: []models.RuleResult{},
			}
		}
	}()

	if assessment == nil || !assessment.Success || assessment.CompositeScore == nil {
		e.logger.Warn("rejecting without rule evaluation", map[string]interface{}{
			"applicationId": appID(app),
			"reason":        ReasonNoCreditScore,
		})
		return &models.UnderwritingDecision{
			Approved:    false,
			Reason:      ReasonNoCreditScore,
			DecidedAt:   e.now(),
			RuleResults: []models.RuleResult{},
		}
	}

	score := *assessment.CompositeScore
	in := &Input{Application: app, CreditScore: score, Income: income}

	results := make([]models.RuleResult, 0, len(e.rules))
	var failedReasons []string
	for _, rule := range e.rules {
		if !rule.Applicable(in) {
			continue
		}
		res := rule.Evaluate(in)
		results = append(results, res)
		if !res.Passed {
			failedReasons = append(failedReasons, res.Reason)
		}
	}

	if len(failedReasons) > 0 {
		e.logger.Info("application rejected", map[string]interface{}{
			"applicationId": appID(app),
			"failedRules":   len(failedReasons),
		})
		return &models.UnderwritingDecision{
			Approved:    false,
			Reason:      strings.Join(failedReasons, "; "),
			DecidedAt:   e.now(),
			RuleResults: results,
			CreditScore: &score,
		}
	}

	rate := interestRate(score)
	terms := computeTerms(app.RequestedAmount, rate, loanTermMonths)
	amount := app.RequestedAmount

	e.logger.Info("application approved", map[string]interface{}{
		"applicationId":  appID(app),
		"approvedAmount": amount,
		"interestRate":   rate,
		"monthlyPayment": terms.MonthlyPayment,
	})

	return &models.UnderwritingDecision{
		Approved:       true,
		ApprovedAmount: &amount,
		InterestRate:   &rate,
		Terms:          terms,
		Reason:         "All underwriting rules passed",
		DecidedAt:      e.now(),
		RuleResults:    results,
		CreditScore:    &score,
	}
}

// interestRate is a step function of the composite credit score.
func interestRate(score int) float64 {
	switch {
	case score >= 750:
		return 6.5
	case score >= 700:
		return 8.0
	case score >= 650:
		return 10.0
	default:
		return 12.0
	}
}

// computeTerms applies the standard amortization formula
// P*r*(1+r)^n / ((1+r)^n - 1) with the monthly rate r.
func computeTerms(principal, annualRatePct float64, months int) *models.LoanTerms {
	r := annualRatePct / 100 / 12
	var monthly float64
	if r == 0 {
		monthly = principal / float64(months)
	} else {
		pow := math.Pow(1+r, float64(months))
		monthly = principal * r * pow / (pow - 1)
	}
	monthly = round2(monthly)
	total := round2(monthly * float64(months))
	return &models.LoanTerms{
		TermMonths:     months,
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  round2(total - principal),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func appID(app *models.LoanApplication) string {
	if app == nil {
		return ""
	}
	return app.ID
}
