package underwriting

import (
	"fmt"
	"strings"

	"bank-automation/internal/models"
)

// Input is everything a rule may inspect.
type Input struct {
	Application *models.LoanApplication
	CreditScore int
	Income      *models.IncomeVerification
}

// Rule is one underwriting check. Applicable separates "skipped because the
// required input is absent" from "evaluated and failed": skipped rules do
// not block approval and contribute nothing to the rejection reason.
type Rule interface {
	Name() string
	Applicable(in *Input) bool
	Evaluate(in *Input) models.RuleResult
}

// Fixed amortization assumption used only for the debt-to-income estimate,
// independent of the final computed term.
const dtiEstimateMonths = 60

type minCreditScoreRule struct {
	threshold int
}

func (r minCreditScoreRule) Name() string { return "minimum_credit_score" }

func (r minCreditScoreRule) Applicable(_ *Input) bool { return true }

func (r minCreditScoreRule) Evaluate(in *Input) models.RuleResult {
	passed := in.CreditScore >= r.threshold
	reason := fmt.Sprintf("Credit score %d meets the minimum of %d", in.CreditScore, r.threshold)
	if !passed {
		reason = fmt.Sprintf("Credit score %d is below the minimum of %d", in.CreditScore, r.threshold)
	}
	return models.RuleResult{
		RuleName:  r.Name(),
		Passed:    passed,
		Reason:    reason,
		Observed:  float64(in.CreditScore),
		Threshold: float64(r.threshold),
	}
}

type maxLoanAmountRule struct {
	ceiling float64
}

func (r maxLoanAmountRule) Name() string { return "maximum_loan_amount" }

func (r maxLoanAmountRule) Applicable(_ *Input) bool { return true }

func (r maxLoanAmountRule) Evaluate(in *Input) models.RuleResult {
	amount := in.Application.RequestedAmount
	passed := amount <= r.ceiling
	reason := fmt.Sprintf("Requested amount %.2f is within the ceiling of %.2f", amount, r.ceiling)
	if !passed {
		reason = fmt.Sprintf("Requested amount %.2f exceeds the ceiling of %.2f", amount, r.ceiling)
	}
	return models.RuleResult{
		RuleName:  r.Name(),
		Passed:    passed,
		Reason:    reason,
		Observed:  amount,
		Threshold: r.ceiling,
	}
}

type debtToIncomeRule struct {
	maxRatio float64
}

func (r debtToIncomeRule) Name() string { return "debt_to_income_ratio" }

func (r debtToIncomeRule) Applicable(in *Input) bool {
	return in.Income != nil && in.Income.MonthlyIncome != nil && *in.Income.MonthlyIncome > 0
}

func (r debtToIncomeRule) Evaluate(in *Input) models.RuleResult {
	monthlyIncome := *in.Income.MonthlyIncome
	monthlyDebts := 0.0
	if in.Income.MonthlyDebts != nil {
		monthlyDebts = *in.Income.MonthlyDebts
	}
	estimatedPayment := in.Application.RequestedAmount / dtiEstimateMonths
	ratio := (monthlyDebts + estimatedPayment) / monthlyIncome

	passed := ratio <= r.maxRatio
	reason := fmt.Sprintf("Debt-to-income ratio %.2f is within the maximum of %.2f", ratio, r.maxRatio)
	if !passed {
		reason = fmt.Sprintf("Debt-to-income ratio %.2f exceeds the maximum of %.2f", ratio, r.maxRatio)
	}
	return models.RuleResult{
		RuleName:  r.Name(),
		Passed:    passed,
		Reason:    reason,
		Observed:  ratio,
		Threshold: r.maxRatio,
	}
}

type incomeMultiplierRule struct {
	maxMultiplier float64
}

func (r incomeMultiplierRule) Name() string { return "income_multiplier" }

func (r incomeMultiplierRule) Applicable(in *Input) bool {
	return in.Income != nil && in.Income.AnnualIncome != nil && *in.Income.AnnualIncome > 0
}

func (r incomeMultiplierRule) Evaluate(in *Input) models.RuleResult {
	multiplier := in.Application.RequestedAmount / *in.Income.AnnualIncome
	passed := multiplier <= r.maxMultiplier
	reason := fmt.Sprintf("Loan-to-income multiplier %.2f is within the maximum of %.2f", multiplier, r.maxMultiplier)
	if !passed {
		reason = fmt.Sprintf("Loan-to-income multiplier %.2f exceeds the maximum of %.2f", multiplier, r.maxMultiplier)
	}
	return models.RuleResult{
		RuleName:  r.Name(),
		Passed:    passed,
		Reason:    reason,
		Observed:  multiplier,
		Threshold: r.maxMultiplier,
	}
}

type requiredDocumentsRule struct {
	required []string
}

func (r requiredDocumentsRule) Name() string { return "required_documents" }

func (r requiredDocumentsRule) Applicable(_ *Input) bool { return true }

func (r requiredDocumentsRule) Evaluate(in *Input) models.RuleResult {
	var missing []string
	for _, docType := range r.required {
		if !in.Application.HasDocument(docType) {
			missing = append(missing, docType)
		}
	}
	passed := len(missing) == 0
	reason := "All required documents are present"
	if !passed {
		reason = fmt.Sprintf("Missing required documents: %s", strings.Join(missing, ", "))
	}
	return models.RuleResult{
		RuleName:  r.Name(),
		Passed:    passed,
		Reason:    reason,
		Observed:  float64(len(r.required) - len(missing)),
		Threshold: float64(len(r.required)),
	}
}
