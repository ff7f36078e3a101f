package models

import "time"

// RuleResult is the output of one underwriting rule. Immutable, collected
// in evaluation order.
type RuleResult struct {
	RuleName  string  `json:"ruleName"`
	Passed    bool    `json:"passed"`
	Reason    string  `json:"reason"`
	Observed  float64 `json:"observed"`
	Threshold float64 `json:"threshold"`
}

// LoanTerms holds the computed amortization schedule parameters.
type LoanTerms struct {
	TermMonths     int     `json:"termMonths"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
}

// UnderwritingDecision is created once per application; immutable.
// On rejection the amount, rate and terms stay nil and Reason carries the
// "; "-joined reasons of every failed rule.
type UnderwritingDecision struct {
	Approved       bool         `json:"approved"`
	ApprovedAmount *float64     `json:"approvedAmount,omitempty"`
	InterestRate   *float64     `json:"interestRate,omitempty"`
	Terms          *LoanTerms   `json:"terms,omitempty"`
	Reason         string       `json:"reason"`
	DecidedAt      time.Time    `json:"decidedAt"`
	RuleResults    []RuleResult `json:"ruleResults"`
	CreditScore    *int         `json:"creditScore,omitempty"`
}
