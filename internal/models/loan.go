package models

// Application status values. Transitions are monotonic:
// submitted -> under_review -> decided -> assigned.
const (
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusDecided     = "decided"
	StatusAssigned    = "assigned"
)

// Loan types used as officer specialization keys.
const (
	LoanTypePersonal = "personal"
	LoanTypeMortgage = "mortgage"
	LoanTypeAuto     = "auto"
	LoanTypeBusiness = "business"
)

// Document types the underwriting rules recognize.
const (
	DocumentIncomeProof   = "income_proof"
	DocumentBankStatement = "bank_statement"
	DocumentIdentity      = "identity"
	DocumentTaxReturn     = "tax_return"
)

// LoanApplication is owned by the pipeline for the duration of processing.
// CreditScore is set exactly once, after a successful assessment.
type LoanApplication struct {
	ID              string       `json:"id"`
	CustomerID      string       `json:"customerId"`
	LoanType        string       `json:"loanType"`
	RequestedAmount float64      `json:"requestedAmount"`
	Currency        string       `json:"currency,omitempty"`
	Documents       []Document   `json:"documents,omitempty"`
	CustomerInfo    CustomerInfo `json:"customerInfo"`
	CreditScore     *int         `json:"creditScore,omitempty"`
	Status          string       `json:"status"`
	AssignedOfficer *string      `json:"assignedOfficer,omitempty"`
}

// Document references a validated, type-tagged upload. Extraction happens
// in the document-validation collaborator; only the reference travels here.
type Document struct {
	Type          string `json:"type"`
	ExtractionRef string `json:"extractionRef"`
}

// CustomerInfo is the validated customer block from the intake collaborator.
// A nil PersonalInfo makes the assessment fail before any bureau call.
type CustomerInfo struct {
	PersonalInfo *PersonalInfo `json:"personalInfo,omitempty"`
}

type PersonalInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// IncomeVerification is extracted upstream; any field may be absent.
type IncomeVerification struct {
	MonthlyIncome *float64 `json:"monthlyIncome,omitempty"`
	AnnualIncome  *float64 `json:"annualIncome,omitempty"`
	MonthlyDebts  *float64 `json:"monthlyDebts,omitempty"`
}

// HasDocument reports whether the application carries a document of the
// given type.
func (a *LoanApplication) HasDocument(docType string) bool {
	for _, d := range a.Documents {
		if d.Type == docType {
			return true
		}
	}
	return false
}
