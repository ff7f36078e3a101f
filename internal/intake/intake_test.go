package intake

import (
	"testing"

	"bank-automation/internal/common/errors"
	"bank-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createValidApplication() *models.LoanApplication {
	return &models.LoanApplication{
		ID:              "app-1",
		CustomerID:      "cust-1",
		LoanType:        models.LoanTypePersonal,
		RequestedAmount: 50_000,
		Currency:        "USD",
		Documents: []models.Document{
			{Type: models.DocumentIncomeProof, ExtractionRef: "ref-1"},
		},
	}
}

// ==========================
// Validation Tests
// ==========================

func TestValidate_AcceptsWellFormedApplication(t *testing.T) {
	assert.Nil(t, Validate(createValidApplication()))
}

func TestValidate_AcceptsMinimalApplication(t *testing.T) {
	app := &models.LoanApplication{
		ID:              "app-1",
		CustomerID:      "cust-1",
		LoanType:        models.LoanTypeAuto,
		RequestedAmount: 1,
	}
	assert.Nil(t, Validate(app))
}

func TestValidate_RejectsMalformedApplications(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(app *models.LoanApplication)
		detail string
	}{
		{
			name:   "empty id",
			mutate: func(app *models.LoanApplication) { app.ID = "" },
			detail: "id",
		},
		{
			name:   "empty customer id",
			mutate: func(app *models.LoanApplication) { app.CustomerID = "" },
			detail: "customerId",
		},
		{
			name:   "unknown loan type",
			mutate: func(app *models.LoanApplication) { app.LoanType = "yacht" },
			detail: "loanType",
		},
		{
			name:   "zero amount",
			mutate: func(app *models.LoanApplication) { app.RequestedAmount = 0 },
			detail: "requestedAmount",
		},
		{
			name:   "negative amount",
			mutate: func(app *models.LoanApplication) { app.RequestedAmount = -10 },
			detail: "requestedAmount",
		},
		{
			name:   "bad currency code",
			mutate: func(app *models.LoanApplication) { app.Currency = "DOLLARS" },
			detail: "currency",
		},
		{
			name: "unknown document type",
			mutate: func(app *models.LoanApplication) {
				app.Documents = []models.Document{{Type: "selfie"}}
			},
			detail: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := createValidApplication()
			tt.mutate(app)

			err := Validate(app)

			require.NotNil(t, err)
			assert.Equal(t, errors.ErrCodeMalformedApplication, err.Code)
			assert.Equal(t, errors.StageIntake, err.Stage)
			assert.Contains(t, err.Details, tt.detail)
		})
	}
}

func TestValidate_NilApplication(t *testing.T) {
	err := Validate(nil)

	require.NotNil(t, err)
	assert.Equal(t, errors.ErrCodeMalformedApplication, err.Code)
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	app := createValidApplication()
	app.ID = ""
	app.LoanType = "yacht"

	err := Validate(app)

	require.NotNil(t, err)
	assert.Contains(t, err.Details, "id")
	assert.Contains(t, err.Details, "loanType")
}
