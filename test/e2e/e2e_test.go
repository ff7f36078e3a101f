// Package e2e exercises the full adjudication flow end to end: intake,
// concurrent credit assessment, underwriting, and review scheduling.
package e2e

import (
	"context"
	"errors"
	"testing"

	"bank-automation/internal/assessor"
	"bank-automation/internal/bureau"
	"bank-automation/internal/common/config"
	"bank-automation/internal/common/logger"
	"bank-automation/internal/models"
	"bank-automation/internal/pipeline"
	"bank-automation/internal/scheduler"
	"bank-automation/internal/underwriting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type scriptedBureau struct {
	source string
	score  int
	err    error
}

func (s *scriptedBureau) Source() string { return s.source }

func (s *scriptedBureau) Fetch(_ context.Context, _ string, _ *models.PersonalInfo) (*models.BureauResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.BureauResponse{
		Source: s.source,
		Score:  s.score,
		Accounts: []models.AccountRecord{
			{AccountType: "credit_card", Balance: 2500, Status: "current"},
		},
	}, nil
}

func buildPipeline(t *testing.T, bureaus []bureau.Bureau, officers ...*models.Officer) (*pipeline.Pipeline, *scheduler.Manager) {
	t.Helper()
	log := logger.NewTestLogger(t)
	assess := assessor.New(bureaus, false, log)
	engine := underwriting.New(config.UnderwritingConfig{
		MinCreditScore:       650,
		MaxLoanAmount:        1_000_000,
		MaxDebtToIncomeRatio: 0.43,
		MaxIncomeMultiplier:  3,
	}, log)
	sched := scheduler.New(log)
	for _, o := range officers {
		require.NoError(t, sched.RegisterOfficer(o))
	}
	return pipeline.New(assess, engine, sched, log), sched
}

func newApplication(id string, amount float64) *models.LoanApplication {
	return &models.LoanApplication{
		ID:              id,
		CustomerID:      "cust-" + id,
		LoanType:        models.LoanTypePersonal,
		RequestedAmount: amount,
		Currency:        "USD",
		Status:          models.StatusSubmitted,
		Documents: []models.Document{
			{Type: models.DocumentIncomeProof, ExtractionRef: "ref-income"},
			{Type: models.DocumentBankStatement, ExtractionRef: "ref-stmt"},
		},
		CustomerInfo: models.CustomerInfo{
			PersonalInfo: &models.PersonalInfo{Name: "Jordan Miles", Email: "jordan@example.com"},
		},
	}
}

func income(monthly, annual, debts float64) *models.IncomeVerification {
	return &models.IncomeVerification{
		MonthlyIncome: &monthly,
		AnnualIncome:  &annual,
		MonthlyDebts:  &debts,
	}
}

// ==========================
// End-to-End Scenarios
// ==========================

func TestE2E_StrongApplicantApprovedAndAssigned(t *testing.T) {
	bureaus := []bureau.Bureau{
		&scriptedBureau{source: "equinor", score: 780},
		&scriptedBureau{source: "transaxle", score: 785},
		&scriptedBureau{source: "experio", score: 775},
	}
	pipe, sched := buildPipeline(t, bureaus,
		&models.Officer{ID: "off-1", Name: "Dana Reyes", Capacity: 3, Performance: 90},
	)

	app := newApplication("app-strong", 50_000)
	result, err := pipe.Process(context.Background(), app, income(12_000, 144_000, 800))

	require.NoError(t, err)

	// Assessment consolidates all three bureaus.
	require.True(t, result.Assessment.Success)
	assert.Equal(t, 780, *result.Assessment.CompositeScore)
	assert.Equal(t, 3, result.Assessment.CreditHistory.TotalAccounts)

	// Underwriting approves at the top rate tier.
	require.True(t, result.Decision.Approved)
	assert.Equal(t, 6.5, *result.Decision.InterestRate)
	assert.Equal(t, 60, result.Decision.Terms.TermMonths)
	assert.InDelta(t, 978.31, result.Decision.Terms.MonthlyPayment, 0.01)

	// Scheduling assigns immediately at priority 75 with a 4-day deadline.
	task := result.Assignment.Task
	require.True(t, result.Assignment.Assigned)
	assert.Equal(t, 75, task.Priority)
	assert.Equal(t, task.CreatedAt.AddDate(0, 0, 4), task.DueDate)
	assert.Equal(t, models.StatusAssigned, app.Status)

	officer, err := sched.Officer("off-1")
	require.NoError(t, err)
	assert.Equal(t, 1, officer.CurrentLoad)
}

func TestE2E_BureauOutageBecomesReviewedRejection(t *testing.T) {
	bureaus := []bureau.Bureau{
		&scriptedBureau{source: "equinor", err: errors.New("gateway timeout")},
		&scriptedBureau{source: "transaxle", err: errors.New("gateway timeout")},
	}
	pipe, _ := buildPipeline(t, bureaus,
		&models.Officer{ID: "off-1", Name: "Dana Reyes", Capacity: 3, Performance: 90},
	)

	app := newApplication("app-outage", 50_000)
	result, err := pipe.Process(context.Background(), app, income(12_000, 144_000, 800))

	require.NoError(t, err, "assessment failure must not abort the pipeline")
	assert.False(t, result.Assessment.Success)
	assert.Nil(t, app.CreditScore)

	assert.False(t, result.Decision.Approved)
	assert.Equal(t, underwriting.ReasonNoCreditScore, result.Decision.Reason)
	assert.Empty(t, result.Decision.RuleResults)

	// The rejection still lands on an officer's desk, just with low urgency.
	task := result.Assignment.Task
	require.True(t, result.Assignment.Assigned)
	assert.Equal(t, 40, task.Priority)
	assert.Equal(t, task.CreatedAt.AddDate(0, 0, 7), task.DueDate)
}

func TestE2E_CapacityPressureQueuesAndDrains(t *testing.T) {
	bureaus := []bureau.Bureau{&scriptedBureau{source: "equinor", score: 720}}
	pipe, sched := buildPipeline(t, bureaus,
		&models.Officer{ID: "off-1", Name: "Dana Reyes", Capacity: 1, Performance: 90},
	)

	first, err := pipe.Process(context.Background(), newApplication("app-1", 50_000), nil)
	require.NoError(t, err)
	require.True(t, first.Assignment.Assigned)

	second, err := pipe.Process(context.Background(), newApplication("app-2", 600_000), nil)
	require.NoError(t, err)
	require.True(t, second.Assignment.Queued)
	assert.Equal(t, 1, sched.QueueDepth())

	// Completing the first review frees capacity and promotes the queued
	// high-priority task.
	completion, err := sched.CompleteTask(first.Assignment.Task.ID)
	require.NoError(t, err)
	require.Len(t, completion.Drained, 1)
	assert.Equal(t, second.Assignment.Task.ID, completion.Drained[0].ID)
	assert.Equal(t, models.TaskAssigned, completion.Drained[0].Status)
	assert.Equal(t, 0, sched.QueueDepth())

	officer, err := sched.Officer("off-1")
	require.NoError(t, err)
	assert.Equal(t, 1, officer.CurrentLoad)
}
