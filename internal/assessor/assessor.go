// Package assessor aggregates credit data from the configured bureau
// sources into a single composite assessment.
package assessor

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"bank-automation/internal/bureau"
	"bank-automation/internal/common/errors"
	"bank-automation/internal/common/logger"
	"bank-automation/internal/models"

	"golang.org/x/sync/errgroup"
)

// Assessor queries every configured bureau concurrently and consolidates
// the responses. It holds no cross-application state, so independent
// applications may be assessed in parallel without synchronization.
type Assessor struct {
	bureaus []bureau.Bureau

	// requireAll controls partial-failure behavior: when true, any bureau
	// error fails the assessment; when false the composite degrades to the
	// mean of the bureaus that responded.
	requireAll bool

	logger logger.Logger
	now    func() time.Time
}

// New creates an assessor over the given bureau sources.
func New(bureaus []bureau.Bureau, requireAll bool, log logger.Logger) *Assessor {
	return &Assessor{
		bureaus:    bureaus,
		requireAll: requireAll,
		logger:     log.WithFields(map[string]interface{}{"stage": "credit-assessment"}),
		now:        time.Now,
	}
}

// Assess validates the customer info, fans out one request per bureau,
// waits for all to complete, and consolidates the responses. It always
// returns an assessment with a timestamp; failures are reported through
// the Success flag and Error field, never as a panic or Go error.
func (a *Assessor) Assess(ctx context.Context, customerID string, info *models.CustomerInfo) *models.CreditAssessment {
	if info == nil || info.PersonalInfo == nil {
		a.logger.WithError(errors.NewInvalidCustomerInfoError("personal information block is missing")).
			Warn("assessment rejected before bureau calls", map[string]interface{}{
				"customerId": customerID,
			})
		return &models.CreditAssessment{
			CustomerID: customerID,
			Success:    false,
			Error:      "customer personal information is missing",
			AssessedAt: a.now(),
		}
	}

	responses := make([]*models.BureauResponse, len(a.bureaus))
	errs := make([]error, len(a.bureaus))

	// Join-all fan-out: every bureau is queried concurrently and every
	// goroutine runs to completion. Errors are collected per slot so the
	// failure policy can be applied over the full result set.
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range a.bureaus {
		i, b := i, b
		g.Go(func() error {
			resp, err := b.Fetch(gctx, customerID, info.PersonalInfo)
			if err != nil {
				errs[i] = fmt.Errorf("bureau %s: %w", b.Source(), err)
				a.logger.WithError(errors.NewBureauUnavailableError(b.Source(), err)).
					Warn("bureau call failed", map[string]interface{}{
						"customerId": customerID,
					})
				return nil
			}
			responses[i] = resp
			return nil
		})
	}
	_ = g.Wait()

	var ok []models.BureauResponse
	var failed []string
	for i := range a.bureaus {
		if responses[i] != nil {
			ok = append(ok, *responses[i])
		} else if errs[i] != nil {
			failed = append(failed, errs[i].Error())
		}
	}

	if len(ok) == 0 || (a.requireAll && len(failed) > 0) {
		reason := "no bureau responded"
		if len(failed) > 0 {
			reason = strings.Join(failed, "; ")
		}
		a.logger.WithError(errors.NewAggregationFailedError(reason)).
			Error("assessment failed", map[string]interface{}{
				"customerId": customerID,
				"responded":  len(ok),
				"failed":     len(failed),
			})
		return &models.CreditAssessment{
			CustomerID: customerID,
			Success:    false,
			Error:      reason,
			AssessedAt: a.now(),
		}
	}

	composite := compositeScore(ok)
	history := consolidateHistory(ok)

	a.logger.Info("assessment completed", map[string]interface{}{
		"customerId":     customerID,
		"compositeScore": composite,
		"bureauCount":    len(ok),
		"totalAccounts":  history.TotalAccounts,
	})

	return &models.CreditAssessment{
		CustomerID:      customerID,
		Success:         true,
		CompositeScore:  &composite,
		CreditHistory:   history,
		BureauResponses: ok,
		AssessedAt:      a.now(),
	}
}

// compositeScore is the arithmetic mean of all bureau scores rounded to the
// nearest integer, which keeps it within [min, max] of the inputs.
func compositeScore(responses []models.BureauResponse) int {
	sum := 0
	for _, r := range responses {
		sum += r.Score
	}
	return int(math.Round(float64(sum) / float64(len(responses))))
}

// consolidateHistory unions the account lists. Accounts are not
// deduplicated across bureaus; each bureau's list is authoritative for its
// own source.
func consolidateHistory(responses []models.BureauResponse) *models.CreditHistory {
	h := &models.CreditHistory{}
	for _, r := range responses {
		h.TotalAccounts += len(r.Accounts)
		h.RecentInquiries += len(r.Inquiries)
		h.Accounts = append(h.Accounts, r.Accounts...)
	}
	return h
}
