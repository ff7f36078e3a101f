// Package pipeline orchestrates the adjudication stages for one loan
// application: intake validation, credit assessment, underwriting, and
// review-task scheduling.
package pipeline

import (
	"context"
	"time"

	"bank-automation/internal/assessor"
	"bank-automation/internal/common/logger"
	"bank-automation/internal/common/metrics"
	"bank-automation/internal/intake"
	"bank-automation/internal/models"
	"bank-automation/internal/scheduler"
	"bank-automation/internal/underwriting"
)

// Result aggregates the outcome of every stage for downstream collaborators
// (notification, audit). The application inside reflects the final status.
type Result struct {
	Application *models.LoanApplication      `json:"application"`
	Assessment  *models.CreditAssessment     `json:"assessment"`
	Decision    *models.UnderwritingDecision `json:"decision"`
	Assignment  *models.AssignmentResult     `json:"assignment"`
}

// Pipeline wires the three stages together. It holds no per-application
// state, so applications may be processed concurrently; the scheduler
// serializes its own mutations internally.
type Pipeline struct {
	assessor  *assessor.Assessor
	engine    *underwriting.Engine
	scheduler *scheduler.Manager
	logger    logger.Logger
	now       func() time.Time
}

// New assembles the pipeline from its stage components.
func New(a *assessor.Assessor, e *underwriting.Engine, s *scheduler.Manager, log logger.Logger) *Pipeline {
	return &Pipeline{
		assessor:  a,
		engine:    e,
		scheduler: s,
		logger:    log.WithFields(map[string]interface{}{"component": "pipeline"}),
		now:       time.Now,
	}
}

// Process runs one application through every stage. A malformed payload
// fails at intake with a stage error; a failed credit assessment does NOT
// stop the pipeline, it flows into underwriting where it becomes a
// rejection, and the rejection still gets a review task. The only other
// error source is the scheduler.
func (p *Pipeline) Process(ctx context.Context, app *models.LoanApplication, income *models.IncomeVerification) (*Result, error) {
	if err := intake.Validate(app); err != nil {
		p.logger.Warn("application rejected at intake", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	p.logger.Info("processing application", map[string]interface{}{
		"applicationId": app.ID,
		"customerId":    app.CustomerID,
		"loanType":      app.LoanType,
		"amount":        app.RequestedAmount,
	})
	app.Status = models.StatusUnderReview

	start := p.now()
	assessment := p.assessor.Assess(ctx, app.CustomerID, &app.CustomerInfo)
	metrics.StageDuration.WithLabelValues("credit-assessment").Observe(p.now().Sub(start).Seconds())
	if assessment.Success {
		metrics.CreditAssessments.WithLabelValues("success").Inc()
		// Set exactly once; bureau scores may drift between assessments and
		// the recorded score must not.
		if app.CreditScore == nil {
			app.CreditScore = assessment.CompositeScore
		}
	} else {
		metrics.CreditAssessments.WithLabelValues("failure").Inc()
	}

	start = p.now()
	decision := p.engine.Decide(app, assessment, income)
	metrics.StageDuration.WithLabelValues("underwriting").Observe(p.now().Sub(start).Seconds())
	if decision.Approved {
		metrics.UnderwritingDecisions.WithLabelValues("approved").Inc()
	} else {
		metrics.UnderwritingDecisions.WithLabelValues("rejected").Inc()
	}
	app.Status = models.StatusDecided

	start = p.now()
	assignment, err := p.scheduler.AssignTask(app, decision)
	metrics.StageDuration.WithLabelValues("scheduling").Observe(p.now().Sub(start).Seconds())
	if err != nil {
		return nil, err
	}
	if assignment.Assigned {
		app.Status = models.StatusAssigned
		app.AssignedOfficer = &assignment.OfficerID
	}

	p.logger.Info("application processed", map[string]interface{}{
		"applicationId": app.ID,
		"approved":      decision.Approved,
		"taskId":        assignment.Task.ID,
		"assigned":      assignment.Assigned,
		"status":        app.Status,
	})

	return &Result{
		Application: app,
		Assessment:  assessment,
		Decision:    decision,
		Assignment:  assignment,
	}, nil
}
