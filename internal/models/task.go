package models

import "time"

// Task status values. Transitions are monotonic: queued -> assigned ->
// completed, or directly assigned -> completed when capacity is free at
// assignment time.
const (
	TaskQueued    = "queued"
	TaskAssigned  = "assigned"
	TaskCompleted = "completed"
)

// Officer is mutated only by the workflow manager under mutual exclusion.
// CurrentLoad equals len(AssignedTasks) and never exceeds Capacity.
type Officer struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Capacity        int                 `json:"capacity"`
	CurrentLoad     int                 `json:"currentLoad"`
	Specializations []string            `json:"specializations"`
	Performance     float64             `json:"performance"`
	AssignedTasks   map[string]struct{} `json:"-"`
}

// Specializes reports whether the officer handles the given loan type.
func (o *Officer) Specializes(loanType string) bool {
	for _, s := range o.Specializations {
		if s == loanType {
			return true
		}
	}
	return false
}

// Task is created once per application; its ID is derived deterministically
// from the application ID so re-submission is idempotent.
type Task struct {
	ID              string                `json:"id"`
	ApplicationID   string                `json:"applicationId"`
	CustomerID      string                `json:"customerId"`
	LoanType        string                `json:"loanType"`
	RequestedAmount float64               `json:"requestedAmount"`
	Decision        *UnderwritingDecision `json:"decision"`
	Priority        int                   `json:"priority"`
	Status          string                `json:"status"`
	OfficerID       *string               `json:"officerId,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	DueDate         time.Time             `json:"dueDate"`
}

// AssignmentResult is returned by AssignTask. For a newly created task
// exactly one of Assigned or Queued is true; Completed reports
// re-submission of an application whose review already finished.
type AssignmentResult struct {
	Task          *Task  `json:"task"`
	Assigned      bool   `json:"assigned"`
	Queued        bool   `json:"queued"`
	Completed     bool   `json:"completed,omitempty"`
	OfficerID     string `json:"officerId,omitempty"`
	QueuePosition int    `json:"queuePosition,omitempty"`
}

// CompletionResult is returned by CompleteTask.
type CompletionResult struct {
	Task      *Task  `json:"task"`
	OfficerID string `json:"officerId"`
	// Drained lists tasks promoted out of the queue by the drain pass that
	// this completion triggered.
	Drained []*Task `json:"drained,omitempty"`
}
