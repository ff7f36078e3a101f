// Package errors provides structured failures for the adjudication pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidCustomerInfo  ErrorCode = "INVALID_CUSTOMER_INFO"
	ErrCodeMalformedApplication ErrorCode = "MALFORMED_APPLICATION"

	ErrCodeBureauUnavailable ErrorCode = "BUREAU_UNAVAILABLE"
	ErrCodeAggregationFailed ErrorCode = "AGGREGATION_FAILED"
	ErrCodeEvaluationFailed  ErrorCode = "EVALUATION_FAILED"

	ErrCodeTaskNotFound         ErrorCode = "TASK_NOT_FOUND"
	ErrCodeOfficerNotFound      ErrorCode = "OFFICER_NOT_FOUND"
	ErrCodeOfficerHasActiveLoad ErrorCode = "OFFICER_HAS_ACTIVE_LOAD"
	ErrCodeDuplicateOfficer     ErrorCode = "DUPLICATE_OFFICER"
)

// Pipeline stage names carried on every StageError for the audit collaborator.
const (
	StageIntake       = "intake"
	StageAssessment   = "credit-assessment"
	StageUnderwriting = "underwriting"
	StageScheduling   = "scheduling"
)

// StageError is a structured pipeline failure. It carries enough context
// (stage, reason, timestamp) for an external audit collaborator to log it.
type StageError struct {
	Code      ErrorCode              `json:"code"`
	Stage     string                 `json:"stage"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StageError) Error() string {
	return fmt.Sprintf("StageError[%s/%s]: %s", e.Stage, e.Code, e.Message)
}

// NewInvalidCustomerInfoError reports missing or nil personal information.
func NewInvalidCustomerInfoError(details string) *StageError {
	return &StageError{
		Code:      ErrCodeInvalidCustomerInfo,
		Stage:     StageAssessment,
		Message:   "Customer information is missing or invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedApplicationError reports an inbound application payload that
// failed schema validation before any external call was attempted.
func NewMalformedApplicationError(details string) *StageError {
	return &StageError{
		Code:      ErrCodeMalformedApplication,
		Stage:     StageIntake,
		Message:   "Application payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBureauUnavailableError reports a single bureau call failure.
func NewBureauUnavailableError(source string, err error) *StageError {
	return &StageError{
		Code:      ErrCodeBureauUnavailable,
		Stage:     StageAssessment,
		Message:   fmt.Sprintf("Credit bureau '%s' unavailable", source),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAggregationFailedError reports that no usable bureau score was obtained.
func NewAggregationFailedError(details string) *StageError {
	return &StageError{
		Code:      ErrCodeAggregationFailed,
		Stage:     StageAssessment,
		Message:   "No usable credit bureau responses",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEvaluationFailedError reports an unexpected failure during rule checks.
// The underwriting engine converts this into a rejection, never a panic.
func NewEvaluationFailedError(details string) *StageError {
	return &StageError{
		Code:      ErrCodeEvaluationFailed,
		Stage:     StageUnderwriting,
		Message:   "Underwriting evaluation error",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTaskNotFoundError reports a completion attempt for a task that is not
// currently assigned to any officer.
func NewTaskNotFoundError(taskID string) *StageError {
	return &StageError{
		Code:      ErrCodeTaskNotFound,
		Stage:     StageScheduling,
		Message:   "Task is not assigned to any officer",
		Details:   fmt.Sprintf("taskId: %s", taskID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOfficerNotFoundError reports an operation against an unknown officer.
func NewOfficerNotFoundError(officerID string) *StageError {
	return &StageError{
		Code:      ErrCodeOfficerNotFound,
		Stage:     StageScheduling,
		Message:   "Officer is not registered",
		Details:   fmt.Sprintf("officerId: %s", officerID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOfficerHasActiveLoadError rejects deregistration of a loaded officer.
func NewOfficerHasActiveLoadError(officerID string, load int) *StageError {
	return &StageError{
		Code:      ErrCodeOfficerHasActiveLoad,
		Stage:     StageScheduling,
		Message:   "Officer still has assigned tasks",
		Details:   fmt.Sprintf("officerId: %s, currentLoad: %d", officerID, load),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateOfficerError rejects double registration of an officer ID.
func NewDuplicateOfficerError(officerID string) *StageError {
	return &StageError{
		Code:      ErrCodeDuplicateOfficer,
		Stage:     StageScheduling,
		Message:   "Officer is already registered",
		Details:   fmt.Sprintf("officerId: %s", officerID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
