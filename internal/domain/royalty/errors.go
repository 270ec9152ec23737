package royalty

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Error codes surfaced in batch reports and API responses.
const (
	CodeScheduleInvalid    = "SCHEDULE_INVALID"
	CodeCalculationFailed  = "CALCULATION_FAILED"
	CodeDuplicateStatement = "DUPLICATE_STATEMENT"
	CodeDeliveryFailed     = "DELIVERY_FAILED"
)

// ScheduleError indicates a contract's rate tiers are missing, overlapping,
// non-contiguous, or lack an unbounded final tier. It is a data-integrity
// fault: fatal for the affected author, non-fatal for a batch.
type ScheduleError struct {
	ContractID uuid.UUID
	Format     Format
	Reason     string
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("invalid rate schedule for contract %s format %s: %s", e.ContractID, e.Format, e.Reason)
}

// Code returns the stable error code for reporting
func (e *ScheduleError) Code() string { return CodeScheduleInvalid }

// CalculationError indicates the royalty calculation could not be performed
// for an author: no active contract, or returns exceeding recorded sales.
// Fatal for the affected author, non-fatal for a batch.
type CalculationError struct {
	AuthorID uuid.UUID
	Reason   string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("royalty calculation failed for author %s: %s", e.AuthorID, e.Reason)
}

// Code returns the stable error code for reporting
func (e *CalculationError) Code() string { return CodeCalculationFailed }

// DuplicateStatementError indicates a finalized statement already exists for
// the contract and period. Re-runs never overwrite; corrections require an
// explicit correction path.
type DuplicateStatementError struct {
	ContractID  uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (e *DuplicateStatementError) Error() string {
	return fmt.Sprintf("a finalized statement already exists for contract %s period %s..%s",
		e.ContractID, e.PeriodStart.Format("2006-01-02"), e.PeriodEnd.Format("2006-01-02"))
}

// Code returns the stable error code for reporting
func (e *DuplicateStatementError) Code() string { return CodeDuplicateStatement }

// DeliveryError indicates statement delivery failed. Transient provider
// failures are retried by the delivery service; a DeliveryError reported to
// the orchestrator is terminal for that author's delivery stage.
type DeliveryError struct {
	StatementID uuid.UUID
	Attempts    int
	Reason      string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery of statement %s failed after %d attempt(s): %s", e.StatementID, e.Attempts, e.Reason)
}

// Code returns the stable error code for reporting
func (e *DeliveryError) Code() string { return CodeDeliveryFailed }

// ErrorCode extracts the stable report code from a pipeline error.
// Unrecognized errors map to an empty code and are treated as infrastructure
// faults by the orchestrator.
func ErrorCode(err error) string {
	var schedErr *ScheduleError
	if errors.As(err, &schedErr) {
		return schedErr.Code()
	}
	var calcErr *CalculationError
	if errors.As(err, &calcErr) {
		return calcErr.Code()
	}
	var dupErr *DuplicateStatementError
	if errors.As(err, &dupErr) {
		return dupErr.Code()
	}
	var delErr *DeliveryError
	if errors.As(err, &delErr) {
		return delErr.Code()
	}
	return ""
}
