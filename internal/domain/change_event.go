package domain

import (
	"slices"
	"time"
)

// ChangeOperation describes a persisted activity operation for a task.
type ChangeOperation string

// ChangeOperation values used by the activity ledger.
const (
	ChangeOperationCreate ChangeOperation = "create"
	ChangeOperationMove   ChangeOperation = "move"
)

var validChangeOperations = []ChangeOperation{ChangeOperationCreate, ChangeOperationMove}

// Valid reports whether op is a known ledger operation.
func (op ChangeOperation) Valid() bool {
	return slices.Contains(validChangeOperations, op)
}

// ChangeEvent represents a single activity-log entry for a task.
// FromStatus is empty for creates.
type ChangeEvent struct {
	ID         int64
	TaskID     int64
	Operation  ChangeOperation
	FromStatus Status
	ToStatus   Status
	OccurredAt time.Time
}
