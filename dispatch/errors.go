package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// ValidationError indicates a call intake payload failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError indicates the referenced call or unit does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidTransitionError indicates a call was not in the status required for
// the requested transition. Call statuses only move forward.
type InvalidTransitionError struct {
	CallID string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("call %s cannot move from %s to %s", e.CallID, e.From, e.To)
}

// AlreadyAssignedError indicates one or more units were not available, so the
// dispatch would have double-assigned them.
type AlreadyAssignedError struct {
	UnitIDs []string
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("units not available: %s", strings.Join(e.UnitIDs, ", "))
}

// EmptySelectionError indicates a dispatch was requested with no units.
type EmptySelectionError struct{}

func (e *EmptySelectionError) Error() string {
	return "no units selected"
}

// ConflictError indicates an optimistic-concurrency precondition failed;
// another writer got there first. Safe to retry from a fresh read.
type ConflictError struct {
	Entity string
	ID     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent update on %s %s", e.Entity, e.ID)
}

// TransientError wraps an I/O or timeout failure from the persistence layer.
// The whole operation is safe to retry because every write is conditioned on
// the expected prior state.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// wrapStoreErr classifies a raw persistence error. No-document results are
// handled at call sites (they need the entity and id); a write conflict from
// a lost transaction race becomes a ConflictError; everything else is driver
// I/O and therefore transient.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("TransientTransactionError") {
		return &ConflictError{Entity: "transaction", ID: op}
	}
	return &TransientError{Op: op, Err: err}
}
