package bizerror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jinzhu/gorm"
)

var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrStagedRecordNotFound = errors.New("staged record not found")
	ErrNoData               = errors.New("no records in the requested range")
	ErrEventTypeExisted     = errors.New("event type existed")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}

// ErrInvalidRecord reports a work record that breaks a local invariant.
// It is always raised before any store operation is attempted.
type ErrInvalidRecord struct {
	Reason string
}

func (e *ErrInvalidRecord) Error() string {
	return "invalid record: " + e.Reason
}
func (e *ErrInvalidRecord) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "record.invalid", Message: e.Reason, Data: nil}
}

// ErrStore wraps a failure of the record store. The operation is retryable.
type ErrStore struct {
	Cause error
}

func (e *ErrStore) Unwrap() error {
	return e.Cause
}
func (e *ErrStore) Error() string {
	return fmt.Sprintf("store operation failed: %v", e.Cause)
}
func (e *ErrStore) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadGateway, Code: "store.store_error", Message: e.Error(), Data: nil}
}

// ErrBatchCommit reports an aborted batch commit. Ledger carries the
// per-record commit statuses so the caller can retry the failed remainder.
type ErrBatchCommit struct {
	Ledger interface{}
	Cause  error
}

func (e *ErrBatchCommit) Unwrap() error {
	return e.Cause
}
func (e *ErrBatchCommit) Error() string {
	return fmt.Sprintf("batch commit aborted: %v", e.Cause)
}
func (e *ErrBatchCommit) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadGateway, Code: "workspace.batch_commit_failed",
		Message: e.Error(), Data: e.Ledger}
}

// ErrMutationRolledBack reports an optimistic mutation whose store call
// failed; the local change has been reverted.
type ErrMutationRolledBack struct {
	Cause error
}

func (e *ErrMutationRolledBack) Unwrap() error {
	return e.Cause
}
func (e *ErrMutationRolledBack) Error() string {
	return fmt.Sprintf("mutation rolled back: %v", e.Cause)
}
func (e *ErrMutationRolledBack) Respond() *BizErrorDetail {
	status := http.StatusBadGateway
	if errors.Is(e.Cause, gorm.ErrRecordNotFound) {
		status = http.StatusNotFound
	}
	return &BizErrorDetail{Status: status, Code: "workspace.mutation_rolled_back",
		Message: e.Error(), Data: map[string]string{"state": "ROLLED_BACK"}}
}

type ErrCapExceeded struct {
	Entity string
	Cap    int
}

func (e *ErrCapExceeded) Error() string {
	return fmt.Sprintf("%s cap of %d reached", e.Entity, e.Cap)
}
func (e *ErrCapExceeded) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.cap_exceeded", Message: e.Error(), Data: nil}
}
